package history

import "strings"

// Window is a clamped half-open line range over one captured stream.
type Window struct {
	ExecutionID int    `json:"execution_id"`
	TotalLines  int    `json:"total_lines"`
	StartLine   int    `json:"start_line"` // effective (clamped) start
	EndLine     int    `json:"end_line"`   // effective (clamped) end
	Content     string `json:"content"`
}

// GetOutput returns the half-open range [startLine, endLine) of the
// selected stream's lines. Out-of-range indices are clamped, never an
// error; only a structurally invalid stream selector fails.
func GetOutput(e *Execution, stream Stream, startLine, endLine int) *Window {
	lines := e.Lines(stream)
	total := len(lines)

	if startLine < 0 {
		startLine = 0
	}
	if startLine > total {
		startLine = total
	}
	if endLine < 0 {
		endLine = 0
	}
	if endLine > total {
		endLine = total
	}

	var content string
	if startLine < endLine {
		content = strings.Join(lines[startLine:endLine], "\n")
	}

	return &Window{
		ExecutionID: e.ID,
		TotalLines:  total,
		StartLine:   startLine,
		EndLine:     endLine,
		Content:     content,
	}
}

// ContextLine is one line of a match's surrounding context.
type ContextLine struct {
	LineNumber int    `json:"line_number"`
	Text       string `json:"text"`
	IsMatch    bool   `json:"is_match"` // true only for the matched line itself
}

// Match is one matching line with its optional context window.
type Match struct {
	LineNumber int           `json:"line_number"` // 0-based index into the stream
	Text       string        `json:"text"`        // matched line, original case
	Context    []ContextLine `json:"context,omitempty"`
}

// SearchResult holds all matches for one query over one stream.
type SearchResult struct {
	ExecutionID  int     `json:"execution_id"`
	TotalMatches int     `json:"total_matches"`
	Matches      []Match `json:"matches"`
}

// Search returns every line of the selected stream containing query as a
// case-insensitive substring, in line order. When contextLines > 0, each
// match carries up to contextLines lines either side, clamped at stream
// boundaries. Overlapping context windows are reported independently,
// never merged. Zero matches is a successful, empty result.
func Search(e *Execution, query string, stream Stream, contextLines int) *SearchResult {
	lines := e.Lines(stream)
	needle := strings.ToLower(query)

	res := &SearchResult{
		ExecutionID: e.ID,
		Matches:     []Match{},
	}

	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		m := Match{LineNumber: i, Text: line}
		if contextLines > 0 {
			start := i - contextLines
			if start < 0 {
				start = 0
			}
			end := i + contextLines + 1
			if end > len(lines) {
				end = len(lines)
			}
			for j := start; j < end; j++ {
				m.Context = append(m.Context, ContextLine{
					LineNumber: j,
					Text:       lines[j],
					IsMatch:    j == i,
				})
			}
		}
		res.Matches = append(res.Matches, m)
	}
	res.TotalMatches = len(res.Matches)
	return res
}
