// Package makefile extracts declared target names and their one-line
// descriptions from a Makefile. A target's description is the comment line
// directly above its rule; targets without one get a synthesized default.
package makefile

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// targetLine matches a rule head such as "build:" or "test: deps".
// Special targets (leading dot), pattern rules (%) and variable
// assignments (:=) are deliberately not matched.
var targetLine = regexp.MustCompile(`^([A-Za-z0-9_][A-Za-z0-9_./-]*)\s*:(\s*$|\s*[^=].*$|$)`)

// Target is one exposed Makefile target.
type Target struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Targets parses the Makefile at path and returns a map from target name to
// description. Recipe lines, special targets, pattern rules, and variable
// assignments are skipped.
func Targets(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening makefile: %w", err)
	}
	defer f.Close()

	targets := make(map[string]string)
	var pendingComment string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()

		// Recipe lines never carry target declarations.
		if strings.HasPrefix(line, "\t") {
			pendingComment = ""
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			pendingComment = ""
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			pendingComment = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
			continue
		}

		m := targetLine.FindStringSubmatch(line)
		if m == nil {
			pendingComment = ""
			continue
		}
		name := m[1]
		if _, seen := targets[name]; !seen {
			desc := pendingComment
			if desc == "" {
				desc = fmt.Sprintf("Execute the '%s' target", name)
			}
			targets[name] = desc
		}
		pendingComment = ""
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading makefile: %w", err)
	}
	return targets, nil
}

// Filter returns the targets that pass the include/exclude filters: a target
// is kept when it is not in exclude and, if include is non-empty, is in
// include.
func Filter(all map[string]string, include, exclude []string) map[string]string {
	inc := toSet(include)
	exc := toSet(exclude)

	out := make(map[string]string, len(all))
	for name, desc := range all {
		if _, banned := exc[name]; banned {
			continue
		}
		if len(inc) > 0 {
			if _, ok := inc[name]; !ok {
				continue
			}
		}
		out[name] = desc
	}
	return out
}

// Sorted returns the targets as a name-ordered slice.
func Sorted(targets map[string]string) []Target {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Target, 0, len(names))
	for _, name := range names {
		out = append(out, Target{Name: name, Description: targets[name]})
	}
	return out
}

func toSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
