// Command maestro serves Makefile targets as MCP tools.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/deixis/maestro"
	"github.com/deixis/maestro/internal/config"
	"github.com/deixis/maestro/internal/history"
	"github.com/deixis/maestro/internal/makefile"
	maestromcp "github.com/deixis/maestro/internal/mcp"
	"github.com/deixis/maestro/internal/runner"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("maestro: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "mcp":
		err = mcpMain(args)
	case "targets":
		err = targetsMain(args)
	case "show":
		err = showMain(args)
	case "version":
		fmt.Println(maestro.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "maestro: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: maestro <command> [flags]

Commands:
  mcp         Start the MCP server (stdio by default)
  targets     Print the exposed Makefile targets
  show        Print an archived execution record
  version     Print the version
  help        Show this help

Use "maestro <command> -h" for command-specific flags.`)
}

// setupFlags are shared between the mcp and targets subcommands.
type setupFlags struct {
	makefile   string
	workingDir string
	include    string
	exclude    string
	tailLines  int
	timeout    string
	entries    int
	archiveDir string
}

func registerSetupFlags(fs *flag.FlagSet) *setupFlags {
	f := &setupFlags{}
	fs.StringVar(&f.makefile, "makefile", "", "path to the Makefile (default: discovered from the working directory)")
	fs.StringVar(&f.workingDir, "working-dir", "", "directory make runs from (default: the Makefile's directory)")
	fs.StringVar(&f.include, "include", "", "comma-separated targets to expose (default: all)")
	fs.StringVar(&f.exclude, "exclude", "", "comma-separated targets to hide")
	fs.IntVar(&f.tailLines, "tail-lines", 0, "inline output preview limit in lines")
	fs.StringVar(&f.timeout, "timeout", "", "per-execution timeout (e.g. 5m, 30s)")
	fs.IntVar(&f.entries, "cache-entries", 0, "execution cache capacity")
	fs.StringVar(&f.archiveDir, "archive-dir", "", "directory for archived execution records (default: temp dir)")
	return f
}

// setup loads the .maestro config, applies flag overrides, and resolves the
// Makefile and working-directory paths.
type setupResult struct {
	cfg          *config.Config
	makefilePath string
	workingDir   string
}

func setup(f *setupFlags) (*setupResult, error) {
	base := f.workingDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determining working directory: %w", err)
		}
		base = wd
	}

	loaded, err := config.Load(base)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	if f.makefile != "" {
		cfg.RawMakefile = f.makefile
	}
	if f.workingDir != "" {
		cfg.WorkingDir = f.workingDir
	}
	if f.include != "" {
		cfg.Include = splitNames(f.include)
	}
	if f.exclude != "" {
		cfg.Exclude = splitNames(f.exclude)
	}
	if f.tailLines > 0 {
		cfg.RawTail = f.tailLines
	}
	if f.timeout != "" {
		cfg.RawTimeout = f.timeout
	}
	if f.entries > 0 {
		cfg.RawEntries = f.entries
	}
	if f.archiveDir != "" {
		cfg.ArchiveDir = f.archiveDir
	}

	makefilePath := cfg.Makefile()
	if !filepath.IsAbs(makefilePath) {
		makefilePath = filepath.Join(loaded.Root, makefilePath)
	}

	workingDir := cfg.WorkingDir
	if workingDir == "" {
		workingDir = filepath.Dir(makefilePath)
	}

	return &setupResult{cfg: cfg, makefilePath: makefilePath, workingDir: workingDir}, nil
}

func splitNames(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	f := registerSetupFlags(fs)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(maestromcp.Instructions)
		return nil
	}

	s, err := setup(f)
	if err != nil {
		return err
	}

	all, err := makefile.Targets(s.makefilePath)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", s.makefilePath, err)
	}
	exposed := makefile.Filter(all, s.cfg.Include, s.cfg.Exclude)
	if len(exposed) == 0 {
		log.Printf("warning: no targets exposed from %s", s.makefilePath)
	}

	r := &runner.Runner{
		Make:       "make",
		Makefile:   s.makefilePath,
		WorkingDir: s.workingDir,
		Timeout:    s.cfg.Timeout(),
		MaxOutput:  s.cfg.MaxOutputBytes(),
	}
	cache := history.NewCache(s.cfg.MaxEntries(), history.NewDiskArchive(s.cfg.ArchiveDir))

	server := maestromcp.NewServer(s.cfg, s.makefilePath, s.workingDir, exposed, r, cache)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *httpAddr != "" {
		return serveHTTP(ctx, server, *httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- targets ---

func targetsMain(args []string) error {
	fs := flag.NewFlagSet("targets", flag.ExitOnError)
	f := registerSetupFlags(fs)
	_ = fs.Parse(args)

	s, err := setup(f)
	if err != nil {
		return err
	}

	all, err := makefile.Targets(s.makefilePath)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", s.makefilePath, err)
	}
	exposed := makefile.Sorted(makefile.Filter(all, s.cfg.Include, s.cfg.Exclude))

	fmt.Printf("%s (%d targets)\n\n", s.makefilePath, len(exposed))
	for _, t := range exposed {
		fmt.Printf("  %-20s %s\n", t.Name, t.Description)
	}
	return nil
}

// --- show ---

func showMain(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	dir := fs.String("dir", "", "archive directory (required)")
	_ = fs.Parse(args)

	if *dir == "" {
		return fmt.Errorf("show: -dir is required")
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("show: exactly one execution id expected")
	}
	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("show: invalid execution id %q", fs.Arg(0))
	}

	archive := history.NewDiskArchive(*dir)
	e, err := archive.Load(id)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
