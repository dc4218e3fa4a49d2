package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// policyFlags holds failure policy flags.
type policyFlags struct {
	failFast  bool
	keepGoing bool
}

// cliFlags holds every man2pdf flag.
type cliFlags struct {
	config      string
	quiet       bool
	verbose     bool
	help        bool
	version     bool
	doctor      bool
	json        bool
	parallel    bool
	workers     int
	output      string
	section     string
	engine      string
	timeout     string
	fontSize    float64
	pageNumbers bool
	page        pageFlags
	policy      policyFlags
}

// addOutputControlFlags adds config and verbosity flags to a FlagSet.
func addOutputControlFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show pool size and timing details")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")
	fs.BoolVar(&f.version, "version", false, "print version")
	fs.BoolVar(&f.doctor, "doctor", false, "check man, col, Chrome and the output directory, then exit")
	fs.BoolVar(&f.json, "json", false, "with --doctor, print the report as JSON")
}

// addRunFlags adds concurrency and lookup flags to a FlagSet.
func addRunFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.BoolVarP(&f.parallel, "parallel", "P", false, "convert commands concurrently")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.section, "section", "s", "", "manual section passed to man")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-command timeout (e.g., 30s)")
	fs.BoolVar(&f.policy.failFast, "fail-fast", false, "stop after the first failure")
	fs.BoolVarP(&f.policy.keepGoing, "keep-going", "k", false, "continue after failures")
}

// addRenderFlags adds engine and layout flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "PDF engine: native, chrome")
	fs.StringVarP(&f.page.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.page.orientation, "orientation", "", "orientation: portrait, landscape")
	fs.Float64Var(&f.page.margin, "margin", 0, "margin in inches (0.25-3.0)")
	fs.Float64Var(&f.fontSize, "font-size", 0, "font size in points (6-16)")
	fs.BoolVar(&f.pageNumbers, "page-numbers", false, "print a footer with page numbers")
}

// parseFlags parses args (args[0] is the program name) and returns the flags
// and the command names in input order.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("man2pdf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	f := &cliFlags{}
	addOutputControlFlags(fs, f)
	addRunFlags(fs, f)
	addRenderFlags(fs, f)

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
