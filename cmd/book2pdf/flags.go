package main

import (
	flag "github.com/spf13/pflag"
)

// jsDelaySentinel marks --js-delay as not explicitly set. Zero is a
// valid delay, so an out-of-range sentinel is used instead.
const jsDelaySentinel = -1

// cliFlags holds the single-invocation flag surface. There are no
// subcommands.
type cliFlags struct {
	config    string
	workDir   string
	output    string
	zoom      float64
	jsDelay   int
	noRebuild bool
	timeout   string
	quiet     bool
	verbose   bool
	version   bool
}

func parseFlags(args []string) (*cliFlags, error) {
	fs := flag.NewFlagSet("book2pdf", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "book.yaml", "settings document path")
	fs.StringVarP(&f.workDir, "workdir", "w", "_book", "working directory for the built book")
	fs.StringVarP(&f.output, "output", "o", "book.pdf", "output PDF path")
	fs.Float64Var(&f.zoom, "zoom", 0, "renderer zoom factor (0 = settings value)")
	fs.IntVar(&f.jsDelay, "js-delay", jsDelaySentinel, "javascript render delay in ms")
	fs.BoolVar(&f.noRebuild, "no-rebuild", false, "reuse the working directory, skip the book builder")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "renderer timeout (e.g. 5m)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug detail")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.SortFlags = false

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	return f, nil
}
