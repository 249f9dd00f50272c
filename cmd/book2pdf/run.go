package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"

	book2pdf "github.com/alnah/go-book2pdf"
)

// Sentinel errors for input parsing.
var (
	errBadDelay   = errors.New("js-delay must be non-negative")
	errBadTimeout = errors.New("timeout must be a positive duration")
)

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if f.version {
		fmt.Println(Version)
		return nil
	}

	logger := newLogger(os.Stderr, f)

	cfg, err := book2pdf.Load(f.config)
	if err != nil {
		return err
	}

	// Flag overrides merge before the configuration freezes.
	if f.zoom != 0 {
		cfg.PDF.Zoom = f.zoom
	}
	switch {
	case f.jsDelay == jsDelaySentinel:
		// keep settings value
	case f.jsDelay < 0:
		return fmt.Errorf("%w: %d", errBadDelay, f.jsDelay)
	default:
		cfg.PDF.JavascriptDelay = f.jsDelay
	}

	opts := []book2pdf.Option{book2pdf.WithLogger(logger)}
	if f.timeout != "" {
		d, err := time.ParseDuration(f.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %q", errBadTimeout, f.timeout)
		}
		opts = append(opts, book2pdf.WithTimeout(d))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := book2pdf.New(cfg, opts...)
	return svc.Compile(ctx, f.workDir, f.output, !f.noRebuild)
}

// newLogger creates the CLI logger: info by default, errors only with
// --quiet, debug with --verbose.
func newLogger(w io.Writer, f *cliFlags) *log.Logger {
	level := log.InfoLevel
	if f.quiet {
		level = log.ErrorLevel
	}
	if f.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
