// Package assets lays out the configured book assets inside the
// working directory and applies per-extension transforms.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-book2pdf/internal/fileutil"
)

// Kind classifies how a source asset is materialized.
type Kind int

const (
	Verbatim Kind = iota
	StyleSheet
	Template
)

// WorkDirToken is the placeholder replaced in template assets with the
// working directory's file URL.
const WorkDirToken = "%workingDir%"

// Record maps one source asset to its working-directory destination.
type Record struct {
	Source string // absolute source path
	Dest   string // absolute destination path
	Kind   Kind
}

// Resolver materializes assets into the working directory. WorkDir
// must be absolute. A nil Compiler falls back to a sassc invocation.
type Resolver struct {
	WorkDir  string
	Compiler StyleCompiler
}

// Resolve assigns every source a unique destination, then runs all
// transforms concurrently and joins them at a single barrier. The
// returned map is complete or nil: the first transform failure aborts
// the whole resolution. Sources are deduplicated by path; every
// surviving asset is re-materialized on every run.
//
// Collision policy: the destination is the source basename (for
// stylesheets, with the extension already swapped to the compiled
// form, so the swap cannot collide with another asset's destination);
// when that name is taken by an earlier source, integer suffixes _1,
// _2, ... are tried in ascending order and the first unclaimed one
// wins. The suffix lands after the extension (x.png, x.png_1). Known
// limitation: the counter is unbounded and a suffixed name is never
// checked against a source legitimately named x.png_1, nor against
// files left by prior runs.
func (r *Resolver) Resolve(ctx context.Context, sources []string) (map[string]Record, error) {
	records := make(map[string]Record, len(sources))
	claimed := make(map[string]bool, len(sources))

	for _, src := range sources {
		if _, ok := records[src]; ok {
			continue
		}
		kind := kindOf(src)
		name := filepath.Base(src)
		if kind == StyleSheet {
			name = compiledDest(name)
		}
		dest := name
		for i := 1; claimed[dest]; i++ {
			dest = fmt.Sprintf("%s_%d", name, i)
		}
		claimed[dest] = true

		records[src] = Record{
			Source: src,
			Dest:   filepath.Join(r.WorkDir, dest),
			Kind:   kind,
		}
	}

	// Destinations are all distinct before any write starts, so the
	// concurrent transforms never target the same path.
	g, ctx := errgroup.WithContext(ctx)
	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			return r.transform(ctx, rec)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Resolver) transform(ctx context.Context, rec Record) error {
	var err error
	switch rec.Kind {
	case StyleSheet:
		err = r.compileStyle(ctx, rec)
	case Template:
		err = r.substituteTemplate(rec)
	default:
		err = copyFile(rec.Source, rec.Dest)
	}
	if err != nil {
		return fmt.Errorf("asset %s: %w", rec.Source, err)
	}
	return nil
}

// compileStyle feeds the stylesheet source through the preprocessor
// and writes the compiled CSS to the destination.
func (r *Resolver) compileStyle(ctx context.Context, rec Record) error {
	src, err := os.ReadFile(rec.Source)
	if err != nil {
		return err
	}
	compiler := r.Compiler
	if compiler == nil {
		compiler = &SassCompiler{}
	}
	css, err := compiler.Compile(ctx, string(src), styleExt(rec.Source))
	if err != nil {
		return err
	}
	return os.WriteFile(rec.Dest, []byte(css), 0644)
}

// substituteTemplate rewrites the working-directory placeholder to a
// file URL with literal spaces, then writes the result.
func (r *Resolver) substituteTemplate(rec Record) error {
	src, err := os.ReadFile(rec.Source)
	if err != nil {
		return err
	}
	out := strings.ReplaceAll(string(src), WorkDirToken, fileutil.FileURL(r.WorkDir))
	return os.WriteFile(rec.Dest, []byte(out), 0644)
}

// copyFile copies src to dest byte-for-byte, overwriting any existing
// file at the destination.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func kindOf(src string) Kind {
	switch strings.ToLower(filepath.Ext(src)) {
	case ".scss", ".sass":
		return StyleSheet
	case ".xsl":
		return Template
	}
	return Verbatim
}

// compiledDest swaps the stylesheet extension for the compiled form.
func compiledDest(dest string) string {
	return strings.TrimSuffix(dest, filepath.Ext(dest)) + ".css"
}

// styleExt is the source extension without the dot, preserved so the
// preprocessor applies the matching syntax (scss vs indented sass).
func styleExt(src string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(src)), ".")
}
