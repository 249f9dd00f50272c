package book2pdf

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/alnah/go-book2pdf/internal/assets"
	"github.com/alnah/go-book2pdf/internal/fileutil"
	"github.com/alnah/go-book2pdf/internal/outline"
)

// RenderPlan is the ordered argument sequence handed to the renderer.
// Global options come first, then the cover block (if any), the toc
// block, one block per content page, and finally the output path.
type RenderPlan []string

// buildPlan assembles the renderer invocation. workDir must be
// absolute; resolved is keyed by absolute asset source path.
func buildPlan(cfg *Config, workDir, output string, pages []outline.Page, resolved map[string]assets.Record) (RenderPlan, error) {
	plan := RenderPlan{
		"--margin-top", cfg.PDF.Margin.Top,
		"--margin-bottom", cfg.PDF.Margin.Bottom,
		"--margin-left", cfg.PDF.Margin.Left,
		"--margin-right", cfg.PDF.Margin.Right,
	}
	if title := cfg.DocumentTitle(); title != "" {
		plan = append(plan, "--title", title)
	}

	// Shared by the cover, the toc, and every content page. Built once
	// and never mutated; per-page additions go on a copy below.
	section := sectionOptions(cfg)

	if cfg.PDF.Cover != "" {
		rel, err := destRel(cfg, workDir, cfg.PDF.Cover, resolved)
		if err != nil {
			return nil, err
		}
		plan = append(plan, "cover", rel, "--exclude-from-outline")
		plan = append(plan, section...)
	}

	plan = append(plan, "toc")
	plan = append(plan, section...)
	if cfg.PDF.TocXsl != "" {
		rel, err := destRel(cfg, workDir, cfg.PDF.TocXsl, resolved)
		if err != nil {
			return nil, err
		}
		plan = append(plan, "--xsl-style-sheet", rel)
	}

	pageOpts := append([]string(nil), section...)
	for _, edge := range []struct {
		name string
		cfg  EdgeConfig
	}{
		{"header", cfg.PDF.Header},
		{"footer", cfg.PDF.Footer},
	} {
		if edge.cfg.ContentHTML == "" {
			continue
		}
		rec, ok := resolved[cfg.AssetSource(edge.cfg.ContentHTML)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedAsset, edge.cfg.ContentHTML)
		}
		pageOpts = append(pageOpts,
			"--"+edge.name+"-html", fileutil.LowerDrive(fileutil.FileURL(rec.Dest)),
			"--"+edge.name+"-spacing", formatFloat(edge.cfg.Spacing),
		)
	}

	for _, p := range pages {
		plan = append(plan, filepath.FromSlash(p.Ref))
		plan = append(plan, pageOpts...)
	}

	rel, err := fileutil.RelTo(workDir, output)
	if err != nil {
		return nil, err
	}
	return append(plan, rel), nil
}

// sectionOptions is the option set every section block carries: zoom,
// the JavaScript debug switch when enabled, and the render delay.
func sectionOptions(cfg *Config) []string {
	opts := []string{"--zoom", formatFloat(cfg.PDF.Zoom)}
	if cfg.PDF.DebugJavascript {
		opts = append(opts, "--debug-javascript")
	}
	return append(opts, "--javascript-delay", strconv.Itoa(cfg.PDF.JavascriptDelay))
}

// destRel returns an asset's resolved destination relative to the
// working directory.
func destRel(cfg *Config, workDir, ref string, resolved map[string]assets.Record) (string, error) {
	rec, ok := resolved[cfg.AssetSource(ref)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedAsset, ref)
	}
	return fileutil.RelTo(workDir, rec.Dest)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
