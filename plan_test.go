package book2pdf

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/alnah/go-book2pdf/internal/assets"
	"github.com/alnah/go-book2pdf/internal/fileutil"
	"github.com/alnah/go-book2pdf/internal/outline"
)

func planConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Root: t.TempDir(),
		PDF: PDFConfig{
			Margin:          MarginConfig{Top: "1", Bottom: "1", Left: "1", Right: "1"},
			Zoom:            1,
			JavascriptDelay: 1000,
		},
	}
}

func record(cfg *Config, workDir, ref string) (string, assets.Record) {
	src := cfg.AssetSource(ref)
	return src, assets.Record{Source: src, Dest: filepath.Join(workDir, filepath.Base(ref))}
}

func TestBuildPlan(t *testing.T) {
	t.Parallel()

	t.Run("toc stylesheet and two pages, no cover", func(t *testing.T) {
		t.Parallel()

		cfg := planConfig(t)
		cfg.PDF.TocXsl = "toc.xsl"
		workDir := t.TempDir()

		src, rec := record(cfg, workDir, "toc.xsl")
		resolved := map[string]assets.Record{src: rec}
		pages := []outline.Page{
			{Ref: "ch1.html", Title: "One", Level: 1, Index: 1},
			{Ref: "ch2.html", Title: "Two", Level: 1, Index: 2},
		}

		plan, err := buildPlan(cfg, workDir, filepath.Join(workDir, "book.pdf"), pages, resolved)
		if err != nil {
			t.Fatalf("buildPlan() error = %v", err)
		}

		want := RenderPlan{
			"--margin-top", "1", "--margin-bottom", "1",
			"--margin-left", "1", "--margin-right", "1",
			"toc", "--zoom", "1", "--javascript-delay", "1000",
			"--xsl-style-sheet", "toc.xsl",
			"ch1.html", "--zoom", "1", "--javascript-delay", "1000",
			"ch2.html", "--zoom", "1", "--javascript-delay", "1000",
			"book.pdf",
		}
		if !reflect.DeepEqual(plan, want) {
			t.Errorf("buildPlan() =\n%v\nwant\n%v", plan, want)
		}
	})

	t.Run("cover block precedes the toc block", func(t *testing.T) {
		t.Parallel()

		cfg := planConfig(t)
		cfg.PDF.Cover = "cover.jpg"
		workDir := t.TempDir()

		src, rec := record(cfg, workDir, "cover.jpg")
		plan, err := buildPlan(cfg, workDir, filepath.Join(workDir, "book.pdf"), nil,
			map[string]assets.Record{src: rec})
		if err != nil {
			t.Fatalf("buildPlan() error = %v", err)
		}

		want := RenderPlan{
			"--margin-top", "1", "--margin-bottom", "1",
			"--margin-left", "1", "--margin-right", "1",
			"cover", "cover.jpg", "--exclude-from-outline",
			"--zoom", "1", "--javascript-delay", "1000",
			"toc", "--zoom", "1", "--javascript-delay", "1000",
			"book.pdf",
		}
		if !reflect.DeepEqual(plan, want) {
			t.Errorf("buildPlan() =\n%v\nwant\n%v", plan, want)
		}
	})

	t.Run("title follows the margins", func(t *testing.T) {
		t.Parallel()

		cfg := planConfig(t)
		cfg.Title = "My Book"
		workDir := t.TempDir()

		plan, err := buildPlan(cfg, workDir, filepath.Join(workDir, "book.pdf"), nil, nil)
		if err != nil {
			t.Fatalf("buildPlan() error = %v", err)
		}
		if plan[8] != "--title" || plan[9] != "My Book" {
			t.Errorf("tokens 8-9 = %q %q, want --title My Book", plan[8], plan[9])
		}
	})

	t.Run("debug switch joins the shared section options", func(t *testing.T) {
		t.Parallel()

		cfg := planConfig(t)
		cfg.PDF.DebugJavascript = true
		workDir := t.TempDir()

		plan, err := buildPlan(cfg, workDir, filepath.Join(workDir, "book.pdf"), nil, nil)
		if err != nil {
			t.Fatalf("buildPlan() error = %v", err)
		}

		want := RenderPlan{
			"--margin-top", "1", "--margin-bottom", "1",
			"--margin-left", "1", "--margin-right", "1",
			"toc", "--zoom", "1", "--debug-javascript", "--javascript-delay", "1000",
			"book.pdf",
		}
		if !reflect.DeepEqual(plan, want) {
			t.Errorf("buildPlan() =\n%v\nwant\n%v", plan, want)
		}
	})

	t.Run("header and footer wire into every page block", func(t *testing.T) {
		t.Parallel()

		cfg := planConfig(t)
		cfg.PDF.Header = EdgeConfig{ContentHTML: "header.html", Spacing: 10}
		cfg.PDF.Footer = EdgeConfig{ContentHTML: "footer.html", Spacing: 7.5}
		workDir := t.TempDir()

		hdrSrc, hdrRec := record(cfg, workDir, "header.html")
		ftrSrc, ftrRec := record(cfg, workDir, "footer.html")
		resolved := map[string]assets.Record{hdrSrc: hdrRec, ftrSrc: ftrRec}
		pages := []outline.Page{
			{Ref: "ch1.html", Level: 1, Index: 1},
			{Ref: "ch2.html", Level: 1, Index: 2},
		}

		plan, err := buildPlan(cfg, workDir, filepath.Join(workDir, "book.pdf"), pages, resolved)
		if err != nil {
			t.Fatalf("buildPlan() error = %v", err)
		}

		pageBlock := []string{
			"--zoom", "1", "--javascript-delay", "1000",
			"--header-html", fileutil.LowerDrive(fileutil.FileURL(hdrRec.Dest)),
			"--header-spacing", "10",
			"--footer-html", fileutil.LowerDrive(fileutil.FileURL(ftrRec.Dest)),
			"--footer-spacing", "7.5",
		}

		// Skip margins (8), toc block (1 + 4): both pages carry an
		// identical copy of the shared per-page option set.
		rest := []string(plan[13:])
		wantRest := append([]string{"ch1.html"}, pageBlock...)
		wantRest = append(wantRest, "ch2.html")
		wantRest = append(wantRest, pageBlock...)
		wantRest = append(wantRest, "book.pdf")
		if !reflect.DeepEqual(rest, wantRest) {
			t.Errorf("page blocks =\n%v\nwant\n%v", rest, wantRest)
		}
	})

	t.Run("output outside the working directory walks up", func(t *testing.T) {
		t.Parallel()

		cfg := planConfig(t)
		root := t.TempDir()
		workDir := filepath.Join(root, "work")

		plan, err := buildPlan(cfg, workDir, filepath.Join(root, "book.pdf"), nil, nil)
		if err != nil {
			t.Fatalf("buildPlan() error = %v", err)
		}
		if got := plan[len(plan)-1]; got != filepath.Join("..", "book.pdf") {
			t.Errorf("output token = %q, want ../book.pdf", got)
		}
	})

	t.Run("page locators use the platform path form", func(t *testing.T) {
		t.Parallel()

		cfg := planConfig(t)
		workDir := t.TempDir()
		pages := []outline.Page{{Ref: "part1/ch1.html", Level: 1, Index: 1}}

		plan, err := buildPlan(cfg, workDir, filepath.Join(workDir, "book.pdf"), pages, nil)
		if err != nil {
			t.Fatalf("buildPlan() error = %v", err)
		}
		if got := plan[13]; got != filepath.FromSlash("part1/ch1.html") {
			t.Errorf("locator = %q, want platform form", got)
		}
	})

	t.Run("configured asset missing from resolution is an error", func(t *testing.T) {
		t.Parallel()

		cfg := planConfig(t)
		cfg.PDF.Cover = "cover.jpg"
		workDir := t.TempDir()

		_, err := buildPlan(cfg, workDir, filepath.Join(workDir, "book.pdf"), nil, nil)
		if !errors.Is(err, ErrUnresolvedAsset) {
			t.Errorf("buildPlan() error = %v, want ErrUnresolvedAsset", err)
		}
	})

	t.Run("plan assembly is deterministic", func(t *testing.T) {
		t.Parallel()

		cfg := planConfig(t)
		cfg.PDF.TocXsl = "toc.xsl"
		workDir := t.TempDir()
		src, rec := record(cfg, workDir, "toc.xsl")
		resolved := map[string]assets.Record{src: rec}
		pages := []outline.Page{{Ref: "ch1.html", Level: 1, Index: 1}}
		output := filepath.Join(workDir, "book.pdf")

		first, err := buildPlan(cfg, workDir, output, pages, resolved)
		if err != nil {
			t.Fatalf("buildPlan() error = %v", err)
		}
		second, err := buildPlan(cfg, workDir, output, pages, resolved)
		if err != nil {
			t.Fatalf("buildPlan() error = %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Error("identical inputs produced different plans")
		}
	})
}
