package book2pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-book2pdf/internal/yamlutil"
)

// Defaults applied to absent settings.
const (
	DefaultMargin          = "1cm"
	DefaultZoom            = 1.0
	DefaultJavascriptDelay = 1000 // milliseconds
	DefaultBuilderCommand  = "honkit"
	DefaultTidyCommand     = "tidy"
	DefaultSassCommand     = "sassc"
	DefaultRendererCommand = "wkhtmltopdf"
)

// Config is the settings document for one compilation run. It is
// frozen after Load (plus any CLI overrides merged before New) and
// shared by reference across all pipeline components; nothing mutates
// it afterwards.
type Config struct {
	Root      string          `yaml:"root"`
	Title     string          `yaml:"title"`
	Structure StructureConfig `yaml:"structure"`
	Builder   CommandConfig   `yaml:"builder"`
	Tidy      CommandConfig   `yaml:"tidy"`
	Sass      CommandConfig   `yaml:"sass"`
	Renderer  CommandConfig   `yaml:"renderer"`
	PDF       PDFConfig       `yaml:"pdf"`
}

// StructureConfig locates the book's structural documents.
type StructureConfig struct {
	Summary string `yaml:"summary"` // summary path, relative to the working directory
}

// CommandConfig names an external tool invocation.
type CommandConfig struct {
	Command string `yaml:"command"`
}

// PDFConfig is the renderer-facing section of the settings document.
type PDFConfig struct {
	Margin          MarginConfig `yaml:"margin"`
	Title           string       `yaml:"title"`
	Zoom            float64      `yaml:"zoom"`
	JavascriptDelay int          `yaml:"javascriptDelay"`
	DebugJavascript bool         `yaml:"debugJavascript"`
	Cover           string       `yaml:"cover"`
	TocXsl          string       `yaml:"tocXsl"`
	Header          EdgeConfig   `yaml:"header"`
	Footer          EdgeConfig   `yaml:"footer"`
	Assets          []string     `yaml:"assets"`
}

// MarginConfig holds the four page margins as renderer length strings
// (for example "1cm" or "20mm").
type MarginConfig struct {
	Top    string `yaml:"top"`
	Bottom string `yaml:"bottom"`
	Left   string `yaml:"left"`
	Right  string `yaml:"right"`
}

// EdgeConfig wires a running header or footer: an HTML template asset
// plus the spacing between it and the page body, in millimetres.
type EdgeConfig struct {
	ContentHTML string  `yaml:"contentHtml"`
	Spacing     float64 `yaml:"spacing"`
}

// Load reads the settings document at path, strict-parses it, checks
// required fields, and fills defaults. Returns before any side effect
// on failure.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- settings path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading settings document: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	// Asset references resolve against the book root, so pin it down
	// once here rather than depending on the caller's directory later.
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	cfg.Root = abs

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Root == "" {
		return ErrMissingRoot
	}
	if c.Structure.Summary == "" {
		return ErrMissingSummary
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.PDF.Margin.Top == "" {
		c.PDF.Margin.Top = DefaultMargin
	}
	if c.PDF.Margin.Bottom == "" {
		c.PDF.Margin.Bottom = DefaultMargin
	}
	if c.PDF.Margin.Left == "" {
		c.PDF.Margin.Left = DefaultMargin
	}
	if c.PDF.Margin.Right == "" {
		c.PDF.Margin.Right = DefaultMargin
	}
	if c.PDF.Zoom == 0 {
		c.PDF.Zoom = DefaultZoom
	}
	if c.PDF.JavascriptDelay == 0 {
		c.PDF.JavascriptDelay = DefaultJavascriptDelay
	}
	if c.Builder.Command == "" {
		c.Builder.Command = DefaultBuilderCommand
	}
	if c.Tidy.Command == "" {
		c.Tidy.Command = DefaultTidyCommand
	}
	if c.Sass.Command == "" {
		c.Sass.Command = DefaultSassCommand
	}
	if c.Renderer.Command == "" {
		c.Renderer.Command = DefaultRendererCommand
	}
}

// DocumentTitle is the title passed to the renderer: the pdf section's
// title when set, otherwise the book title.
func (c *Config) DocumentTitle() string {
	if c.PDF.Title != "" {
		return c.PDF.Title
	}
	return c.Title
}

// AssetSource resolves an asset reference from the settings document
// to the absolute source path used as its resolution key.
func (c *Config) AssetSource(ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(c.Root, ref)
}

// AssetSources returns every configured asset reference as an ordered
// absolute path list: cover, TOC stylesheet, header and footer
// templates, then the extras. The order is the enumeration order the
// resolver uses when assigning collision suffixes, so it must stay
// stable between runs.
func (c *Config) AssetSources() []string {
	refs := make([]string, 0, 4+len(c.PDF.Assets))
	for _, ref := range []string{
		c.PDF.Cover,
		c.PDF.TocXsl,
		c.PDF.Header.ContentHTML,
		c.PDF.Footer.ContentHTML,
	} {
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	refs = append(refs, c.PDF.Assets...)

	sources := make([]string, len(refs))
	for i, ref := range refs {
		sources[i] = c.AssetSource(ref)
	}
	return sources
}
