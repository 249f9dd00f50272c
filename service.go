package book2pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-book2pdf/internal/assets"
	"github.com/alnah/go-book2pdf/internal/outline"
)

// tocFileName is the normalized summary written into the working
// directory; the outline is flattened from this file, not the raw
// summary.
const tocFileName = "toc.html"

// defaultTimeout bounds the renderer invocation; the renderer is known
// to hang on pathological input, so a run is never allowed to block
// forever.
const defaultTimeout = 10 * time.Minute

// Service compiles one book into a single PDF.
type Service struct {
	cfg    serviceConfig
	config *Config
	runner CommandRunner
	logger *log.Logger
}

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds the renderer invocation.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("book2pdf: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithRunner substitutes the external process runner (used by tests).
func WithRunner(r CommandRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithLogger sets the progress logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a Service for the given frozen configuration.
func New(config *Config, opts ...Option) *Service {
	s := &Service{
		cfg:    serviceConfig{timeout: defaultTimeout},
		config: config,
		runner: ExecRunner{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Compile runs the full pipeline: book build (unless suppressed),
// summary normalization, outline flattening, asset resolution, plan
// assembly, and the renderer invocation. Any step failure aborts the
// run; no partial output is produced and nothing is retried.
func (s *Service) Compile(ctx context.Context, workDir, output string, rebuild bool) error {
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	if rebuild {
		s.logger.Info("building book", "root", s.config.Root, "workdir", workDir)
		if err := s.runner.Run(ctx, "", s.config.Builder.Command, "build", s.config.Root, workDir); err != nil {
			return fmt.Errorf("%w: %v", ErrBuildFailed, err)
		}
	}

	if err := s.normalizeSummary(ctx, workDir); err != nil {
		return err
	}

	pages, err := s.flattenSummary(workDir)
	if err != nil {
		return err
	}
	s.logger.Info("flattened summary", "pages", len(pages))

	resolver := &assets.Resolver{
		WorkDir:  workDir,
		Compiler: &assets.SassCompiler{Command: s.config.Sass.Command},
	}
	resolved, err := resolver.Resolve(ctx, s.config.AssetSources())
	if err != nil {
		return fmt.Errorf("resolving assets: %w", err)
	}
	s.logger.Debug("resolved assets", "count", len(resolved))

	plan, err := buildPlan(s.config, workDir, output, pages, resolved)
	if err != nil {
		return err
	}
	s.logger.Debug("assembled render plan", "tokens", len(plan))

	return s.render(ctx, workDir, plan)
}

// normalizeSummary runs the external tidy over the raw summary,
// producing the normalized toc file inside the working directory.
// Tidy exits 1 when it only emitted warnings; that counts as success.
func (s *Service) normalizeSummary(ctx context.Context, workDir string) error {
	summary := filepath.Join(workDir, filepath.FromSlash(s.config.Structure.Summary))
	err := s.runner.Run(ctx, workDir, s.config.Tidy.Command, "-q", "-utf8", "-o", tocFileName, summary)
	if err != nil && !tidyWarningsOnly(err) {
		return fmt.Errorf("%w: %v", ErrNormalizeFailed, err)
	}
	return nil
}

func (s *Service) flattenSummary(workDir string) ([]outline.Page, error) {
	f, err := os.Open(filepath.Join(workDir, tocFileName))
	if err != nil {
		return nil, fmt.Errorf("opening normalized summary: %w", err)
	}
	defer func() { _ = f.Close() }()

	nodes, err := outline.Parse(f)
	if err != nil {
		return nil, err
	}
	return outline.Flatten(nodes), nil
}

// render invokes the renderer under the hard timeout. On expiry the
// process group is killed and the run fails; there is no retry.
func (s *Service) render(ctx context.Context, workDir string, plan RenderPlan) error {
	s.logger.Info("rendering", "command", s.config.Renderer.Command, "timeout", s.cfg.timeout)
	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	err := s.runner.Run(ctx, workDir, s.config.Renderer.Command, plan...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrRenderTimeout, s.cfg.timeout)
		}
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return nil
}
