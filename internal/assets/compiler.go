package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrCompile wraps stylesheet preprocessor failures.
var ErrCompile = errors.New("stylesheet compilation failed")

// StyleCompiler abstracts stylesheet compilation to enable testing
// without the external preprocessor. ext is the source extension
// without the dot ("scss" or "sass"); the preprocessor picks its
// syntax from it.
type StyleCompiler interface {
	Compile(ctx context.Context, src, ext string) (css string, err error)
}

// SassCompiler compiles stylesheet text by invoking a sassc-compatible
// binary on a temporary source file and capturing its stdout.
type SassCompiler struct {
	Command string // empty = "sassc"
}

// Compile-time interface check.
var _ StyleCompiler = (*SassCompiler)(nil)

func (c *SassCompiler) Compile(ctx context.Context, src, ext string) (string, error) {
	command := c.Command
	if command == "" {
		command = "sassc"
	}

	tmpPath, cleanup, err := writeTempStyle(src, ext)
	if err != nil {
		return "", err
	}
	defer cleanup()

	cmd := exec.CommandContext(ctx, command, tmpPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", ErrCompile, msg)
		}
		return "", fmt.Errorf("%w: %v", ErrCompile, err)
	}
	return stdout.String(), nil
}

// writeTempStyle creates a temporary file with stylesheet content,
// keeping the source extension so sassc infers the right syntax.
// Returns the file path and a cleanup function to remove the file.
func writeTempStyle(content, ext string) (path string, cleanup func(), err error) {
	if ext == "" {
		ext = "scss"
	}
	tmpFile, err := os.CreateTemp("", "book2pdf-*."+ext)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := tmpFile.WriteString(content); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}

	return path, cleanup, nil
}
