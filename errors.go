package book2pdf

import "errors"

// Sentinel errors for compilation runs.
var (
	// Settings document errors.
	ErrConfigNotFound = errors.New("settings document not found")
	ErrConfigParse    = errors.New("failed to parse settings document")
	ErrMissingRoot    = errors.New("settings document missing root")
	ErrMissingSummary = errors.New("settings document missing structure.summary")

	// External process errors.
	ErrBuildFailed     = errors.New("book build failed")
	ErrNormalizeFailed = errors.New("summary normalization failed")
	ErrRenderFailed    = errors.New("renderer failed")
	ErrRenderTimeout   = errors.New("renderer timed out")

	// Plan assembly errors.
	ErrUnresolvedAsset = errors.New("configured asset missing from resolution")
)
