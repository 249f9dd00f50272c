// Package fileutil provides path and file URL helpers shared by the
// compilation pipeline.
package fileutil

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// FileURL converts an absolute path to a file:// URL. Drive-letter
// paths gain a leading slash so the drive lands in the URL path, not
// the authority ("file:///C:/book"). Percent-encoded spaces are
// rewritten to literal spaces because the renderer resolves local
// resources without URL-decoding them.
func FileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{
		Scheme: "file",
		Path:   p,
	}
	return strings.ReplaceAll(u.String(), "%20", " ")
}

// LowerDrive lowercases a Windows drive letter in a file URL
// ("file:///C:/book" becomes "file:///c:/book"). URLs without a drive
// component are returned unchanged. The renderer's resource loader
// compares drive letters case-sensitively.
func LowerDrive(fileURL string) string {
	const prefix = "file:///"
	if len(fileURL) < len(prefix)+2 || !strings.HasPrefix(fileURL, prefix) {
		return fileURL
	}
	drive := fileURL[len(prefix)]
	if fileURL[len(prefix)+1] == ':' && drive >= 'A' && drive <= 'Z' {
		return prefix + string(drive+'a'-'A') + fileURL[len(prefix)+1:]
	}
	return fileURL
}

// RelTo expresses target relative to base. Both inputs may themselves
// be relative; they are resolved against the current directory first.
// When no relative representation exists (different volumes), the
// absolute target is returned instead.
func RelTo(base, target string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return absTarget, nil
	}
	return rel, nil
}
