package imageio

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	fallbackBase = "ali-bg-remover"
	resultSuffix = "-no-bg"
	resultExt    = ".png"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// BaseName strips directories and the last extension from an upload name.
// It falls back to a fixed name when nothing is left.
func BaseName(fileName string) string {
	name := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		return fallbackBase
	}
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	if strings.TrimSpace(name) == "" {
		return fallbackBase
	}
	return name
}

// Sanitize trims, collapses whitespace runs into one hyphen and lowercases.
func Sanitize(base string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(base), "-"))
}

// DownloadName derives the suggested result file name for an upload.
// With no upload at all it returns the bare fallback name.
func DownloadName(fileName string) string {
	if fileName == "" {
		return fallbackBase + resultExt
	}
	s := Sanitize(BaseName(fileName))
	if s == "" {
		s = fallbackBase
	}
	return s + resultSuffix + resultExt
}
