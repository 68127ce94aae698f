// Package history reads commit history from Git for the correlation engine.
package history

import (
	"path"
	"strings"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
)

// FileFilter decides which paths take part in the correlation graph.
type FileFilter struct {
	excludedExtensions map[string]struct{}
	excludedFileNames  map[string]struct{}
	excludeRootFiles   bool
	patterns           []string
}

// NewFileFilter builds a filter. Extensions and file names match
// case-insensitively; patterns use contract.ShouldIgnore semantics.
func NewFileFilter(extensions, fileNames []string, excludeRootFiles bool, patterns []string) *FileFilter {
	f := &FileFilter{
		excludedExtensions: make(map[string]struct{}, len(extensions)),
		excludedFileNames:  make(map[string]struct{}, len(fileNames)),
		excludeRootFiles:   excludeRootFiles,
		patterns:           patterns,
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.excludedExtensions[ext] = struct{}{}
	}
	for _, name := range fileNames {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			f.excludedFileNames[name] = struct{}{}
		}
	}
	return f
}

// NewFileFilterFromConfig builds the filter described by the validated config.
func NewFileFilterFromConfig(cfg *contract.Config) *FileFilter {
	return NewFileFilter(cfg.ExcludedExtensions, cfg.ExcludedFileNames, cfg.ExcludeRootFiles, cfg.Excludes)
}

// NewPermissiveFileFilter returns a filter that only rejects blank paths.
func NewPermissiveFileFilter() *FileFilter {
	return NewFileFilter(nil, nil, false, nil)
}

// ShouldExclude reports whether path is left out of the graph.
func (f *FileFilter) ShouldExclude(p string) bool {
	if strings.TrimSpace(p) == "" {
		return true
	}
	if f.excludeRootFiles && !strings.ContainsAny(p, `/\`) {
		return true
	}
	base := path.Base(p)
	if _, ok := f.excludedFileNames[strings.ToLower(base)]; ok {
		return true
	}
	if _, ok := f.excludedExtensions[strings.ToLower(path.Ext(base))]; ok {
		return true
	}
	return contract.ShouldIgnore(p, f.patterns)
}

// FilterFiles returns the paths that are not excluded, in their original order.
func (f *FileFilter) FilterFiles(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !f.ShouldExclude(p) {
			out = append(out, p)
		}
	}
	return out
}
