package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgRed, color.Bold) // HighColor marks files that almost always change together.
	MediumColor = color.New(color.FgYellow)          // MediumColor marks a frequent but not systematic coupling.
	LowColor    = color.New(color.FgCyan)            // LowColor marks an occasional coupling.
)

// GetPlainLabel returns a plain text label for a correlation value. This is
// the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(correlation float64) string {
	return string(schema.GetCorrelationLevel(correlation))
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(correlation float64) string {
	level := schema.GetCorrelationLevel(correlation)
	switch level {
	case schema.HighLevel:
		return HighColor.Sprint(level)
	case schema.MediumLevel:
		return MediumColor.Sprint(level)
	default:
		return LowColor.Sprint(level)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "vendor/", "node_modules/", "*.min.js".
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) || strings.Contains(path, "/"+ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetGraphFilePath returns the default graph file for a repository root.
func GetGraphFilePath(repoPath string) string {
	return filepath.Join(repoPath, DefaultGraphFileName)
}

// GetGraphDBFilePath returns the path to the SQLite DB file for graph storage.
func GetGraphDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".corrgraph.db"
	}
	return filepath.Join(homeDir, ".corrgraph.db")
}

// NormalizeRepoPath normalizes a user-provided path relative to the repo root
// and ensures it's within the repository boundaries.
func NormalizeRepoPath(repoPath, userPath string) (string, error) {
	if filepath.IsAbs(userPath) {
		relPath, err := filepath.Rel(repoPath, userPath)
		if err != nil {
			return "", fmt.Errorf("path is outside repository: %s", userPath)
		}
		userPath = relPath
	}

	cleanPath := filepath.Clean(userPath)
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside repository: %s", userPath)
	}
	if cleanPath == "." {
		return "", fmt.Errorf("path must name a file: %s", userPath)
	}

	normalized := strings.ReplaceAll(cleanPath, string(filepath.Separator), "/")
	return strings.TrimPrefix(normalized, "./"), nil
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave room for the "..." prefix and one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// FormatPercent formats a ratio in [0, 1] as a percentage with the given precision.
func FormatPercent(ratio float64, precision int) string {
	return fmt.Sprintf("%.*f%%", precision, ratio*100)
}
