package globsize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// userHomeDir is swapped out in tests.
//
//nolint:gochecknoglobals // Test seam
var userHomeDir = os.UserHomeDir

// ParsePatterns normalizes untyped pattern input, as decoded from JSON or YAML.
// A string is split on commas outside of brace groups, a list is used as-is.
// Empty entries are dropped; an input without any pattern is rejected.
func ParsePatterns(input any) ([]string, error) {
	var patterns []string

	switch value := input.(type) {
	case string:
		patterns = SplitPatterns(value)
	case []string:
		patterns = value
	case []any:
		patterns = make([]string, 0, len(value))

		for i, item := range value {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T, not a string", ErrPatternInput, i, item)
			}

			patterns = append(patterns, s)
		}
	default:
		return nil, fmt.Errorf("%w: expected a string or a list of strings, got %T", ErrPatternInput, input)
	}

	out := make([]string, 0, len(patterns))

	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no patterns given", ErrPatternInput)
	}

	return out, nil
}

// SplitPatterns splits a comma-separated pattern list, keeping commas
// inside brace groups such as "*.{js,ts}" intact.
func SplitPatterns(s string) []string {
	var (
		patterns []string
		depth    int
		start    int
	)

	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				patterns = append(patterns, s[start:i])
				start = i + 1
			}
		}
	}

	return append(patterns, s[start:])
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(pattern string) (string, error) {
	return expandHome(pattern, func(home string) string { return home })
}

func expandHome(pattern string, quote func(string) string) (string, error) {
	if pattern != "~" && !strings.HasPrefix(pattern, "~/") && !strings.HasPrefix(pattern, `~\`) {
		return pattern, nil
	}

	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", pattern, err)
	}

	return quote(home) + pattern[1:], nil
}

// resolveCwd expands and absolutizes the base directory.
func resolveCwd(cwd string) (string, error) {
	cwd, err := ExpandHome(cwd)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path %q: %w", cwd, err)
	}

	return abs, nil
}

// ResolvePatterns turns every pattern into an absolute pattern rooted at cwd.
// Home shorthand is expanded first. Glob metacharacters in the pattern pass
// through untouched while those in cwd or the home directory are quoted, so a
// directory named "[v1]" is matched literally. Only "." and ".." segments and
// duplicate separators are cleaned.
func ResolvePatterns(patterns []string, cwd string) ([]string, error) {
	resolved := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		expanded, err := expandHome(pattern, QuoteMeta)
		if err != nil {
			return nil, err
		}

		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(QuoteMeta(cwd), expanded)
		}

		resolved = append(resolved, filepath.Clean(expanded))
	}

	return resolved, nil
}

// globMeta lists the characters that start a glob expression.
const globMeta = "*?[{"

// QuoteMeta escapes the glob metacharacters in a literal path by wrapping
// each in a single-character class ("[" becomes "[[]"). Unlike a backslash
// escape this survives filepath.Clean and path separators on every platform.
func QuoteMeta(path string) string {
	if !hasMeta(path) {
		return path
	}

	var b strings.Builder

	for _, r := range path {
		if strings.ContainsRune(globMeta, r) {
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// literalSegment reports whether seg is free of glob expressions once
// single-character classes produced by QuoteMeta are undone, and returns
// the unquoted segment.
func literalSegment(seg string) (string, bool) {
	if !hasMeta(seg) {
		return seg, true
	}

	var b strings.Builder

	for i := 0; i < len(seg); i++ {
		c := seg[i]

		if strings.IndexByte(globMeta, c) < 0 {
			b.WriteByte(c)

			continue
		}

		if c == '[' && i+2 < len(seg) && seg[i+2] == ']' && strings.IndexByte(globMeta, seg[i+1]) >= 0 {
			b.WriteByte(seg[i+1])
			i += 2

			continue
		}

		return "", false
	}

	return b.String(), true
}
