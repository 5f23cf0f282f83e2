package globsize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gobwas/glob"
)

// Globber expands absolute patterns into the paths matching any of them,
// directories included.
type Globber interface {
	Glob(ctx context.Context, patterns []string, opt Options) ([]string, error)
}

// FastGlobber walks the static base of each pattern with fastwalk and matches
// the remainder with gobwas/glob. Results are sorted per pattern and
// deduplicated across patterns.
type FastGlobber struct{}

// maxZeroDirVariants caps the number of "**/" occurrences expanded into
// zero-directory alternatives.
const maxZeroDirVariants = 4

// Glob implements Globber.
func (FastGlobber) Glob(ctx context.Context, patterns []string, opt Options) ([]string, error) {
	log := logger{enabled: opt.Debug}
	seen := make(map[string]struct{})

	var out []string

	for _, pattern := range patterns {
		matches, err := globOne(ctx, pattern, opt, log)
		if err != nil {
			return nil, err
		}

		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}

			seen[m] = struct{}{}
			out = append(out, m)
		}
	}

	return out, nil
}

// compiledPattern is one absolute pattern split into its literal base
// directory and the glob remainder below it.
type compiledPattern struct {
	base     string
	rem      string
	matchers []glob.Glob
	maxDepth int // 0 = unlimited
	dot      bool
	nocase   bool
}

// splitPattern separates the leading literal segments from the rest and
// unquotes them. rem is empty for a literal path.
func splitPattern(pattern string) (base, rem string) {
	segments := strings.Split(filepath.ToSlash(pattern), "/")
	literals := make([]string, 0, len(segments))

	for i, seg := range segments {
		literal, ok := literalSegment(seg)
		if ok {
			literals = append(literals, literal)

			continue
		}

		base = strings.Join(literals, "/")
		if base == "" || strings.HasSuffix(base, ":") {
			base += "/"
		}

		return filepath.FromSlash(base), strings.Join(segments[i:], "/")
	}

	return filepath.FromSlash(strings.Join(literals, "/")), ""
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, globMeta)
}

// zeroDirVariants expands each "**/" into both itself and nothing, so that
// "**/x" also matches "x" at the base.
func zeroDirVariants(rem string) []string {
	parts := strings.Split(rem, "**/")

	n := len(parts) - 1
	if n == 0 {
		return []string{rem}
	}

	if n > maxZeroDirVariants {
		return []string{rem, strings.ReplaceAll(rem, "**/", "")}
	}

	variants := make([]string, 0, 1<<n)

	for mask := range 1 << n {
		var sb strings.Builder

		sb.WriteString(parts[0])

		for i := 1; i <= n; i++ {
			if mask&(1<<(i-1)) == 0 {
				sb.WriteString("**/")
			}

			sb.WriteString(parts[i])
		}

		variants = append(variants, sb.String())
	}

	return variants
}

func compilePattern(pattern string, opt Options) (*compiledPattern, error) {
	base, rem := splitPattern(pattern)

	cp := &compiledPattern{
		base:   base,
		rem:    rem,
		dot:    opt.Dot || strings.HasPrefix(rem, ".") || strings.Contains(rem, "/."),
		nocase: !opt.CaseSensitive,
	}

	if rem == "" {
		return cp, nil
	}

	if !strings.Contains(rem, "**") {
		cp.maxDepth = strings.Count(rem, "/") + 1
	}

	expr := rem
	if !opt.CaseSensitive {
		expr = strings.ToLower(expr)
	}

	for _, variant := range zeroDirVariants(expr) {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: compiling %q: %w", ErrPatternInput, pattern, err)
		}

		cp.matchers = append(cp.matchers, g)
	}

	return cp, nil
}

// match reports whether the slash-separated path relative to base matches.
func (cp *compiledPattern) match(rel string) bool {
	if !cp.dot && hasDotSegment(rel) {
		return false
	}

	if cp.nocase {
		rel = strings.ToLower(rel)
	}

	for _, g := range cp.matchers {
		if g.Match(rel) {
			return true
		}
	}

	return false
}

func hasDotSegment(rel string) bool {
	for seg := range strings.SplitSeq(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}

	return false
}

// calculateDepth returns the depth of a slash-separated relative path.
func calculateDepth(rel string) int {
	if rel == "" || rel == "." {
		return 0
	}

	return strings.Count(rel, "/") + 1
}

func globOne(ctx context.Context, pattern string, opt Options, log logger) ([]string, error) {
	cp, err := compilePattern(pattern, opt)
	if err != nil {
		return nil, err
	}

	if cp.rem == "" {
		if _, err := os.Lstat(cp.base); err != nil {
			log.printf("no match for literal path %s: %v\n", cp.base, err)

			return nil, nil
		}

		return []string{cp.base}, nil
	}

	if info, err := os.Stat(cp.base); err != nil || !info.IsDir() {
		log.printf("pattern base %s is not a directory, skipping %q\n", cp.base, pattern)

		return nil, nil
	}

	var (
		mu      sync.Mutex
		matches []string
	)

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, cp.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.printf("error accessing path %s: %v\n", path, err)

			return nil // Silently skip errors
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(cp.base, path)
		if err != nil || rel == "." {
			return nil //nolint:nilerr // The base itself is never a match
		}

		rel = filepath.ToSlash(rel)

		if cp.match(rel) {
			mu.Lock()
			matches = append(matches, path)
			mu.Unlock()
		}

		if !d.IsDir() {
			return nil
		}

		if cp.maxDepth > 0 && calculateDepth(rel) >= cp.maxDepth {
			return filepath.SkipDir
		}

		if !cp.dot && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(walkErr, ctxErr) {
			return nil, fmt.Errorf("globbing %q: %w", pattern, walkErr)
		}

		log.printf("walking %s: %v\n", cp.base, walkErr)
	}

	slices.Sort(matches)

	return matches, nil
}
