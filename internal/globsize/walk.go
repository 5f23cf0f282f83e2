package globsize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// artifacts are OS metadata files never reported, compared case-insensitively.
//
//nolint:gochecknoglobals // Config constant
var artifacts = []string{".ds_store", "thumbs.db"}

// isArtifact reports whether the final path segment is an OS metadata file.
func isArtifact(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, a := range artifacts {
		if name == a {
			return true
		}
	}

	return false
}

// targetsDependencyDir reports whether any pattern ends with the dependency directory name.
func targetsDependencyDir(patterns []string, name string) bool {
	for _, p := range patterns {
		p = strings.TrimRight(filepath.ToSlash(p), "/")
		if p == name || strings.HasSuffix(p, "/"+name) {
			return true
		}
	}

	return false
}

// walker expands matched entries into a flat list of regular files.
type walker struct {
	ctx     context.Context //nolint:containedctx // Scoped to a single expansion
	opt     Options
	log     logger
	recurse bool // dependency directories may be entered
	tracker *progress

	seen    map[string]struct{}
	files   []string
	skipped int
}

func newWalker(ctx context.Context, patterns []string, opt Options, tracker *progress) *walker {
	return &walker{
		ctx:     ctx,
		opt:     opt,
		log:     logger{enabled: opt.Debug},
		recurse: opt.IncludeDependencyDirs || targetsDependencyDir(patterns, opt.DependencyDir),
		tracker: tracker,
		seen:    make(map[string]struct{}),
	}
}

// shouldRecurse applies the dependency directory gate. An explicit pattern
// targeting the directory overrides a disabled IncludeDependencyDirs.
func (w *walker) shouldRecurse(dir string) bool {
	if filepath.Base(dir) != w.opt.DependencyDir {
		return true
	}

	return w.recurse
}

// expand processes candidates depth-first in the given order.
func (w *walker) expand(candidates []string) error {
	return w.walk(candidates, nil)
}

func (w *walker) walk(paths []string, ancestors []os.FileInfo) error {
	for _, path := range paths {
		select {
		case <-w.ctx.Done():
			return fmt.Errorf("expanding matches: %w", w.ctx.Err())
		default:
		}

		if isArtifact(path) {
			w.log.printf("skipping OS artifact: %s\n", path)

			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			w.log.printf("error accessing path %s: %v\n", path, err)
			w.skipped++

			continue
		}

		if info.IsDir() {
			if err := w.walkDir(path, info, ancestors); err != nil {
				return err
			}

			continue
		}

		if !info.Mode().IsRegular() {
			w.log.printf("skipping non-regular file: %s\n", path)

			continue
		}

		if _, ok := w.seen[path]; ok {
			continue
		}

		w.seen[path] = struct{}{}
		w.files = append(w.files, path)
		w.tracker.addFile()
	}

	return nil
}

func (w *walker) walkDir(dir string, info os.FileInfo, ancestors []os.FileInfo) error {
	if !w.shouldRecurse(dir) {
		w.log.printf("skipping dependency directory: %s\n", dir)

		return nil
	}

	for _, a := range ancestors {
		if os.SameFile(a, info) {
			w.log.printf("skipping directory cycle: %s\n", dir)

			return nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.log.printf("error reading directory %s: %v\n", dir, err)
		w.skipped++

		return nil
	}

	children := make([]string, 0, len(entries))
	for _, e := range entries {
		children = append(children, filepath.Join(dir, e.Name()))
	}

	return w.walk(children, append(ancestors, info))
}
