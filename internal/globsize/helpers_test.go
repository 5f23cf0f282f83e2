package globsize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates rel below root with size bytes of content, creating parent directories.
func writeFile(t *testing.T, root, rel string, size int) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))

	return path
}

// relPaths returns the entry paths relative to root in slash form.
func relPaths(t *testing.T, root string, entries []FileEntry) []string {
	t.Helper()

	out := make([]string, 0, len(entries))

	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)

		out = append(out, filepath.ToSlash(rel))
	}

	return out
}

func testOptions(cwd string) Options {
	opt := DefaultOptions()
	opt.Cwd = cwd

	return opt
}
