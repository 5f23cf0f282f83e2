package globsize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// project lays out a small package tree with a dependency directory and OS artifacts.
func project(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, root, "index.js", 100)
	writeFile(t, root, "src/a.js", 5)
	writeFile(t, root, "src/Thumbs.DB", 4)
	writeFile(t, root, "src/.DS_Store", 3)
	writeFile(t, root, "node_modules/pkg/index.js", 7)
	writeFile(t, root, ".DS_STORE", 2)

	return root
}

func TestComputeScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", 10)
	writeFile(t, root, "b", 20)
	writeFile(t, root, "c", 30)

	result, err := Compute(context.Background(), []string{"*"}, testOptions(root))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Count)
	assert.Equal(t, int64(60), result.Total)
	assert.Equal(t, "60 B", result.Size)
	assert.Equal(t, root, result.Cwd)
	assert.Equal(t, []string{"c", "b"}, relPaths(t, root, result.Top(2)))
}

func TestComputeDependencyDirs(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		include  bool
		want     []string
	}{
		{"skipped by default", []string{"*"}, false, []string{"index.js", "src/a.js"}},
		{"included by option", []string{"*"}, true, []string{"index.js", "node_modules/pkg/index.js", "src/a.js", "src/node_modules/x.js"}},
		{"included by explicit pattern", []string{"node_modules"}, false, []string{"node_modules/pkg/index.js"}},
		{"explicit pattern with trailing slash", []string{"node_modules/"}, false, []string{"node_modules/pkg/index.js"}},
		{"other patterns do not enable it", []string{"src", "node_modules/../*.js"}, false, []string{"src/a.js", "index.js"}},
		{"nested skipped by default", []string{"src"}, false, []string{"src/a.js"}},
		{"nested included by option", []string{"src"}, true, []string{"src/a.js", "src/node_modules/x.js"}},
		{"nested included by explicit pattern", []string{"src/node_modules"}, false, []string{"src/node_modules/x.js"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := project(t)
			writeFile(t, root, "src/node_modules/x.js", 9)

			opt := testOptions(root)
			opt.IncludeDependencyDirs = tt.include

			result, err := Compute(context.Background(), tt.patterns, opt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(t, root, result.Files))
		})
	}
}

func TestComputeNeverReportsArtifacts(t *testing.T) {
	root := project(t)

	opt := testOptions(root)
	opt.Dot = true
	opt.IncludeDependencyDirs = true

	for _, patterns := range [][]string{{"*"}, {"**"}, {".DS_STORE"}, {"src/Thumbs.DB"}} {
		result, err := Compute(context.Background(), patterns, opt)
		require.NoError(t, err)

		for _, f := range result.Files {
			name := strings.ToLower(filepath.Base(f.Path))
			assert.NotEqual(t, ".ds_store", name, "patterns %v", patterns)
			assert.NotEqual(t, "thumbs.db", name, "patterns %v", patterns)
		}
	}
}

func TestComputeInvariants(t *testing.T) {
	root := project(t)

	opt := testOptions(root)
	opt.IncludeDependencyDirs = true

	result, err := Compute(context.Background(), []string{"**/*.js", "src"}, opt)
	require.NoError(t, err)

	var sum int64
	for _, f := range result.Files {
		sum += f.Bytes
	}

	assert.Equal(t, len(result.Files), result.Count)
	assert.Equal(t, sum, result.Total)
	assert.Equal(t, FormatSize(sum), result.Size)

	seen := map[string]bool{}
	for _, f := range result.Files {
		assert.False(t, seen[f.Path], "duplicate %s", f.Path)
		seen[f.Path] = true
	}
}

func TestComputeIdempotent(t *testing.T) {
	root := project(t)

	first, err := Compute(context.Background(), []string{"*", "src/*"}, testOptions(root))
	require.NoError(t, err)

	second, err := Compute(context.Background(), []string{"*", "src/*"}, testOptions(root))
	require.NoError(t, err)

	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Count, second.Count)
}

func TestComputeCaseInsensitiveByDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "A.JS", 3)
	writeFile(t, root, "b.js", 4)

	result, err := Compute(context.Background(), []string{"*.js"}, Options{Cwd: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"A.JS", "b.js"}, relPaths(t, root, result.Files))

	result, err = Compute(context.Background(), []string{"*.js"}, Options{Cwd: root, CaseSensitive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.js"}, relPaths(t, root, result.Files))
}

func TestComputeWorkers(t *testing.T) {
	root := project(t)

	want, err := Compute(context.Background(), []string{"**"}, testOptions(root))
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			opt := testOptions(root)
			opt.Workers = workers

			got, err := Compute(context.Background(), []string{"**"}, opt)
			require.NoError(t, err)

			assert.Equal(t, want.Files, got.Files)
			assert.Equal(t, want.Total, got.Total)
			assert.Equal(t, want.Count, got.Count)
		})
	}
}

// staticGlobber returns fixed candidates regardless of patterns.
type staticGlobber []string

func (g staticGlobber) Glob(context.Context, []string, Options) ([]string, error) {
	return g, nil
}

func TestComputeSkipsVanishedEntries(t *testing.T) {
	root := t.TempDir()
	present := writeFile(t, root, "present", 4)

	opt := testOptions(root)
	opt.Globber = staticGlobber{filepath.Join(root, "vanished"), present}

	result, err := Compute(context.Background(), []string{"*"}, opt)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{"present"}, relPaths(t, root, result.Files))
}

func TestComputeSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dir/a", 1)

	if err := os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "dir", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	result, err := Compute(context.Background(), []string{"dir"}, testOptions(root))
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/a"}, relPaths(t, root, result.Files))
}

func TestComputeHomePattern(t *testing.T) {
	home := t.TempDir()
	writeFile(t, home, "notes/todo.md", 12)

	orig := userHomeDir
	userHomeDir = func() (string, error) { return home, nil }

	t.Cleanup(func() { userHomeDir = orig })

	result, err := Compute(context.Background(), []string{"~/notes/*.md"}, testOptions(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, int64(12), result.Total)
}

func TestComputeMetacharactersInCwd(t *testing.T) {
	for _, name := range []string{"[v1]", "{a,b}", "x[!y]"} {
		t.Run(name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), name)
			writeFile(t, root, "a.js", 3)
			writeFile(t, root, "lib/b.js", 4)

			result, err := Compute(context.Background(), []string{"**/*.js"}, testOptions(root))
			require.NoError(t, err)
			assert.Equal(t, []string{"a.js", "lib/b.js"}, relPaths(t, root, result.Files))
		})
	}
}

func TestComputePatterns(t *testing.T) {
	root := project(t)

	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"comma-separated string", "index.js, src/*.js", []string{"index.js", "src/a.js"}},
		{"brace group kept whole", "{index,src/a}.js", []string{"index.js", "src/a.js"}},
		{"list", []any{"src/a.js", "index.js"}, []string{"src/a.js", "index.js"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputePatterns(context.Background(), tt.input, testOptions(root))
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(t, root, result.Files))
		})
	}

	_, err := ComputePatterns(context.Background(), " , ", testOptions(root))
	require.ErrorIs(t, err, ErrPatternInput)

	result, err := Compute(context.Background(), []string{"index.js,src/a.js"}, testOptions(root))
	require.NoError(t, err)
	assert.Zero(t, result.Count, "Compute takes each element as one pattern")
}

func TestComputeErrors(t *testing.T) {
	_, err := Compute(context.Background(), nil, testOptions(t.TempDir()))
	require.ErrorIs(t, err, ErrPatternInput)

	_, err = Compute(context.Background(), []string{"[a-"}, testOptions(t.TempDir()))
	require.ErrorIs(t, err, ErrPatternInput)
}

func TestComputeCancelled(t *testing.T) {
	root := project(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Compute(ctx, []string{"*"}, testOptions(root))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestComputeAsync(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a", 10)

	outcome := <-ComputeAsync(context.Background(), []string{"*"}, testOptions(root))
	require.NoError(t, outcome.Err)
	assert.Equal(t, 1, outcome.Result.Count)
}

func TestComputeProgress(t *testing.T) {
	root := project(t)

	calls := make(chan [2]int64, 1)

	opt := testOptions(root)
	opt.ProgressInterval = time.Millisecond
	opt.Progress = func(files, bytes int64) {
		select {
		case calls <- [2]int64{files, bytes}:
		default:
		}
	}
	opt.Globber = slowGlobber{delay: 20 * time.Millisecond}

	_, err := Compute(context.Background(), []string{"*"}, opt)
	require.NoError(t, err)

	select {
	case <-calls:
	default:
		t.Fatal("progress hook was never called")
	}
}

// slowGlobber delegates to FastGlobber after a delay.
type slowGlobber struct {
	delay time.Duration
}

func (g slowGlobber) Glob(ctx context.Context, patterns []string, opt Options) ([]string, error) {
	time.Sleep(g.delay)

	return FastGlobber{}.Glob(ctx, patterns, opt)
}
