package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/idelchi/globsize/internal/globsize"
)

const manifestName = "package.json"

// findManifest returns the nearest package.json at or above dir.
func findManifest(dir string) (string, error) {
	dir, err := globsize.ExpandHome(dir)
	if err != nil {
		return "", err
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("accessing %q: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found above %q", manifestName, dir)
		}

		dir = parent
	}
}

// manifestPatterns reads the "files" array of the nearest package.json and
// returns it together with the directory holding the manifest.
func manifestPatterns(cwd string) ([]string, string, error) {
	path, err := findManifest(cwd)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %q: %w", path, err)
	}

	var manifest map[string]any
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, "", fmt.Errorf("decoding %q: %w", path, err)
	}

	files, ok := manifest["files"].([]any)
	if !ok {
		return nil, "", fmt.Errorf("%w: expected %q files to be an array", globsize.ErrPatternInput, path)
	}

	patterns, err := globsize.ParsePatterns(files)
	if err != nil {
		return nil, "", fmt.Errorf("%s files: %w", path, err)
	}

	return patterns, filepath.Dir(path), nil
}
