package globsize

import (
	"fmt"
	"os"
	"runtime"
	"time"
)

const (
	// DefaultDependencyDir is the dependency directory skipped unless explicitly targeted.
	DefaultDependencyDir = "node_modules"

	// DefaultProgressInterval is the default interval for progress updates.
	DefaultProgressInterval = 500 * time.Millisecond

	minWorkers = 4
)

// Options configures pattern resolution, traversal and statting.
type Options struct {
	// Cwd is the base directory patterns are resolved against (default: process working directory).
	Cwd string
	// CaseSensitive disables the default case-insensitive glob matching.
	CaseSensitive bool
	// IncludeDependencyDirs recurses into dependency directories even when no pattern targets them.
	IncludeDependencyDirs bool
	// DependencyDir is the name of the dependency directory (default: node_modules).
	DependencyDir string
	// Dot lets wildcards match names starting with a dot.
	Dot bool
	// Workers bounds the number of concurrent stat calls (0 = auto).
	Workers int
	// Globber expands patterns into candidate paths (default: fastwalk + gobwas/glob).
	Globber Globber
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Progress, if set, is called periodically with the number of files and bytes seen so far.
	Progress func(files, bytes int64)
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
}

// DefaultOptions returns the options used when the caller has no preference:
// case-insensitive matching from the process working directory.
// It equals the zero Options.
func DefaultOptions() Options {
	return Options{}
}

// normalize fills in defaults and resolves Cwd to an absolute path.
func (o Options) normalize() (Options, error) {
	if o.Cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("getting current directory: %w", err)
		}

		o.Cwd = cwd
	}

	cwd, err := resolveCwd(o.Cwd)
	if err != nil {
		return o, err
	}

	o.Cwd = cwd

	if o.DependencyDir == "" {
		o.DependencyDir = DefaultDependencyDir
	}

	if o.Workers <= 0 {
		o.Workers = max(runtime.NumCPU()*4, minWorkers) //nolint:mnd // I/O bound
	}

	if o.Globber == nil {
		o.Globber = FastGlobber{}
	}

	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}

	return o, nil
}

// logger provides conditional debug output.
type logger struct {
	enabled bool
}

// printf prints debug output to stderr if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		fmt.Fprintf(os.Stderr, "[debug]: "+format, args...)
	}
}
