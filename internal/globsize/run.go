package globsize

import (
	"context"
	"fmt"
	"time"
)

// Outcome is the single value delivered by ComputeAsync.
type Outcome struct {
	Result *Result
	Err    error
}

// Compute returns disk usage statistics for every file matching patterns.
//
// Patterns are resolved against opt.Cwd (with "~" expanded), expanded by
// opt.Globber, and matched directories are recursed into. Dependency
// directories are entered only if opt.IncludeDependencyDirs is set or a
// pattern ends with their name. OS artifacts (.DS_Store, Thumbs.db) are never
// reported. Entries that vanish or cannot be read during discovery are
// skipped and counted in Result.Skipped; a stat failure on a discovered file
// fails the whole call with a *FileAccessError.
//
// Each element of patterns is one pattern; comma-separated lists are not split
// here, use ComputePatterns or ParsePatterns for that.
//
// The computation can be cancelled via ctx.
func Compute(ctx context.Context, patterns []string, opt Options) (*Result, error) {
	start := time.Now()

	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no patterns given", ErrPatternInput)
	}

	opt, err := opt.normalize()
	if err != nil {
		return nil, err
	}

	log := logger{enabled: opt.Debug}

	resolved, err := ResolvePatterns(patterns, opt.Cwd)
	if err != nil {
		return nil, err
	}

	log.printf("cwd: %s\n", opt.Cwd)
	log.printf("patterns:\n")

	for _, p := range resolved {
		log.printf("  - %s\n", p)
	}

	// Child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := startProgressReporter(ctx, opt.Progress, opt.ProgressInterval)

	candidates, err := opt.Globber.Glob(ctx, resolved, opt)
	if err != nil {
		return nil, err
	}

	log.printf("%d candidate(s) matched\n", len(candidates))

	w := newWalker(ctx, resolved, opt, tracker)
	if err := w.expand(candidates); err != nil {
		return nil, err
	}

	log.printf("%d file(s) found, %d entr(y/ies) skipped\n", len(w.files), w.skipped)

	result, err := buildResult(ctx, w.files, opt, tracker)
	if err != nil {
		return nil, err
	}

	result.Skipped = w.skipped
	result.Elapsed = time.Since(start)

	return result, nil
}

// ComputePatterns is Compute for untyped pattern input: a comma-separated
// string such as "*.js,src/**/*.{ts,tsx}" or a list, as accepted by ParsePatterns.
func ComputePatterns(ctx context.Context, input any, opt Options) (*Result, error) {
	patterns, err := ParsePatterns(input)
	if err != nil {
		return nil, err
	}

	return Compute(ctx, patterns, opt)
}

// ComputeAsync runs Compute on its own goroutine. The returned channel
// delivers exactly one Outcome and is then closed.
func ComputeAsync(ctx context.Context, patterns []string, opt Options) <-chan Outcome {
	out := make(chan Outcome, 1)

	go func() {
		defer close(out)

		result, err := Compute(ctx, patterns, opt)
		out <- Outcome{Result: result, Err: err}
	}()

	return out
}
