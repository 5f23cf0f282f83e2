package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/globsize/internal/globsize"
)

// patternsFor picks the pattern list: package.json manifest, --pattern, arguments, then "*".
// The manifest also moves the working directory to the package root.
func patternsFor(cfg *Config, args []string) ([]string, error) {
	switch {
	case cfg.Files:
		patterns, dir, err := manifestPatterns(cfg.Cwd)
		if err != nil {
			return nil, err
		}

		cfg.Cwd = dir

		return patterns, nil
	case cfg.Pattern != "":
		return globsize.ParsePatterns(cfg.Pattern)
	case len(args) > 0:
		return globsize.ParsePatterns(args)
	default:
		return []string{"*"}, nil
	}
}

func options(cfg Config) globsize.Options {
	opt := globsize.DefaultOptions()
	opt.Cwd = cfg.Cwd
	opt.CaseSensitive = cfg.CaseSensitive
	opt.IncludeDependencyDirs = cfg.NodeModules
	opt.Dot = cfg.Dot
	opt.Workers = cfg.Workers
	opt.Debug = cfg.Debug

	return opt
}

func logic(ctx context.Context, cfg Config, args []string, out, errOut io.Writer) error {
	patterns, err := patternsFor(&cfg, args)
	if err != nil {
		return err
	}

	opt := options(cfg)

	enableProgress := !cfg.Stats && !cfg.Debug && isTerminal(errOut)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(errOut, "\033[?25l")
		defer fmt.Fprint(errOut, "\033[?25h")

		opt.Progress = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(errOut, "\r\033[2K%s\r", msg)
		}
	}

	result, err := globsize.Compute(ctx, patterns, opt)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(errOut, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	switch {
	case cfg.Stats:
		return PrintJSON(result, out)
	case cfg.Table || cfg.Files:
		return PrintTable(result, cfg.Top, out)
	default:
		return PrintSummary(result, out)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}
