package globsize

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/sync/errgroup"
)

// DefaultTop is the number of entries Top returns for n == 0.
const DefaultTop = 10

// AllEntries passed to Top returns every entry.
const AllEntries = -1

// FileEntry represents a single reported file.
type FileEntry struct {
	// Path is the absolute file path.
	Path string `json:"path"`
	// Size is the human-readable size.
	Size string `json:"size"`
	// Bytes is the size in bytes.
	Bytes int64 `json:"bytes"`
}

// Result holds aggregate statistics for one computation.
// It is not modified after construction.
type Result struct {
	// Files lists the reported files in discovery order.
	Files []FileEntry `json:"files"`
	// Total is the cumulative size of all files in bytes.
	Total int64 `json:"total"`
	// Size is the human-readable Total.
	Size string `json:"size"`
	// Count is the number of files.
	Count int `json:"count"`
	// Skipped is the number of entries dropped because they could not be accessed during discovery.
	Skipped int `json:"skipped"`
	// Cwd is the absolute directory table paths are made relative to.
	Cwd string `json:"cwd"`
	// Elapsed is the total time taken for the computation.
	Elapsed time.Duration `json:"elapsed"`
}

// buildResult stats every file concurrently, keeping the input order.
// Any stat failure aborts the whole build with a *FileAccessError.
func buildResult(ctx context.Context, files []string, opt Options, tracker *progress) (*Result, error) {
	entries := make([]FileEntry, len(files))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opt.Workers)

	for i, file := range files {
		if egCtx.Err() != nil {
			break
		}

		if !filepath.IsAbs(file) {
			file = filepath.Join(opt.Cwd, file)
		}

		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			info, err := os.Stat(file)
			if err != nil {
				return &FileAccessError{Path: file, Err: err}
			}

			entries[i] = FileEntry{
				Path:  file,
				Size:  FormatSize(info.Size()),
				Bytes: info.Size(),
			}
			tracker.addBytes(info.Size())

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("building stats: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("building stats: %w", err)
	}

	result := &Result{
		Files: entries,
		Cwd:   opt.Cwd,
	}

	for _, e := range entries {
		result.Total += e.Bytes
		result.Count++
	}

	result.Size = FormatSize(result.Total)

	return result, nil
}

// Top returns the n largest files, sorted by size descending with ties kept
// in discovery order. n == 0 selects DefaultTop entries, a negative n all of them.
// Files itself is left untouched.
func (r *Result) Top(n int) []FileEntry {
	files := slices.Clone(r.Files)

	slices.SortStableFunc(files, func(a, b FileEntry) int {
		switch {
		case a.Bytes > b.Bytes:
			return -1
		case a.Bytes < b.Bytes:
			return 1
		default:
			return 0
		}
	})

	if n < 0 {
		return files
	}

	if n == 0 {
		n = DefaultTop
	}

	return files[:min(n, len(files))]
}

// Sorted returns all files, largest first.
func (r *Result) Sorted() []FileEntry {
	return r.Top(AllEntries)
}

// Table renders entries as a two-column text table: sizes right-aligned,
// paths relative to Cwd left-aligned, followed by a totals row summing only
// the given entries. Lines carry no trailing whitespace and the table no
// trailing newline.
func (r *Result) Table(entries []FileEntry) (string, error) {
	var total int64

	rows := make([][]string, 0, len(entries)+1)

	for _, e := range entries {
		rows = append(rows, []string{e.Size, r.relative(e.Path)})
		total += e.Bytes
	}

	rows = append(rows, []string{FormatSize(total), fmt.Sprintf("TOTAL (%d files)", len(entries))})

	var buf bytes.Buffer

	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.BorderNone,
			Symbols: tw.NewSymbols(tw.StyleNone),
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader:     tw.Off,
					ShowFooter:     tw.Off,
					BetweenRows:    tw.Off,
					BetweenColumns: tw.Off,
				},
				Lines: tw.Lines{
					ShowTop:        tw.Off,
					ShowBottom:     tw.Off,
					ShowHeaderLine: tw.Off,
					ShowFooterLine: tw.Off,
				},
			},
		})),
	)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Formatting.AutoWrap = tw.WrapNone
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignRight, tw.AlignLeft}
		cfg.Row.Padding.Global = tw.PaddingNone
		cfg.Row.Padding.PerColumn = []tw.Padding{
			{Right: strings.Repeat(" ", TabSpacing), Overwrite: true},
			tw.PaddingNone,
		}
	})

	if err := table.Bulk(rows); err != nil {
		return "", fmt.Errorf("rendering table: %w", err)
	}

	if err := table.Render(); err != nil {
		return "", fmt.Errorf("rendering table: %w", err)
	}

	lines := make([]string, 0, len(rows))

	for line := range strings.SplitSeq(buf.String(), "\n") {
		if line = strings.TrimRight(line, " "); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}

// TableOf is Table for untyped input; anything but a []FileEntry is rejected.
func (r *Result) TableOf(entries any) (string, error) {
	typed, ok := entries.([]FileEntry)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrInvalidTableInput, entries)
	}

	return r.Table(typed)
}

// TabSpacing is the number of spaces between table columns.
const TabSpacing = 2

func (r *Result) relative(path string) string {
	if r.Cwd == "" {
		return filepath.ToSlash(path)
	}

	rel, err := filepath.Rel(r.Cwd, path)
	if err != nil {
		return filepath.ToSlash(path)
	}

	return filepath.ToSlash(rel)
}
