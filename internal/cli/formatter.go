package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/idelchi/globsize/internal/globsize"
)

//nolint:gochecknoglobals // Output styling
var okMark = color.New(color.FgGreen).Sprint("✔")

// PrintJSON outputs the full result in JSON format.
func PrintJSON(result *globsize.Result, writer io.Writer) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs the top n files (all for n < 0) as a size table.
func PrintTable(result *globsize.Result, n int, writer io.Writer) error {
	table, err := result.Table(result.Top(n))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(writer, table)

	return err
}

// PrintSummary outputs a single "<size> (<count> files)" line.
func PrintSummary(result *globsize.Result, writer io.Writer) error {
	_, err := fmt.Fprintf(writer, "%s %s (%d files)\n", okMark, result.Size, result.Count)

	return err
}
