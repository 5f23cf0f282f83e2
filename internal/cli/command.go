// Package cli implements the globsize command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/globsize/internal/globsize"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Config holds the resolved settings from flags, environment and config file.
type Config struct {
	Cwd           string `mapstructure:"cwd"`
	Pattern       string `mapstructure:"pattern"`
	Table         bool   `mapstructure:"table"`
	Top           int    `mapstructure:"top"`
	Stats         bool   `mapstructure:"stats"`
	Files         bool   `mapstructure:"files"`
	NodeModules   bool   `mapstructure:"node-modules"`
	CaseSensitive bool   `mapstructure:"case-sensitive"`
	Dot           bool   `mapstructure:"dot"`
	Workers       int    `mapstructure:"workers"`
	Debug         bool   `mapstructure:"debug"`
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command(os.Stdout, os.Stderr).ExecuteContext(context.Background())
}

// Command builds the root command writing results to out and progress to errOut.
func (c CLI) Command(out, errOut io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "globsize [flags] [patterns...]",
		Short: "Report the disk usage of files matching glob patterns.",
		Long: heredoc.Doc(`
			globsize reports the size of all files matching one or more glob patterns.

			Matched directories are recursed into. node_modules directories are skipped
			unless --node-modules is set or a pattern ends with "node_modules".
			.DS_Store and Thumbs.db files are never counted.

			Patterns are taken from --files, then --pattern, then the positional
			arguments, and default to "*".

			Settings can also come from GLOBSIZE_* environment variables or a
			.globsize.yaml file in the current or home directory.
		`),
		Example: heredoc.Doc(`
			globsize
			globsize 'src/**/*.go'
			globsize -p '*.js,lib/**' --table --top 5
			globsize -d ~/projects -s
		`),
		Version:       c.version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg Config
			if err := v.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("unable to unmarshal config: %w", err)
			}

			return logic(cmd.Context(), cfg, args, out, errOut)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringP("cwd", "d", ".", "Directory to search from")
	flags.StringP("pattern", "p", "", "One or more glob patterns, comma-separated")
	flags.BoolP("table", "t", false, "Show a text table of files sorted by size")
	flags.IntP("top", "n", globsize.AllEntries, "Number of files in the table (-1 = all)")
	flags.BoolP("stats", "s", false, "Print the entire stats object as JSON")
	flags.BoolP("files", "f", false, "Use the 'files' array of the nearest package.json as patterns")
	flags.Bool("node-modules", false, "Recurse into node_modules directories")
	flags.Bool("case-sensitive", false, "Match patterns case-sensitively")
	flags.Bool("dot", false, "Let wildcards match dotfiles")
	flags.Int("workers", 0, "Maximum concurrent stat calls (0 = auto)")
	flags.Bool("debug", false, "Enable debug output")
	flags.String("config", "", "Path to config file")

	return cmd
}

// loadConfig merges defaults, config file, environment and flags into v.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	v.SetEnvPrefix("GLOBSIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".globsize")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}
