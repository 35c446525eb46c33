// Package cli defines the Cobra command tree for the cinematch CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cinematch/cinematch/internal/config"
	"github.com/cinematch/cinematch/internal/logging"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	rootFlag      string
	logLevelFlag  string
	logFormatFlag string
)

// newRootCmd builds the command tree. Each call returns fresh commands with
// flags at their defaults.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cinematch",
		Short: "Content-based movie recommendations from a precomputed similarity matrix",
		Long: `cinematch recommends movies similar to one you already like.

It ranks movies by a precomputed similarity matrix and decorates each result
with poster, rating, genres and overview from The Movie Database (TMDB).

Run 'cinematch import --movies movies.csv --matrix similarity.csv' in a
directory to package a dataset, then 'cinematch recommend "Titanic"'.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initLogging,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&rootFlag, "root", "r", "", "Dataset directory containing .cinematch/ (default: search upward from cwd)")
	pf.StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	pf.StringVar(&logFormatFlag, "log-format", "", "Log format: auto, json, console (default from config)")

	cmd.AddCommand(
		newImportCmd(),
		newRecommendCmd(),
		newSearchCmd(),
		newTitlesCmd(),
		newStatusCmd(),
		newServeCmd(),
		newMCPCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initLogging configures the global logger from config, then flags.
func initLogging(cmd *cobra.Command, args []string) error {
	gcfg, err := config.LoadGlobal()
	if err != nil {
		return err
	}
	lc := logging.Config{Level: gcfg.Log.Level, Format: gcfg.Log.Format}
	if logLevelFlag != "" {
		lc.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		lc.Format = logFormatFlag
	}
	logging.Init(lc)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cinematch %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
