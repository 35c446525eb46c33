package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cinematch/cinematch/internal/config"
	"github.com/cinematch/cinematch/internal/export"
)

func newRecommendCmd() *cobra.Command {
	var k int
	var format string
	var exact bool
	var full bool

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Recommend movies similar to a title",
		Long: `Find the title in the dataset (falling back to the closest title when there
is no exact match) and list the most similar movies, best first.

Formats: table (default), markdown, json.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			exp, ok := export.Get(format)
			if !ok {
				return fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(export.ValidFormats(), ", "))
			}
			if cmd.Flags().Changed("count") && k <= 0 {
				return fmt.Errorf("--count must be positive, got %d", k)
			}

			sess, err := openSession(rootFlag, func(c *config.RecommendConfig) {
				if exact {
					c.FuzzyFallback = false
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			match, err := sess.engine.ResolveTitle(query)
			if err != nil {
				return describeError(query, err)
			}
			recs, err := sess.engine.RecommendFor(ctx, match.Movie, k)
			if err != nil {
				return describeError(query, err)
			}

			overview := sess.cfg.Recommend.OverviewChars
			if full {
				overview = 0
			}
			out, err := exp.Export(export.ExportData{
				Query:         query,
				Match:         match,
				Items:         recs,
				OverviewChars: overview,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "count", "k", 0, "Number of recommendations (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, markdown, json")
	cmd.Flags().BoolVar(&exact, "exact", false, "Require an exact title match")
	cmd.Flags().BoolVar(&full, "full", false, "Show complete overviews")

	return cmd
}
