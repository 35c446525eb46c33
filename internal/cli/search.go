package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find the titles closest to a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			sess, err := openSession(rootFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range sess.engine.Search(query, limit) {
				fmt.Fprintf(out, "%3.0f  %s\n", m.Score, m.Title)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of titles")
	return cmd
}
