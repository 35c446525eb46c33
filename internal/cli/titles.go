package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTitlesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "titles",
		Short: "List every title in the dataset, alphabetically",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(rootFlag)
			if err != nil {
				return err
			}

			titles := sess.engine.Titles()
			if limit > 0 && len(titles) > limit {
				titles = titles[:limit]
			}
			out := cmd.OutOrStdout()
			for _, t := range titles {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of titles (0 lists all)")
	return cmd
}
