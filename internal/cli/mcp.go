package cli

import (
	"github.com/spf13/cobra"

	"github.com/cinematch/cinematch/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve recommendations to MCP clients over stdio",
		Long: `Run an MCP server on stdin/stdout with two tools:

  recommend_movies  {title, k}
  search_titles     {query, limit}

Logs go to stderr so they never corrupt the protocol stream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(rootFlag)
			if err != nil {
				return err
			}
			return mcp.NewServer(sess.engine, version, sess.cfg.Recommend.OverviewChars).ServeStdio()
		},
	}
}
