package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cinematch/cinematch/internal/config"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the packaged dataset and effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot(rootFlag)
			if err != nil {
				return err
			}
			cfg, err := config.Load(root)
			if err != nil {
				return err
			}

			info, ds, err := loadDataset(root)
			if err != nil {
				return err
			}

			var dbSize int64
			if fi, err := os.Stat(config.ProjectDBPath(root)); err == nil {
				dbSize = fi.Size()
			}

			tmdbState := "offline (no API key)"
			if cfg.TMDB.APIKey != "" {
				tmdbState = "enabled (" + cfg.TMDB.Language + ")"
			}
			fuzzy := "off"
			if cfg.Recommend.FuzzyFallback {
				fuzzy = fmt.Sprintf("on (threshold %.0f)", cfg.Recommend.FuzzyThreshold)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nDataset:  %s\n", info.Name)
			fmt.Fprintf(out, "Source:   %s\n", info.Source)
			fmt.Fprintf(out, "Movies:   %d\n", ds.Len())
			fmt.Fprintf(out, "Imported: %s\n", info.ImportedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "DB size:  %s\n", formatBytes(dbSize))
			fmt.Fprintf(out, "Top K:    %d\n", cfg.Recommend.TopK)
			fmt.Fprintf(out, "Fuzzy:    %s\n", fuzzy)
			fmt.Fprintf(out, "TMDB:     %s\n", tmdbState)
			fmt.Fprintln(out)
			return nil
		},
	}
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
