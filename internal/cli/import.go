package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cinematch/cinematch/internal/catalog"
	"github.com/cinematch/cinematch/internal/config"
	"github.com/cinematch/cinematch/internal/db"
	"github.com/cinematch/cinematch/internal/logging"
)

func newImportCmd() *cobra.Command {
	var moviesPath, matrixPath, name string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate a dataset and package it into .cinematch/",
		Long: `Read the movie table (CSV with movie_id or id, and title columns) and the
N×N similarity matrix (CSV, no header), check that they agree, and store them
in .cinematch/cinematch.db under the dataset directory (--root, default cwd).

Importing again replaces the previous dataset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootFlag
			if root == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root = cwd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("resolve root: %w", err)
			}

			// Read overrides first so a broken config.toml stops the import
			// before anything is replaced.
			pcfg, err := config.LoadProject(root)
			if err != nil {
				return fmt.Errorf("%w (fix or remove it, then import again)", err)
			}

			dsName := name
			if dsName == "" {
				dsName = strings.TrimSuffix(filepath.Base(moviesPath), filepath.Ext(moviesPath))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Reading dataset...")
			ds, err := catalog.LoadCSV(moviesPath, matrixPath)
			if err != nil {
				return err
			}

			database, err := db.Open(config.ProjectDBPath(root))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			bar := progressbar.NewOptions(ds.Len(),
				progressbar.OptionSetDescription("  Packaging similarity matrix"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			info := catalog.Info{Name: dsName, Source: moviesPath}
			err = catalog.NewStore(database).ReplaceDataset(info, ds, func(rows int) {
				_ = bar.Set(rows)
			})
			_ = bar.Finish()
			if err != nil {
				return err
			}

			pcfg.Dataset = config.DatasetMeta{Name: dsName, Movies: moviesPath, Matrix: matrixPath}
			if err := config.SaveProject(root, pcfg); err != nil {
				logging.Err(err).Str("root", root).Msg("could not write project config")
			}

			logging.Info().Str("dataset", dsName).Int("movies", ds.Len()).Str("root", root).Msg("dataset imported")
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d movies into %s\n", ds.Len(), config.ProjectConfigDirPath(root))
			return nil
		},
	}

	cmd.Flags().StringVar(&moviesPath, "movies", "", "Path to the movie table CSV (required)")
	cmd.Flags().StringVar(&matrixPath, "matrix", "", "Path to the similarity matrix CSV (required)")
	cmd.Flags().StringVar(&name, "name", "", "Dataset name (default: movie table file name)")
	_ = cmd.MarkFlagRequired("movies")
	_ = cmd.MarkFlagRequired("matrix")

	return cmd
}
