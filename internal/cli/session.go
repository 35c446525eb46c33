package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cinematch/cinematch/internal/catalog"
	"github.com/cinematch/cinematch/internal/config"
	"github.com/cinematch/cinematch/internal/db"
	"github.com/cinematch/cinematch/internal/logging"
	"github.com/cinematch/cinematch/internal/recommend"
	"github.com/cinematch/cinematch/internal/tmdb"
)

// session is everything a query command needs: the effective config and an
// engine over the dataset loaded fully into memory.
type session struct {
	root   string
	cfg    config.GlobalConfig
	info   catalog.Info
	engine *recommend.Engine
}

// openSession finds and loads the dataset. tweaks adjust the recommend
// settings after config files are merged, e.g. for command-line flags.
func openSession(rootOverride string, tweaks ...func(*config.RecommendConfig)) (*session, error) {
	root, err := findRoot(rootOverride)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	for _, tweak := range tweaks {
		tweak(&cfg.Recommend)
	}

	info, ds, err := loadDataset(root)
	if err != nil {
		return nil, err
	}
	logging.Debug().Str("root", root).Str("dataset", info.Name).Int("movies", ds.Len()).Msg("dataset loaded")

	engine := recommend.NewEngine(ds, newFetcher(cfg.TMDB), recommend.Options{
		TopK:           cfg.Recommend.TopK,
		FuzzyFallback:  cfg.Recommend.FuzzyFallback,
		FuzzyThreshold: cfg.Recommend.FuzzyThreshold,
		FetchTimeout:   cfg.TMDB.Timeout(),
		MaxConcurrency: cfg.TMDB.MaxConcurrency,
	})
	return &session{root: root, cfg: cfg, info: info, engine: engine}, nil
}

// loadDataset reads the packaged dataset; the database is closed again
// before returning since nothing is read from it afterwards.
func loadDataset(root string) (catalog.Info, *catalog.Dataset, error) {
	dbPath := config.ProjectDBPath(root)
	database, err := db.OpenReadOnly(dbPath)
	if err != nil {
		return catalog.Info{}, nil, fmt.Errorf("%w: %v", catalog.ErrDatasetUnavailable, err)
	}
	defer database.Close()

	store := catalog.NewStore(database)
	info, err := store.GetInfo()
	if err != nil {
		return info, nil, err
	}
	ds, err := store.LoadDataset()
	if err != nil {
		return info, nil, err
	}
	return info, ds, nil
}

// newFetcher returns a TMDB client, or an offline fetcher when no API key is
// configured.
func newFetcher(c config.TMDBConfig) tmdb.Fetcher {
	if c.APIKey == "" {
		logging.Warn().Msg("no TMDB API key configured (set TMDB_API_KEY); showing recommendations without metadata")
		return tmdb.Offline{}
	}
	return tmdb.NewClient(tmdb.Options{
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		ImageBaseURL: c.ImageBaseURL,
		Language:     c.Language,
		Timeout:      c.Timeout(),
		RateLimit:    c.RateLimit,
		Burst:        c.Burst,
	})
}

// findRoot returns override when set, otherwise the nearest directory at or
// above the working directory that contains .cinematch/.
func findRoot(override string) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return findRootFrom(cwd)
}

func findRootFrom(start string) (string, error) {
	dir, _ := filepath.Abs(start)
	for {
		if fi, err := os.Stat(filepath.Join(dir, config.DirName)); err == nil && fi.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w: no %s/ directory found above %s; run `cinematch import` first",
		catalog.ErrDatasetUnavailable, config.DirName, start)
}

// describeError turns engine errors into one-line user messages.
func describeError(query string, err error) error {
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		return fmt.Errorf("no movie matches %q (try `cinematch search %q`)", query, query)
	case errors.Is(err, recommend.ErrEmptyDataset):
		return errors.New("the imported dataset has no movies")
	}
	return err
}
