package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cinematch/cinematch/internal/catalog"
	"github.com/cinematch/cinematch/internal/logging"
	"github.com/cinematch/cinematch/internal/tmdb"
)

// Options tunes an Engine. Zero TopK, FetchTimeout and MaxConcurrency take
// the defaults noted per field. FuzzyFallback and FuzzyThreshold are used as
// given, so a zero Options resolves exact titles only; start from
// DefaultOptions() to get fuzzy matching.
type Options struct {
	TopK           int           // 5
	FuzzyFallback  bool          // resolve misspelt titles when exact match fails
	FuzzyThreshold float64       // 0-100; 0 accepts any best match
	FetchTimeout   time.Duration // 5s, per metadata fetch
	MaxConcurrency int           // 5 concurrent fetches
	Logger         *zerolog.Logger
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{
		TopK:           5,
		FuzzyFallback:  true,
		FuzzyThreshold: 60,
		FetchTimeout:   5 * time.Second,
		MaxConcurrency: 5,
	}
}

// Recommendation is one enriched result.
type Recommendation struct {
	catalog.Movie
	Score float64 `json:"score"`
	tmdb.Metadata
}

// Match is a resolved query.
type Match struct {
	catalog.Movie
	Fuzzy bool    `json:"fuzzy"`
	Score float64 `json:"score"` // title similarity, 100 for exact matches
}

// Engine answers recommendation queries against one immutable dataset.
// It is safe for concurrent use.
type Engine struct {
	ds      *catalog.Dataset
	fetcher tmdb.Fetcher
	opts    Options
	log     zerolog.Logger
}

// NewEngine creates an Engine. A nil fetcher means no enrichment is attempted.
func NewEngine(ds *catalog.Dataset, fetcher tmdb.Fetcher, opts Options) *Engine {
	def := DefaultOptions()
	if opts.TopK <= 0 {
		opts.TopK = def.TopK
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = def.FetchTimeout
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = def.MaxConcurrency
	}
	if fetcher == nil {
		fetcher = tmdb.Offline{}
	}

	var log zerolog.Logger
	if opts.Logger != nil {
		log = *opts.Logger
	} else {
		log = logging.With().Str("component", "recommend").Logger()
	}

	return &Engine{ds: ds, fetcher: fetcher, opts: opts, log: log}
}

// Dataset returns the engine's dataset.
func (e *Engine) Dataset() *catalog.Dataset { return e.ds }

// TopK returns the default result count.
func (e *Engine) TopK() int { return e.opts.TopK }

// Titles lists every title in lexical order.
func (e *Engine) Titles() []string { return e.ds.SortedTitles() }

// Search returns the titles closest to query, best first.
func (e *Engine) Search(query string, limit int) []TitleMatch {
	return FuzzyRank(query, e.ds.Titles(), limit)
}

// ResolveTitle maps a query to a movie: exact title first, then, if enabled,
// the closest title scoring at least the fuzzy threshold.
func (e *Engine) ResolveTitle(query string) (Match, error) {
	titles := e.ds.Titles()
	_, err := Resolve(query, titles)
	if err == nil {
		i, _ := e.ds.IndexOf(query)
		return Match{Movie: e.ds.Movie(i), Score: 100}, nil
	}
	if !errors.Is(err, ErrNotFound) || !e.opts.FuzzyFallback {
		return Match{}, err
	}

	best, err := bestMatch(query, titles, e.opts.FuzzyThreshold)
	if err != nil {
		return Match{}, err
	}
	e.log.Debug().Str("query", query).Str("title", best.Title).Float64("score", best.Score).Msg("fuzzy title match")
	return Match{Movie: e.ds.Movie(best.Row), Fuzzy: true, Score: best.Score}, nil
}

// Recommend resolves title and returns up to k similar movies with metadata,
// in ranking order. k <= 0 uses the configured default.
func (e *Engine) Recommend(ctx context.Context, title string, k int) ([]Recommendation, error) {
	m, err := e.ResolveTitle(title)
	if err != nil {
		return nil, err
	}
	return e.RecommendFor(ctx, m.Movie, k)
}

// RecommendFor ranks and enriches the neighbours of an already resolved movie.
func (e *Engine) RecommendFor(ctx context.Context, movie catalog.Movie, k int) ([]Recommendation, error) {
	if k <= 0 {
		k = e.opts.TopK
	}

	neighbors, err := Rank(e.ds, movie.RowIndex, k)
	if err != nil {
		if errors.Is(err, ErrIndexOutOfRange) {
			e.log.Error().Err(err).Int("row", movie.RowIndex).Str("title", movie.Title).
				Msg("movie table and similarity matrix disagree")
		}
		return nil, err
	}

	out := make([]Recommendation, len(neighbors))
	for i, nb := range neighbors {
		out[i] = Recommendation{Movie: e.ds.Movie(nb.Row), Score: nb.Score}
	}

	if err := e.enrich(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// enrich fetches metadata for every item concurrently. Each goroutine writes
// only its own slot, so order is the ranking order whatever finishes first.
// Fetch failures degrade inside the fetcher; only cancellation of ctx fails.
func (e *Engine) enrich(ctx context.Context, items []Recommendation) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.MaxConcurrency)

	for i := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, e.opts.FetchTimeout)
			defer cancel()
			items[i].Metadata = e.fetcher.Fetch(fctx, items[i].ID)
			return nil
		})
	}

	_ = g.Wait()
	return ctx.Err()
}
