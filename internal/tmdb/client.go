package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/cinematch/cinematch/internal/logging"
)

// ErrMovieNotFound is returned by FetchDetails when TMDB has no such movie.
var ErrMovieNotFound = errors.New("tmdb: movie not found")

// Options configures a Client.
type Options struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	Timeout      time.Duration // per-request; 0 leaves it to the caller's context
	RateLimit    float64       // requests per second; <= 0 disables limiting
	Burst        int

	// BreakerFailures is the number of consecutive failures that opens the
	// circuit; BreakerCooldown is how long it stays open. Defaults: 5, 30s.
	BreakerFailures uint32
	BreakerCooldown time.Duration

	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client is the TMDB movie-details client.
type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[Metadata]
	log     zerolog.Logger
}

// NewClient creates a Client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.themoviedb.org/3"
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = "https://image.tmdb.org/t/p/w500"
	}
	if opts.Language == "" {
		opts.Language = "en-US"
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerCooldown == 0 {
		opts.BreakerCooldown = 30 * time.Second
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	var log zerolog.Logger
	if opts.Logger != nil {
		log = *opts.Logger
	} else {
		log = logging.With().Str("component", "tmdb").Logger()
	}

	c := &Client{
		opts:    opts,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
	c.cb = gobreaker.NewCircuitBreaker[Metadata](gobreaker.Settings{
		Name:        "tmdb-api",
		MaxRequests: 1,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		// A missing movie or a caller walking away says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMovieNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return c
}

// Fetch returns metadata for movieID, or Placeholder on any failure.
func (c *Client) Fetch(ctx context.Context, movieID int) Metadata {
	md, err := c.cb.Execute(func() (Metadata, error) {
		return c.FetchDetails(ctx, movieID)
	})
	if err != nil {
		c.log.Warn().Err(err).Int("movie_id", movieID).Msg("metadata fetch failed, using placeholder")
		return Placeholder()
	}
	return md
}

// movieResponse is the subset of GET /movie/{id} that is displayed.
type movieResponse struct {
	PosterPath  *string  `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Overview *string `json:"overview"`
}

// FetchDetails performs one request without degradation or circuit breaking.
func (c *Client) FetchDetails(ctx context.Context, movieID int) (Metadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Metadata{}, fmt.Errorf("tmdb: rate limit: %w", err)
	}

	q := url.Values{}
	q.Set("api_key", c.opts.APIKey)
	q.Set("language", c.opts.Language)
	endpoint := fmt.Sprintf("%s/movie/%d?%s", c.opts.BaseURL, movieID, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("tmdb: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("tmdb: %w", redactKey(err, c.opts.APIKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Metadata{}, fmt.Errorf("%w: id %d", ErrMovieNotFound, movieID)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Metadata{}, fmt.Errorf("tmdb: unexpected status %d", resp.StatusCode)
	}

	var body *movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Metadata{}, fmt.Errorf("tmdb: decode: %w", err)
	}
	if body == nil {
		return Metadata{}, errors.New("tmdb: empty response")
	}

	return c.toMetadata(body), nil
}

func (c *Client) toMetadata(r *movieResponse) Metadata {
	md := Metadata{
		Genres:   make([]string, 0, len(r.Genres)),
		Overview: DefaultOverview,
	}
	if r.PosterPath != nil && *r.PosterPath != "" {
		md.PosterURL = strings.TrimRight(c.opts.ImageBaseURL, "/") + "/" + strings.TrimLeft(*r.PosterPath, "/")
	}
	if r.VoteAverage != nil {
		md.Rating = NewRating(*r.VoteAverage)
	}
	for _, g := range r.Genres {
		if g.Name != "" {
			md.Genres = append(md.Genres, g.Name)
		}
	}
	if r.Overview != nil && *r.Overview != "" {
		md.Overview = *r.Overview
	}
	return md
}

// redactKey keeps the API key out of logged transport errors, which embed the URL.
func redactKey(err error, key string) error {
	var ue *url.Error
	if key != "" && errors.As(err, &ue) {
		ue.URL = strings.ReplaceAll(ue.URL, key, "REDACTED")
	}
	return err
}
