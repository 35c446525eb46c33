// Package tmdb fetches display metadata for movies from The Movie Database.
package tmdb

import (
	"context"
	"strconv"

	"github.com/goccy/go-json"
)

// DefaultOverview is used whenever no synopsis is available.
const DefaultOverview = "No description available."

// RatingUnavailable is the display and JSON form of a missing rating.
const RatingUnavailable = "unavailable"

// Rating is a vote average that may be missing.
type Rating struct {
	Value float64
	Valid bool
}

// NewRating returns a valid rating.
func NewRating(v float64) Rating { return Rating{Value: v, Valid: true} }

// String renders the rating with one decimal, or "unavailable".
func (r Rating) String() string {
	if !r.Valid {
		return RatingUnavailable
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

// MarshalJSON encodes a number, or the string "unavailable".
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return json.Marshal(RatingUnavailable)
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts what MarshalJSON produces, plus null.
func (r *Rating) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err == nil {
		if v == nil {
			*r = Rating{}
		} else {
			*r = NewRating(*v)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = Rating{}
	return nil
}

// Metadata is the display information attached to a recommendation.
type Metadata struct {
	PosterURL string   `json:"poster_url"`
	Rating    Rating   `json:"rating"`
	Genres    []string `json:"genres"`
	Overview  string   `json:"overview"`
	Degraded  bool     `json:"degraded,omitempty"`
}

// Placeholder returns the fully degraded record used when a fetch fails.
func Placeholder() Metadata {
	return Metadata{
		PosterURL: "",
		Rating:    Rating{},
		Genres:    []string{},
		Overview:  DefaultOverview,
		Degraded:  true,
	}
}

// Fetcher retrieves metadata for a movie. Implementations never fail: any
// problem degrades the result to Placeholder.
type Fetcher interface {
	Fetch(ctx context.Context, movieID int) Metadata
}

// Offline is a Fetcher that never touches the network. It is used when no
// API key is configured.
type Offline struct{}

// Fetch returns Placeholder.
func (Offline) Fetch(context.Context, int) Metadata { return Placeholder() }
