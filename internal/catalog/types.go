// Package catalog holds the immutable movie dataset: the movie table and the
// precomputed pairwise similarity matrix.
package catalog

import (
	"errors"
	"time"
)

// ErrDatasetUnavailable reports missing, unreadable or malformed dataset artifacts.
var ErrDatasetUnavailable = errors.New("dataset unavailable")

// Movie is one row of the movie table.
type Movie struct {
	RowIndex int    `json:"row_index"`
	ID       int    `json:"id"`
	Title    string `json:"title"`
}

// Info describes an imported dataset.
type Info struct {
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	MovieCount int       `json:"movie_count"`
	ImportedAt time.Time `json:"imported_at"`
}
