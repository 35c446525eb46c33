package catalog

import (
	"fmt"
	"sort"
)

// Dataset is the read-only movie table plus its N×N similarity matrix.
// Build it with NewDataset; nothing mutates it afterwards.
type Dataset struct {
	movies []Movie
	titles []string
	scores []float64 // row-major, len n*n
	n      int
}

// NewDataset validates the shape of the artifacts and assembles a Dataset.
// Row indices are taken from table position; whatever RowIndex the caller set
// is overwritten.
func NewDataset(movies []Movie, rows [][]float64) (*Dataset, error) {
	n := len(movies)
	if len(rows) != n {
		return nil, fmt.Errorf("%w: matrix has %d rows, movie table has %d", ErrDatasetUnavailable, len(rows), n)
	}

	ds := &Dataset{
		movies: make([]Movie, n),
		titles: make([]string, n),
		scores: make([]float64, n*n),
		n:      n,
	}
	for i, m := range movies {
		m.RowIndex = i
		ds.movies[i] = m
		ds.titles[i] = m.Title
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: matrix row %d has %d columns, want %d", ErrDatasetUnavailable, i, len(row), n)
		}
		copy(ds.scores[i*n:(i+1)*n], row)
	}
	return ds, nil
}

// Len returns the number of movies.
func (d *Dataset) Len() int { return d.n }

// Size returns the matrix dimension; equal to Len.
func (d *Dataset) Size() int { return d.n }

// Row returns the similarity scores of movie i against every movie,
// including itself. The returned slice must not be modified.
func (d *Dataset) Row(i int) []float64 {
	return d.scores[i*d.n : (i+1)*d.n : (i+1)*d.n]
}

// Movie returns the movie at row i.
func (d *Dataset) Movie(i int) Movie { return d.movies[i] }

// Movies returns a copy of the movie table.
func (d *Dataset) Movies() []Movie {
	out := make([]Movie, len(d.movies))
	copy(out, d.movies)
	return out
}

// Titles returns titles in row order. The returned slice must not be modified.
func (d *Dataset) Titles() []string { return d.titles }

// SortedTitles returns the titles in lexical order.
func (d *Dataset) SortedTitles() []string {
	out := make([]string, len(d.titles))
	copy(out, d.titles)
	sort.Strings(out)
	return out
}

// IndexOf returns the first row whose title equals title exactly.
func (d *Dataset) IndexOf(title string) (int, bool) {
	for i, t := range d.titles {
		if t == title {
			return i, true
		}
	}
	return -1, false
}
