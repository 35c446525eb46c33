package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadMovies parses a movie table. The first record is a header that must
// name an id column ("movie_id" or "id") and a "title" column; any other
// columns are ignored.
func ReadMovies(r io.Reader) ([]Movie, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("movies: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("movies: read header: %w", err)
	}

	idCol, titleCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "movie_id", "id":
			if idCol < 0 {
				idCol = i
			}
		case "title":
			titleCol = i
		}
	}
	if idCol < 0 || titleCol < 0 {
		return nil, fmt.Errorf("movies: header must contain movie_id and title columns, got %v", header)
	}

	var movies []Movie
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("movies: line %d: %w", line, err)
		}
		if idCol >= len(rec) || titleCol >= len(rec) {
			return nil, fmt.Errorf("movies: line %d: expected at least %d fields, got %d", line, max(idCol, titleCol)+1, len(rec))
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			return nil, fmt.Errorf("movies: line %d: bad id %q", line, rec[idCol])
		}
		movies = append(movies, Movie{
			RowIndex: len(movies),
			ID:       id,
			Title:    strings.TrimSpace(rec[titleCol]),
		})
	}
	return movies, nil
}

// ReadMatrix parses a headerless CSV of similarity scores, one matrix row per line.
func ReadMatrix(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var rows [][]float64
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("matrix: line %d: %w", line, err)
		}
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("matrix: line %d column %d: bad score %q", line, j+1, field)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadCSV reads both artifacts from disk and builds a validated Dataset.
// Every failure wraps ErrDatasetUnavailable.
func LoadCSV(moviesPath, matrixPath string) (*Dataset, error) {
	movies, err := readFile(moviesPath, ReadMovies)
	if err != nil {
		return nil, err
	}
	rows, err := readFile(matrixPath, ReadMatrix)
	if err != nil {
		return nil, err
	}
	return NewDataset(movies, rows)
}

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	defer f.Close()

	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrDatasetUnavailable, path, err)
	}
	return v, nil
}
