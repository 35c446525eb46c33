package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cinematch/cinematch/internal/db"
)

// Store reads and writes a packaged dataset in the cinematch SQLite database.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given DB.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// ReplaceDataset overwrites whatever dataset is stored with ds inside a single
// transaction. progress, if non-nil, is called after each matrix row is written.
func (s *Store) ReplaceDataset(info Info, ds *Dataset, progress func(rows int)) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM similarity`, `DELETE FROM movies`, `DELETE FROM dataset`} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("store: clear dataset: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO dataset (id, name, source, movie_count, imported_at) VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)`,
		info.Name, info.Source, ds.Len(),
	); err != nil {
		return fmt.Errorf("store: insert dataset: %w", err)
	}

	movieStmt, err := tx.Prepare(`INSERT INTO movies (row_index, movie_id, title) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare movies: %w", err)
	}
	defer movieStmt.Close()

	rowStmt, err := tx.Prepare(`INSERT INTO similarity (row_index, scores) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare similarity: %w", err)
	}
	defer rowStmt.Close()

	for i := 0; i < ds.Len(); i++ {
		m := ds.Movie(i)
		if _, err := movieStmt.Exec(m.RowIndex, m.ID, m.Title); err != nil {
			return fmt.Errorf("store: insert movie %d: %w", i, err)
		}
		if _, err := rowStmt.Exec(i, float64SliceToBlob(ds.Row(i))); err != nil {
			return fmt.Errorf("store: insert similarity row %d: %w", i, err)
		}
		if progress != nil {
			progress(i + 1)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// GetInfo returns the imported dataset's description.
func (s *Store) GetInfo() (Info, error) {
	var info Info
	var source sql.NullString
	var importedAt string
	err := s.db.Conn().QueryRow(
		`SELECT name, source, movie_count, imported_at FROM dataset WHERE id = 1`,
	).Scan(&info.Name, &source, &info.MovieCount, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return info, fmt.Errorf("%w: no dataset imported, run `cinematch import` first", ErrDatasetUnavailable)
	}
	if err != nil {
		return info, fmt.Errorf("store: get info: %w", err)
	}
	info.Source = source.String
	info.ImportedAt = parseTime(importedAt)
	return info, nil
}

// CountMovies returns the number of stored movies.
func (s *Store) CountMovies() (int, error) {
	var n int
	err := s.db.Conn().QueryRow(`SELECT COUNT(*) FROM movies`).Scan(&n)
	return n, err
}

// LoadDataset reads the movie table and matrix into memory. Every failure
// wraps ErrDatasetUnavailable.
func (s *Store) LoadDataset() (*Dataset, error) {
	info, err := s.GetInfo()
	if err != nil {
		if errors.Is(err, ErrDatasetUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}

	n, err := s.CountMovies()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	if n != info.MovieCount {
		return nil, fmt.Errorf("%w: dataset records %d movies, table has %d", ErrDatasetUnavailable, info.MovieCount, n)
	}

	movies, err := s.listMovies()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}

	rows := make([][]float64, 0, len(movies))
	dbRows, err := s.db.Conn().Query(`SELECT row_index, scores FROM similarity ORDER BY row_index`)
	if err != nil {
		return nil, fmt.Errorf("%w: store: list similarity: %v", ErrDatasetUnavailable, err)
	}
	defer func() { _ = dbRows.Close() }()

	for dbRows.Next() {
		var idx int
		var blob []byte
		if err := dbRows.Scan(&idx, &blob); err != nil {
			return nil, fmt.Errorf("%w: store: scan similarity: %v", ErrDatasetUnavailable, err)
		}
		if idx != len(rows) {
			return nil, fmt.Errorf("%w: similarity row %d missing", ErrDatasetUnavailable, len(rows))
		}
		row, err := blobToFloat64Slice(blob)
		if err != nil {
			return nil, fmt.Errorf("%w: similarity row %d: %v", ErrDatasetUnavailable, idx, err)
		}
		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}

	return NewDataset(movies, rows)
}

func (s *Store) listMovies() ([]Movie, error) {
	rows, err := s.db.Conn().Query(`SELECT row_index, movie_id, title FROM movies ORDER BY row_index`)
	if err != nil {
		return nil, fmt.Errorf("store: list movies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var movies []Movie
	for rows.Next() {
		var m Movie
		if err := rows.Scan(&m.RowIndex, &m.ID, &m.Title); err != nil {
			return nil, err
		}
		if m.RowIndex != len(movies) {
			return nil, fmt.Errorf("store: movie row %d missing", len(movies))
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
