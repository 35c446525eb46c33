package catalog

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadMovies(t *testing.T) {
	in := "movie_id,title,tags\n19995,Avatar,sci-fi\n597, Titanic ,romance\n"
	movies, err := ReadMovies(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadMovies: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if movies[1].ID != 597 || movies[1].Title != "Titanic" || movies[1].RowIndex != 1 {
		t.Errorf("unexpected movie: %+v", movies[1])
	}
}

func TestReadMovies_IDColumnAlias(t *testing.T) {
	movies, err := ReadMovies(strings.NewReader("title,id\nHeat,949\n"))
	if err != nil {
		t.Fatalf("ReadMovies: %v", err)
	}
	if movies[0].ID != 949 || movies[0].Title != "Heat" {
		t.Errorf("unexpected movie: %+v", movies[0])
	}
}

func TestReadMovies_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":         "",
		"missing title": "movie_id,name\n1,A\n",
		"bad id":        "movie_id,title\nabc,A\n",
		"short record":  "movie_id,tags,title\n1,x\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadMovies(strings.NewReader(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadMatrix(t *testing.T) {
	rows, err := ReadMatrix(strings.NewReader("1.0, 0.5\n0.5,1\n"))
	if err != nil {
		t.Fatalf("ReadMatrix: %v", err)
	}
	if len(rows) != 2 || rows[0][1] != 0.5 || rows[1][1] != 1 {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestReadMatrix_BadScore(t *testing.T) {
	if _, err := ReadMatrix(strings.NewReader("1.0,x\n")); err == nil {
		t.Error("expected error for non-numeric score")
	}
}

func TestLoadCSV_Testdata(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "dataset")
	ds, err := LoadCSV(filepath.Join(dir, "movies.csv"), filepath.Join(dir, "similarity.csv"))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if ds.Len() != 5 {
		t.Errorf("expected 5 movies, got %d", ds.Len())
	}
	if idx, ok := ds.IndexOf("Inception"); !ok || idx != 2 {
		t.Errorf("Inception: got %d %v", idx, ok)
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "movies.csv"), filepath.Join(t.TempDir(), "m.csv"))
	if !errors.Is(err, ErrDatasetUnavailable) {
		t.Fatalf("expected ErrDatasetUnavailable, got %v", err)
	}
}
