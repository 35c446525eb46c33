package recommend

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

// denseMatrix is a minimal Matrix for tests.
type denseMatrix [][]float64

func (m denseMatrix) Size() int           { return len(m) }
func (m denseMatrix) Row(i int) []float64 { return m[i] }

func TestRank_Example(t *testing.T) {
	m := denseMatrix{
		{1.0, 0.2, 0.9, 0.4},
		{0.2, 1.0, 0.3, 0.1},
		{0.9, 0.3, 1.0, 0.5},
		{0.4, 0.1, 0.5, 1.0},
	}
	got, err := Rank(m, 0, 2)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	want := []Neighbor{{Row: 2, Score: 0.9}, {Row: 3, Score: 0.4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRank_SelfNotMaximal(t *testing.T) {
	// Self-similarity lower than a neighbour must not cost that neighbour its place.
	m := denseMatrix{
		{0.1, 0.9, 0.5},
		{0.9, 1.0, 0.2},
		{0.5, 0.2, 1.0},
	}
	got, err := Rank(m, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []Neighbor{{Row: 1, Score: 0.9}, {Row: 2, Score: 0.5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRank_TiesBreakByColumn(t *testing.T) {
	m := denseMatrix{
		{1, 0.5, 0.7, 0.5, 0.5},
		{0.5, 1, 0, 0, 0},
		{0.7, 0, 1, 0, 0},
		{0.5, 0, 0, 1, 0},
		{0.5, 0, 0, 0, 1},
	}
	got, err := Rank(m, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []Neighbor{{Row: 2, Score: 0.7}, {Row: 1, Score: 0.5}, {Row: 3, Score: 0.5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRank_NaNSortsLast(t *testing.T) {
	nan := math.NaN()
	m := denseMatrix{
		{1, nan, 0.1, nan},
		{nan, 1, 0, 0},
		{0.1, 0, 1, 0},
		{nan, 0, 0, 1},
	}
	got, err := Rank(m, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Row != 2 || got[1].Row != 1 || got[2].Row != 3 {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestRank_ShortResult(t *testing.T) {
	m := denseMatrix{{1, 0.3}, {0.3, 1}}
	got, err := Rank(m, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Row != 0 {
		t.Errorf("got %v", got)
	}

	single := denseMatrix{{1}}
	got, err = Rank(single, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("single-movie matrix should rank nothing, got %v", got)
	}
}

func TestRank_Errors(t *testing.T) {
	m := denseMatrix{{1, 0}, {0, 1}}
	for _, row := range []int{-1, 2} {
		if _, err := Rank(m, row, 1); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("row %d: expected ErrIndexOutOfRange, got %v", row, err)
		}
	}
	if _, err := Rank(m, 0, 0); !errors.Is(err, ErrInvalidK) {
		t.Errorf("k=0: expected ErrInvalidK, got %v", err)
	}
	ragged := denseMatrix{{1, 0}, {0}}
	if _, err := Rank(ragged, 1, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("ragged row: expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRank_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 12
	m := make(denseMatrix, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			// Coarse values force plenty of ties.
			m[i][j] = float64(rng.Intn(5)) / 4
		}
	}

	for r := 0; r < n; r++ {
		for k := 1; k <= n+1; k++ {
			got, err := Rank(m, r, k)
			if err != nil {
				t.Fatalf("Rank(%d, %d): %v", r, k, err)
			}
			if want := min(k, n-1); len(got) != want {
				t.Errorf("Rank(%d, %d): len %d, want %d", r, k, len(got), want)
			}
			for i, nb := range got {
				if nb.Row == r {
					t.Errorf("Rank(%d, %d) contains the query row", r, k)
				}
				if i > 0 {
					prev := got[i-1]
					if prev.Score < nb.Score || (prev.Score == nb.Score && prev.Row > nb.Row) {
						t.Errorf("Rank(%d, %d): order broken at %d: %v", r, k, i, got)
					}
				}
			}
			again, _ := Rank(m, r, k)
			if !reflect.DeepEqual(got, again) {
				t.Errorf("Rank(%d, %d) not deterministic", r, k)
			}
		}
	}
}
