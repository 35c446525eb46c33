package recommend

import (
	"fmt"
	"math"
	"sort"
)

// Matrix is a square similarity matrix addressed by row.
type Matrix interface {
	Size() int
	Row(i int) []float64
}

// Neighbor is one ranked column of a similarity row.
type Neighbor struct {
	Row   int     `json:"row"`
	Score float64 `json:"score"`
}

// Rank returns the k columns most similar to row, best first, never
// including row itself. Equal scores keep ascending column order and NaN
// scores sort after every number, so the output is fully deterministic.
// Fewer than k results come back when the matrix has fewer than k+1 rows.
func Rank(m Matrix, row, k int) ([]Neighbor, error) {
	n := m.Size()
	if row < 0 || row >= n {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, row, n)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}

	scores := m.Row(row)
	if len(scores) != n {
		return nil, fmt.Errorf("%w: row %d has %d columns, matrix size %d", ErrIndexOutOfRange, row, len(scores), n)
	}

	ranked := make([]Neighbor, 0, n-1)
	for col, s := range scores {
		if col == row {
			continue
		}
		ranked = append(ranked, Neighbor{Row: col, Score: s})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		aNaN, bNaN := math.IsNaN(a.Score), math.IsNaN(b.Score)
		switch {
		case aNaN != bNaN:
			return bNaN
		case !aNaN && a.Score != b.Score:
			return a.Score > b.Score
		}
		return a.Row < b.Row
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}
