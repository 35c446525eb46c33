package recommend

import "fmt"

// Resolve returns the entry of titles that equals query exactly.
func Resolve(query string, titles []string) (string, error) {
	if len(titles) == 0 {
		return "", ErrEmptyDataset
	}
	if i := indexOf(query, titles); i >= 0 {
		return titles[i], nil
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, query)
}

// FuzzyResolve returns the title most similar to query. The first title wins
// a tie. With threshold > 0, a best score below threshold is ErrNotFound;
// threshold 0 always returns the best candidate however poor.
func FuzzyResolve(query string, titles []string, threshold float64) (string, error) {
	m, err := bestMatch(query, titles, threshold)
	if err != nil {
		return "", err
	}
	return m.Title, nil
}

func bestMatch(query string, titles []string, threshold float64) (TitleMatch, error) {
	if len(titles) == 0 {
		return TitleMatch{}, ErrEmptyDataset
	}
	best := TitleMatch{Row: -1, Score: -1}
	for i, t := range titles {
		if s := TitleSimilarity(query, t); s > best.Score {
			best = TitleMatch{Title: t, Row: i, Score: s}
		}
	}
	if threshold > 0 && best.Score < threshold {
		return TitleMatch{}, fmt.Errorf("%w: %q (closest %q scored %.0f, need %.0f)",
			ErrNotFound, query, best.Title, best.Score, threshold)
	}
	return best, nil
}

func indexOf(query string, titles []string) int {
	for i, t := range titles {
		if t == query {
			return i
		}
	}
	return -1
}
