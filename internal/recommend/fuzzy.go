package recommend

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	apostropheRegex    = regexp.MustCompile(`['\x60\x{2018}\x{2019}\x{02BC}]`)
	specialCharsRegex  = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpaceRegex = regexp.MustCompile(`\s+`)
)

// NormalizeTitle lower-cases a title, drops apostrophes, turns other
// punctuation into spaces and collapses whitespace, so "Schindler's List"
// and "schindlers list" compare equal.
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = apostropheRegex.ReplaceAllString(s, "")
	s = specialCharsRegex.ReplaceAllString(s, " ")
	s = multipleSpaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TitleSimilarity scores two titles from 0 (nothing in common) to 100
// (identical after normalisation). It is the better of a plain edit-distance
// ratio and the same ratio over alphabetically sorted words, so word order
// ("Dark Knight, The") costs nothing.
func TitleSimilarity(a, b string) float64 {
	na, nb := NormalizeTitle(a), NormalizeTitle(b)
	if na == "" && nb == "" {
		return 100
	}
	if na == "" || nb == "" {
		return 0
	}
	return max(ratio(na, nb), ratio(sortTokens(na), sortTokens(nb)))
}

// ratio is 100 * (1 - distance/longest), measured in runes.
func ratio(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}

func sortTokens(s string) string {
	words := strings.Fields(s)
	sort.Strings(words)
	return strings.Join(words, " ")
}

// TitleMatch is a candidate title with its similarity to a query.
type TitleMatch struct {
	Title string  `json:"title"`
	Row   int     `json:"row"`
	Score float64 `json:"score"`
}

// FuzzyRank scores every title against query and returns the best limit
// matches, highest score first, ties in title order. limit <= 0 returns all.
func FuzzyRank(query string, titles []string, limit int) []TitleMatch {
	matches := make([]TitleMatch, len(titles))
	for i, t := range titles {
		matches[i] = TitleMatch{Title: t, Row: i, Score: TitleSimilarity(query, t)}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Row < matches[j].Row
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
