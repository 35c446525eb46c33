// Package export renders recommendation results for terminals, documents and
// other tools.
package export

import (
	"sort"
	"strings"

	"github.com/cinematch/cinematch/internal/recommend"
)

// ExportData is passed to every Exporter.
type ExportData struct {
	Query         string
	Match         recommend.Match
	Items         []recommend.Recommendation
	OverviewChars int // 0 renders overviews in full
}

// Exporter renders ExportData to a string in a specific format.
type Exporter interface {
	Export(data ExportData) (string, error)
}

// registry maps format names to Exporter implementations.
var registry = map[string]Exporter{
	"table":    &TableExporter{},
	"markdown": &MarkdownExporter{},
	"json":     &JSONExporter{},
}

// Get returns the Exporter registered under name, and whether it was found.
func Get(name string) (Exporter, bool) {
	e, ok := registry[name]
	return e, ok
}

// ValidFormats returns the supported format names in lexical order.
func ValidFormats() []string {
	formats := make([]string, 0, len(registry))
	for k := range registry {
		formats = append(formats, k)
	}
	sort.Strings(formats)
	return formats
}

// Truncate shortens s to at most n runes, appending "..." when anything was
// cut. n <= 0 leaves s alone.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRight(string(r[:n]), " ") + "..."
}

// genreList joins genre names for display; an empty list renders as "-".
func genreList(genres []string) string {
	if len(genres) == 0 {
		return "-"
	}
	return strings.Join(genres, ", ")
}

// matchNote describes how the query was resolved, or "" for exact matches.
func matchNote(data ExportData) string {
	if !data.Match.Fuzzy {
		return ""
	}
	return "showing results for \"" + data.Match.Title + "\" (closest match to \"" + data.Query + "\")"
}
