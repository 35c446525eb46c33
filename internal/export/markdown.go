package export

import (
	"fmt"
	"strings"
)

// MarkdownExporter renders one section per recommendation, the way the web
// front end shows its cards.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(data ExportData) (string, error) {
	var b strings.Builder

	title := data.Match.Title
	if title == "" {
		title = data.Query
	}
	fmt.Fprintf(&b, "# Movies like %s\n\n", title)
	if note := matchNote(data); note != "" {
		fmt.Fprintf(&b, "_%s_\n\n", note)
	}
	if len(data.Items) == 0 {
		b.WriteString("No recommendations.\n")
		return b.String(), nil
	}

	for i, r := range data.Items {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, r.Title)
		if r.PosterURL != "" {
			fmt.Fprintf(&b, "![%s](%s)\n\n", r.Title, r.PosterURL)
		}
		fmt.Fprintf(&b, "| Rating | %s |\n", r.Rating)
		fmt.Fprintf(&b, "| Genres | %s |\n", genreList(r.Genres))
		fmt.Fprintf(&b, "| Similarity | %.3f |\n\n", r.Score)
		fmt.Fprintf(&b, "%s\n\n", Truncate(r.Overview, data.OverviewChars))
	}
	return b.String(), nil
}
