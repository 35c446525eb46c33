package export

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// TableExporter renders results as an aligned plain-text table followed by
// one overview paragraph per movie.
type TableExporter struct{}

func (e *TableExporter) Export(data ExportData) (string, error) {
	var b strings.Builder

	if note := matchNote(data); note != "" {
		fmt.Fprintf(&b, "%s\n\n", note)
	}
	if len(data.Items) == 0 {
		b.WriteString("No recommendations.\n")
		return b.String(), nil
	}

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tRATING\tGENRES\tSCORE")
	for i, r := range data.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.3f\n", i+1, r.Title, r.Rating, genreList(r.Genres), r.Score)
	}
	if err := w.Flush(); err != nil {
		return "", err
	}

	b.WriteString("\n")
	for i, r := range data.Items {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.Title, Truncate(r.Overview, data.OverviewChars))
		if r.PosterURL != "" {
			fmt.Fprintf(&b, "   %s\n", r.PosterURL)
		}
	}
	return b.String(), nil
}
