package export

import (
	"github.com/goccy/go-json"

	"github.com/cinematch/cinematch/internal/tmdb"
)

// JSONExporter renders ExportData as structured JSON. Overviews are never
// truncated here; consumers decide how much to show.
type JSONExporter struct{}

type jsonOutput struct {
	Query           string               `json:"query"`
	Title           string               `json:"title"`
	Fuzzy           bool                 `json:"fuzzy"`
	Recommendations []jsonRecommendation `json:"recommendations"`
}

type jsonRecommendation struct {
	Rank      int         `json:"rank"`
	ID        int         `json:"id"`
	Title     string      `json:"title"`
	Score     float64     `json:"score"`
	PosterURL string      `json:"poster_url"`
	Rating    tmdb.Rating `json:"rating"`
	Genres    []string    `json:"genres"`
	Overview  string      `json:"overview"`
	Degraded  bool        `json:"degraded"`
}

func (e *JSONExporter) Export(data ExportData) (string, error) {
	out := jsonOutput{
		Query:           data.Query,
		Title:           data.Match.Title,
		Fuzzy:           data.Match.Fuzzy,
		Recommendations: make([]jsonRecommendation, 0, len(data.Items)),
	}
	for i, r := range data.Items {
		genres := r.Genres
		if genres == nil {
			genres = []string{}
		}
		out.Recommendations = append(out.Recommendations, jsonRecommendation{
			Rank:      i + 1,
			ID:        r.ID,
			Title:     r.Title,
			Score:     r.Score,
			PosterURL: r.PosterURL,
			Rating:    r.Rating,
			Genres:    genres,
			Overview:  r.Overview,
			Degraded:  r.Degraded,
		})
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
