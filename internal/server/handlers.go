package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/cinematch/cinematch/internal/recommend"
)

const (
	maxK          = 50
	defaultLimit  = 10
	maxTitleLimit = 100
)

type healthData struct {
	Status string `json:"status"`
	Movies int    `json:"movies"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	n := s.engine.Dataset().Len()
	if n == 0 {
		respondJSON(w, http.StatusServiceUnavailable, &Response{
			Status: "error",
			Data:   healthData{Status: "empty", Movies: 0},
			Error:  &APIError{Code: "EMPTY_DATASET", Message: "no movies loaded"},
		})
		return
	}
	respondData(w, healthData{Status: "ok", Movies: n})
}

type titlesData struct {
	Query   string                 `json:"query,omitempty"`
	Titles  []string               `json:"titles,omitempty"`
	Matches []recommend.TitleMatch `json:"matches,omitempty"`
}

// handleTitles lists every title in lexical order, or with q the closest
// titles to q (autocomplete).
func (s *Server) handleTitles(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	limit := 0
	if q != "" {
		limit = defaultLimit
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxTitleLimit {
			respondError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and "+strconv.Itoa(maxTitleLimit))
			return
		}
		limit = n
	}

	if q == "" {
		titles := s.engine.Titles()
		if limit > 0 && len(titles) > limit {
			titles = titles[:limit]
		}
		respondData(w, titlesData{Titles: titles})
		return
	}
	respondData(w, titlesData{Query: q, Matches: s.engine.Search(q, limit)})
}

type recommendationsData struct {
	Query           string                     `json:"query"`
	Title           string                     `json:"title"`
	Fuzzy           bool                       `json:"fuzzy"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if strings.TrimSpace(title) == "" {
		respondError(w, http.StatusBadRequest, "MISSING_TITLE", "title is required")
		return
	}

	k := s.engine.TopK()
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxK {
			respondError(w, http.StatusBadRequest, "INVALID_K", "k must be between 1 and "+strconv.Itoa(maxK))
			return
		}
		k = n
	}

	match, err := s.engine.ResolveTitle(title)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	recs, err := s.engine.RecommendFor(ctx, match.Movie, k)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondData(w, recommendationsData{
		Query:           title,
		Title:           match.Title,
		Fuzzy:           match.Fuzzy,
		Recommendations: recs,
	})
}
