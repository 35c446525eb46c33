package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/cinematch/cinematch/internal/logging"
	"github.com/cinematch/cinematch/internal/recommend"
)

// Response is the envelope of every API reply.
type Response struct {
	Status string    `json:"status"`
	Data   any       `json:"data"`
	Error  *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Err(err).Msg("marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("write response")
	}
}

func respondData(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusOK, &Response{Status: "success", Data: data})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, &Response{
		Status: "error",
		Error:  &APIError{Code: code, Message: message},
	})
}

// respondEngineError maps engine errors onto HTTP statuses.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, http.StatusNotFound, "TITLE_NOT_FOUND", err.Error())
	case errors.Is(err, recommend.ErrInvalidK):
		respondError(w, http.StatusBadRequest, "INVALID_K", err.Error())
	case errors.Is(err, recommend.ErrEmptyDataset):
		respondError(w, http.StatusServiceUnavailable, "EMPTY_DATASET", "no movies loaded")
	case errors.Is(err, recommend.ErrIndexOutOfRange):
		respondError(w, http.StatusInternalServerError, "DATASET_INCONSISTENT", "dataset is inconsistent")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "TIMEOUT", "request cancelled or timed out")
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
