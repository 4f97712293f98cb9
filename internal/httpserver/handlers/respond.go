package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"zonetrack/internal/apperr"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}

// respondError writes {"message"} with the status mapped from err. Store
// failures only expose their short message; the cause goes to the log.
func respondError(w http.ResponseWriter, lg *zap.SugaredLogger, r *http.Request, err error) {
	status := apperr.Status(err)
	msg := err.Error()
	var ae *apperr.Error
	if status >= http.StatusInternalServerError {
		lg.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
		if errors.As(err, &ae) && ae.Msg != "" {
			msg = ae.Msg
		}
	}
	respondMessage(w, status, msg)
}

// respondResult writes body with okStatus, or with 207 plus the failed
// sub-write when err is *apperr.Partial.
func respondResult(w http.ResponseWriter, lg *zap.SugaredLogger, r *http.Request, okStatus int, body map[string]any, err error) {
	var p *apperr.Partial
	switch {
	case err == nil:
		respondJSON(w, okStatus, body)
	case errors.As(err, &p):
		body["message"] = p.Error()
		body["failed"] = p.Failed
		if p.QueueID != 0 {
			body["queue_id"] = p.QueueID
		}
		respondJSON(w, http.StatusMultiStatus, body)
	default:
		respondError(w, lg, r, err)
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid JSON body: %v", err)
	}
	return nil
}

func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func param(r *http.Request, name string) string { return chi.URLParam(r, name) }
