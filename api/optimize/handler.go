// Package optimize serves schedule optimization over HTTP.
package optimize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/powerplan/core/model"
	"github.com/kilianp07/powerplan/core/scheduler"
	"github.com/kilianp07/powerplan/pkg/export"
)

// Runner computes a report for a request.
type Runner interface {
	Optimize(ctx context.Context, req model.Request) (export.Report, error)
}

const maxBody = 1 << 20

// NewHandler returns an HTTP handler accepting POST /api/optimize with a JSON
// request body. The format query parameter selects json (default), text or
// csv output. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
func NewHandler(runner Runner, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "json"
		}
		if format != "json" && format != "text" && format != "csv" {
			http.Error(w, "unsupported format "+format, http.StatusBadRequest)
			return
		}

		req, err := scheduler.DecodeRequest(http.MaxBytesReader(w, r.Body, maxBody), "json")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rep, err := runner.Optimize(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		switch format {
		case "text":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			err = export.WriteText(w, rep)
		case "csv":
			w.Header().Set("Content-Type", "text/csv")
			err = export.WriteCSV(w, rep)
		default:
			w.Header().Set("Content-Type", "application/json")
			err = export.WriteJSON(w, rep)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case scheduler.IsInvalidInput(err):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
