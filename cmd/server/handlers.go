package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ratesprovider/internal/exchange"
	"ratesprovider/internal/rates"
)

// ratesService is the part of *exchange.Service the handlers use.
type ratesService interface {
	Query(ctx context.Context, req exchange.Request) ([]rates.Row, error)
	Table() *rates.Table
	Fresh() bool
}

type ratesResponse struct {
	Rates     []rates.Row `json:"rates"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Fresh   bool   `json:"fresh"`
	Entries int    `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func routes(svc ratesService, timeout time.Duration) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Fresh: svc.Fresh(), Entries: svc.Table().Len()})
	})
	mux.HandleFunc("/api/rates", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}
		handleGetRates(w, r, svc, timeout)
	})
	return mux
}

func handleGetRates(w http.ResponseWriter, r *http.Request, svc ratesService, timeout time.Duration) {
	q := r.URL.Query()
	req := exchange.Request{
		Code:    strings.TrimSpace(q.Get("code")),
		Q:       strings.TrimSpace(q.Get("q")),
		Offline: parseBool(q.Get("offline")),
	}
	if len(req.Code) > 7 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "code must be at most 7 characters"})
		return
	}
	if len(req.Q) > 64 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "q must be at most 64 characters"})
		return
	}
	writeRates(w, r.Context(), svc, req, timeout)
}

func writeRates(w http.ResponseWriter, rctx context.Context, svc ratesService, req exchange.Request, timeout time.Duration) {
	ctx := rctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(rctx, timeout)
		defer cancel()
	}

	rows, err := svc.Query(ctx, req)
	switch {
	case errors.Is(err, rates.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "timed out waiting for exchange rates"})
		return
	case err != nil:
		slog.Error("query exchange rates", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	resp := ratesResponse{Rates: rows}
	if t := svc.Table(); t != nil {
		ts := t.UpdatedAt().UTC()
		resp.UpdatedAt = &ts
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
