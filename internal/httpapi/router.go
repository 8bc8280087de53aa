// Package httpapi serves the public stats endpoint and Prometheus metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/set-night/groupbuyer/internal/config"
	"github.com/set-night/groupbuyer/internal/domain"
)

type StatsSource interface {
	Stats(ctx context.Context) (domain.Stats, error)
	Leaderboard(ctx context.Context, n int) ([]domain.LeaderboardEntry, error)
}

type LogSource interface {
	Recent(ctx context.Context, n int) ([]domain.LogEntry, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	stats StatsSource
	logs  LogSource
	store Pinger
	log   *slog.Logger
}

func NewRouter(stats StatsSource, logs LogSource, store Pinger, log *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer,
		middleware.StripSlashes,
	)

	h := &handlers{stats: stats, logs: logs, store: store, log: log}

	r.Get("/", h.home)
	r.Get("/ping", h.ping)
	r.Get("/api/stats", h.getStats)
	r.Get("/api/leaderboard", h.getLeaderboard)
	r.Get("/api/logs", h.getLogs)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("encode response", "error", err)
	}
}

func (h *handlers) writeError(w http.ResponseWriter, op string, err error) {
	h.log.Error(op, "error", err)
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

func (h *handlers) home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("content-type", "text/plain; charset=utf-8")
	w.Write([]byte("Bot is running!"))
}

func (h *handlers) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Error("ping store", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *handlers) getStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Stats(r.Context())
	if err != nil {
		h.writeError(w, "load stats", err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

func (h *handlers) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.stats.Leaderboard(r.Context(), config.LeaderboardSize)
	if err != nil {
		h.writeError(w, "load leaderboard", err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *handlers) getLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.logs.Recent(r.Context(), config.PublicLogLimit)
	if err != nil {
		h.writeError(w, "load logs", err)
		return
	}
	if logs == nil {
		logs = []domain.LogEntry{}
	}
	h.writeJSON(w, http.StatusOK, logs)
}
