package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"podcast-studio/internal/logging"
	"podcast-studio/internal/store"
)

// Handlers serves the JSON API over a store.Store.
type Handlers struct {
	store   store.Store
	logger  *slog.Logger
	version string
}

func New(st store.Store, logger *slog.Logger, version string) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		store:   st,
		logger:  logger,
		version: version,
	}
}

// Register mounts every route on r. limit wraps write endpoints; it may be nil.
func (h *Handlers) Register(r *mux.Router, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	write := func(fn http.HandlerFunc) http.Handler { return limit(fn) }

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/version", h.Version).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/channel", h.GetChannel).Methods(http.MethodGet)
	api.Handle("/channel", write(h.PutChannel)).Methods(http.MethodPut, http.MethodPost)

	api.HandleFunc("/episodes", h.ListEpisodes).Methods(http.MethodGet)
	api.Handle("/episodes", write(h.PostEpisode)).Methods(http.MethodPost)
	api.HandleFunc("/episodes/latest", h.GetLatest).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id}", h.GetEpisode).Methods(http.MethodGet)
	api.Handle("/episodes/{id}", write(h.PatchEpisode)).Methods(http.MethodPatch, http.MethodPut)
	api.Handle("/episodes/{id}", write(h.DeleteEpisode)).Methods(http.MethodDelete)

	api.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/tags", h.GetTagStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/tags/{tag}/episodes", h.GetEpisodesByTag).Methods(http.MethodGet)

	api.HandleFunc("/users/{username}/public", h.GetPublicChannel).Methods(http.MethodGet)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}
