package handlers

import (
	"net/http"

	"podcast-studio/internal/models"
)

type statsResponse struct {
	Episodes []models.Episode  `json:"episodes"`
	TagStats []models.TagCount `json:"tagStats"`
}

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	episodes, err := h.store.ListEpisodes(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tags, err := h.store.TagStatistics(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Episodes: episodes, TagStats: tags})
}

func (h *Handlers) GetTagStats(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.TagStatistics(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}
