package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"podcast-studio/internal/models"
	"podcast-studio/internal/stats"
)

// ListEpisodes serves GET /api/episodes. ?tag= and ?channel= narrow the list.
func (h *Handlers) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	tag := query.Get("tag")

	var (
		episodes []models.Episode
		err      error
	)
	if raw := query.Get("channel"); raw != "" {
		channelID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			badRequest(w, "invalid channel id")
			return
		}
		episodes, err = h.store.ListEpisodesByChannel(ctx, channelID)
		if err == nil && tag != "" {
			episodes = stats.FilterByTag(episodes, tag)
		}
	} else if tag != "" {
		episodes, err = h.store.EpisodesByTag(ctx, tag)
	} else {
		episodes, err = h.store.ListEpisodes(ctx)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, episodes)
}

func (h *Handlers) GetEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := episodeID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	ep, err := h.store.GetEpisode(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if ep == nil {
		notFound(w, "episode not found")
		return
	}
	writeJSON(w, http.StatusOK, ep)
}

// PostEpisode creates an episode owned by the current user's channel, when
// that channel exists.
func (h *Handlers) PostEpisode(w http.ResponseWriter, r *http.Request) {
	var req models.NewEpisode
	if isJSON(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		req.Tags = models.CleanTags(req.Tags)
	} else {
		if err := parseForm(w, r); err != nil {
			badRequest(w, err.Error())
			return
		}
		req = models.NewEpisode{
			Title:       r.PostFormValue("title"),
			Description: r.PostFormValue("description"),
			URL:         r.PostFormValue("url"),
			Thumbnail:   r.PostFormValue("thumbnail"),
			Tags:        models.ParseTagList(r.PostFormValue("tags")),
		}
	}

	ctx := r.Context()
	channel, err := h.store.GetChannel(ctx, currentUser(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var channelID *int64
	if channel != nil {
		channelID = &channel.ID
	}

	ep, err := h.store.AddEpisode(ctx, req, channelID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("episode added", "id", ep.ID, "title", ep.Title)
	writeJSON(w, http.StatusCreated, ep)
}

func (h *Handlers) PatchEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := episodeID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var patch models.EpisodePatch
	if isJSON(r) {
		if err := decodeJSON(w, r, &patch); err != nil {
			badRequest(w, err.Error())
			return
		}
		if patch.Tags != nil {
			cleaned := models.CleanTags(*patch.Tags)
			patch.Tags = &cleaned
		}
	} else {
		if err := parseForm(w, r); err != nil {
			badRequest(w, err.Error())
			return
		}
		patch.Title, _ = formField(r, "title")
		patch.Description, _ = formField(r, "description")
		patch.URL, _ = formField(r, "url")
		patch.Thumbnail, _ = formField(r, "thumbnail")
		if raw, ok := formField(r, "tags"); ok {
			tags := models.ParseTagList(*raw)
			patch.Tags = &tags
		}
	}

	ep, err := h.store.UpdateEpisode(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("episode updated", "id", ep.ID)
	writeJSON(w, http.StatusOK, ep)
}

func (h *Handlers) DeleteEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := episodeID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	deleted, err := h.store.DeleteEpisode(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if deleted {
		h.logger.Info("episode deleted", "id", id)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true, "deleted": deleted})
}

// GetLatest serves the home page views. ?limit= applies to both lists.
func (h *Handlers) GetLatest(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	ctx := r.Context()
	added, err := h.store.NewlyAdded(ctx, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.store.RecentlyUpdated(ctx, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Latest{NewlyAdded: added, RecentlyUpdated: updated})
}

func (h *Handlers) GetEpisodesByTag(w http.ResponseWriter, r *http.Request) {
	episodes, err := h.store.EpisodesByTag(r.Context(), mux.Vars(r)["tag"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, episodes)
}
