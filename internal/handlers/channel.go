package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"podcast-studio/internal/models"
	"podcast-studio/internal/stats"
)

type publicChannel struct {
	Channel  *models.ChannelProfile `json:"channel"`
	Episodes []models.Episode       `json:"episodes"`
	Summary  stats.Summary          `json:"summary"`
}

func (h *Handlers) GetChannel(w http.ResponseWriter, r *http.Request) {
	channel, err := h.store.GetChannel(r.Context(), currentUser(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if channel == nil {
		notFound(w, "channel not found")
		return
	}
	writeJSON(w, http.StatusOK, channel)
}

// PutChannel upserts the current user's channel. A userName in the body is
// ignored.
func (h *Handlers) PutChannel(w http.ResponseWriter, r *http.Request) {
	var settings models.ChannelSettings
	if isJSON(r) {
		if err := decodeJSON(w, r, &settings); err != nil {
			badRequest(w, err.Error())
			return
		}
	} else {
		if err := parseForm(w, r); err != nil {
			badRequest(w, err.Error())
			return
		}
		settings = models.ChannelSettings{
			ChannelName:        r.PostFormValue("channelName"),
			ChannelDescription: r.PostFormValue("channelDescription"),
			LogoURL:            r.PostFormValue("logoUrl"),
			PersonalWebsite:    r.PostFormValue("personalWebsite"),
			FeedURL:            r.PostFormValue("feedUrl"),
			AuthorName:         r.PostFormValue("authorName"),
			AuthorEmail:        r.PostFormValue("authorEmail"),
			OwnerName:          r.PostFormValue("ownerName"),
			OwnerEmail:         r.PostFormValue("ownerEmail"),
			IsExplicitContent:  formBool(r, "isExplicitContent"),
			Language:           r.PostFormValue("language"),
		}
	}
	settings.UserName = currentUser(r)

	channel, err := h.store.UpsertChannel(r.Context(), settings)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("channel saved", "user", channel.UserName, "id", channel.ID)
	writeJSON(w, http.StatusOK, channel)
}

// GetPublicChannel serves a user's public page: profile, episodes and summary.
func (h *Handlers) GetPublicChannel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channel, err := h.store.GetChannel(ctx, mux.Vars(r)["username"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if channel == nil {
		notFound(w, "channel not found")
		return
	}
	episodes, err := h.store.ListEpisodesByChannel(ctx, channel.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicChannel{
		Channel:  channel,
		Episodes: episodes,
		Summary:  stats.Summarize(episodes),
	})
}
