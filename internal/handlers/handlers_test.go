package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcast-studio/internal/memstore"
	"podcast-studio/internal/middleware"
	"podcast-studio/internal/models"
	"podcast-studio/internal/store"
	"podcast-studio/internal/store/storetest"
)

type testServer struct {
	router *mux.Router
	store  *memstore.Store
	clock  *storetest.Clock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clock := storetest.NewClock(storetest.Epoch)
	st := memstore.New(memstore.WithClock(clock.Now))
	return &testServer{router: newRouter(st), store: st, clock: clock}
}

func newRouter(st store.Store) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.UserMiddleware("host"))
	New(st, nil, "abc123").Register(r, nil)
	return r
}

func (s *testServer) do(t *testing.T, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) json(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	return s.do(t, method, target, "application/json", body)
}

func (s *testServer) form(t *testing.T, method, target string, values url.Values) *httptest.ResponseRecorder {
	return s.do(t, method, target, "application/x-www-form-urlencoded", values.Encode())
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/version", "", "")
	assert.JSONEq(t, `{"version":"abc123"}`, rr.Body.String())
}

func TestPostEpisodeJSON(t *testing.T) {
	s := newTestServer(t)

	rr := s.json(t, http.MethodPost, "/api/episodes",
		`{"title":"Pilot","url":"https://cdn.example.com/p.mp3","tags":[" go ","news","go"]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	ep := decode[models.Episode](t, rr)
	assert.Equal(t, "Pilot", ep.Title)
	assert.Equal(t, []string{"go", "news"}, ep.Tags)
	assert.Nil(t, ep.ChannelID)
	assert.True(t, ep.CreatedAt.Equal(ep.UpdatedAt))
}

func TestPostEpisodeForm(t *testing.T) {
	s := newTestServer(t)
	ch, err := s.store.UpsertChannel(context.Background(), models.ChannelSettings{UserName: "host"})
	require.NoError(t, err)

	rr := s.form(t, http.MethodPost, "/api/episodes", url.Values{
		"title":       {"Form ep"},
		"url":         {"https://cdn.example.com/f.mp3"},
		"description": {"from a form"},
		"tags":        {"a, b,,a"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	ep := decode[models.Episode](t, rr)
	assert.Equal(t, []string{"a", "b"}, ep.Tags)
	assert.Equal(t, "from a form", ep.Description)
	require.NotNil(t, ep.ChannelID)
	assert.Equal(t, ch.ID, *ep.ChannelID)
}

func TestPostEpisodeValidation(t *testing.T) {
	s := newTestServer(t)

	rr := s.json(t, http.MethodPost, "/api/episodes", `{"title":"","url":"u"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"title: is required","field":"title"}`, rr.Body.String())

	rr = s.json(t, http.MethodPost, "/api/episodes", `{"title":"t","url":"u","bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.json(t, http.MethodPost, "/api/episodes", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetEpisode(t *testing.T) {
	s := newTestServer(t)
	created, err := s.store.AddEpisode(context.Background(), models.NewEpisode{Title: "t", URL: "u"}, nil)
	require.NoError(t, err)

	rr := s.do(t, http.MethodGet, "/api/episodes/1", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created.ID, decode[models.Episode](t, rr).ID)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/episodes/99", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/episodes/abc", "", "").Code)
}

func TestPatchEpisode(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	created, err := s.store.AddEpisode(ctx, models.NewEpisode{
		Title: "Old", URL: "u", Description: "keep", Tags: []string{"a"},
	}, nil)
	require.NoError(t, err)
	s.clock.Advance(time.Minute)

	rr := s.json(t, http.MethodPatch, "/api/episodes/1", `{"title":"New","tags":["b"," c "]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	ep := decode[models.Episode](t, rr)
	assert.Equal(t, "New", ep.Title)
	assert.Equal(t, "keep", ep.Description)
	assert.Equal(t, []string{"b", "c"}, ep.Tags)
	assert.True(t, ep.UpdatedAt.After(created.UpdatedAt))

	rr = s.form(t, http.MethodPut, "/api/episodes/1", url.Values{"description": {""}})
	require.Equal(t, http.StatusOK, rr.Code)
	ep = decode[models.Episode](t, rr)
	assert.Equal(t, "New", ep.Title)
	assert.Equal(t, "", ep.Description)
	assert.Equal(t, []string{"b", "c"}, ep.Tags)

	rr = s.json(t, http.MethodPatch, "/api/episodes/1", `{"url":" "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.json(t, http.MethodPatch, "/api/episodes/42", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteEpisode(t *testing.T) {
	s := newTestServer(t)
	_, err := s.store.AddEpisode(context.Background(), models.NewEpisode{Title: "t", URL: "u"}, nil)
	require.NoError(t, err)

	rr := s.do(t, http.MethodDelete, "/api/episodes/1", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"deleted":true}`, rr.Body.String())

	rr = s.do(t, http.MethodDelete, "/api/episodes/1", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"deleted":false}`, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/episodes/1", "", "").Code)
}

func seedEpisodes(t *testing.T, s *testServer) []*models.Episode {
	t.Helper()
	ctx := context.Background()
	var out []*models.Episode
	for _, tags := range [][]string{{"a", "b"}, {"a"}, {"c"}} {
		ep, err := s.store.AddEpisode(ctx, models.NewEpisode{Title: "t", URL: "u", Tags: tags}, nil)
		require.NoError(t, err)
		out = append(out, ep)
		s.clock.Advance(time.Minute)
	}
	return out
}

func TestListEpisodesFilters(t *testing.T) {
	s := newTestServer(t)
	eps := seedEpisodes(t, s)

	all := decode[[]models.Episode](t, s.do(t, http.MethodGet, "/api/episodes", "", ""))
	require.Len(t, all, 3)
	assert.Equal(t, eps[2].ID, all[0].ID)

	tagged := decode[[]models.Episode](t, s.do(t, http.MethodGet, "/api/episodes?tag=a", "", ""))
	require.Len(t, tagged, 2)
	assert.Equal(t, eps[1].ID, tagged[0].ID)
	assert.Equal(t, eps[0].ID, tagged[1].ID)

	byPath := decode[[]models.Episode](t, s.do(t, http.MethodGet, "/api/stats/tags/c/episodes", "", ""))
	require.Len(t, byPath, 1)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/episodes?channel=x", "", "").Code)
	none := decode[[]models.Episode](t, s.do(t, http.MethodGet, "/api/episodes?channel=5", "", ""))
	assert.Empty(t, none)
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	seedEpisodes(t, s)

	rr := s.do(t, http.MethodGet, "/api/stats/tags", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"name":"a","count":2},{"name":"b","count":1},{"name":"c","count":1}]`, rr.Body.String())

	body := decode[statsResponse](t, s.do(t, http.MethodGet, "/api/stats", "", ""))
	assert.Len(t, body.Episodes, 3)
	assert.Len(t, body.TagStats, 3)
}

func TestLatest(t *testing.T) {
	s := newTestServer(t)
	eps := seedEpisodes(t, s)

	title := "edited"
	_, err := s.store.UpdateEpisode(context.Background(), eps[0].ID, models.EpisodePatch{Title: &title})
	require.NoError(t, err)

	rr := s.do(t, http.MethodGet, "/api/episodes/latest?limit=2", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		NewlyAdded      []models.Episode `json:"newlyAdded"`
		RecentlyUpdated []models.Episode `json:"recentlyUpdated"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.NewlyAdded, 2)
	assert.Equal(t, eps[2].ID, body.NewlyAdded[0].ID)
	require.Len(t, body.RecentlyUpdated, 1)
	assert.Equal(t, eps[0].ID, body.RecentlyUpdated[0].ID)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/episodes/latest?limit=x", "", "").Code)
}

func TestChannelEndpoints(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/channel", "", "").Code)

	rr := s.json(t, http.MethodPut, "/api/channel", `{"userName":"intruder","channelName":"Show","isExplicitContent":true}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	ch := decode[models.ChannelProfile](t, rr)
	assert.Equal(t, "host", ch.UserName)
	assert.Equal(t, "Show", ch.ChannelName)
	assert.True(t, ch.IsExplicitContent)
	assert.Equal(t, "en", ch.Language)

	rr = s.form(t, http.MethodPost, "/api/channel", url.Values{"channelName": {"Renamed"}, "language": {"fr"}})
	require.Equal(t, http.StatusOK, rr.Code)
	again := decode[models.ChannelProfile](t, rr)
	assert.Equal(t, ch.ID, again.ID)
	assert.Equal(t, "Renamed", again.ChannelName)
	assert.False(t, again.IsExplicitContent)
	assert.Equal(t, "fr", again.Language)

	got := decode[models.ChannelProfile](t, s.do(t, http.MethodGet, "/api/channel", "", ""))
	assert.Equal(t, again, got)
}

func TestPublicChannel(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/users/host/public", "", "").Code)

	require.Equal(t, http.StatusOK, s.json(t, http.MethodPut, "/api/channel", `{"channelName":"Show"}`).Code)
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusCreated, s.json(t, http.MethodPost, "/api/episodes", `{"title":"t","url":"u"}`).Code)
		s.clock.Advance(time.Hour)
	}

	rr := s.do(t, http.MethodGet, "/api/users/host/public", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[publicChannel](t, rr)
	assert.Equal(t, "Show", body.Channel.ChannelName)
	assert.Len(t, body.Episodes, 2)
	assert.Equal(t, 2, body.Summary.TotalEpisodes)
	require.NotNil(t, body.Summary.FirstEpisode)
	assert.True(t, body.Summary.FirstEpisode.Equal(storetest.Epoch))
}

type brokenStore struct {
	store.Store
	err error
}

func (b brokenStore) Ping(context.Context) error { return b.err }

func (b brokenStore) ListEpisodes(context.Context) ([]models.Episode, error) { return nil, b.err }

func (b brokenStore) TagStatistics(context.Context) ([]models.TagCount, error) { return nil, b.err }

func TestStorageErrors(t *testing.T) {
	decodeErr := &models.DecodeError{EpisodeID: 3, Column: "tags", Err: errors.New("bad json")}
	r := newRouter(brokenStore{err: decodeErr})

	for _, target := range []string{"/api/episodes", "/api/stats/tags"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code, target)
		assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestWriteRoutesAreLimited(t *testing.T) {
	st := memstore.New()
	r := mux.NewRouter()
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	New(st, nil, "dev").Register(r, blocked)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/episodes", strings.NewReader("title=t&url=u")))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/episodes", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
