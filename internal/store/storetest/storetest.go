// Package storetest is a behavioural test suite shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcast-studio/internal/models"
	"podcast-studio/internal/store"
)

// Factory builds an empty store driven by clock.
type Factory func(t *testing.T, clock store.Clock) store.Store

// Epoch is the starting time of the fake clock handed to factories.
var Epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type suite struct {
	newStore Factory
}

// Run executes the suite against the implementation produced by newStore.
func Run(t *testing.T, newStore Factory) {
	s := suite{newStore: newStore}

	t.Run("AddThenGet", s.testAddThenGet)
	t.Run("AddRejectsInvalid", s.testAddRejectsInvalid)
	t.Run("GetMissingEpisode", s.testGetMissingEpisode)
	t.Run("UpdateChangesOnlyPresentFields", s.testUpdateChangesOnlyPresentFields)
	t.Run("UpdateWithFrozenClock", s.testUpdateWithFrozenClock)
	t.Run("UpdateEmptyPatch", s.testUpdateEmptyPatch)
	t.Run("UpdateReplacesTags", s.testUpdateReplacesTags)
	t.Run("UpdateMissing", s.testUpdateMissing)
	t.Run("UpdateRejectsInvalid", s.testUpdateRejectsInvalid)
	t.Run("Delete", s.testDelete)
	t.Run("ListOrderAndCap", s.testListOrderAndCap)
	t.Run("ListByChannel", s.testListByChannel)
	t.Run("NewlyAdded", s.testNewlyAdded)
	t.Run("RecentlyUpdated", s.testRecentlyUpdated)
	t.Run("TagStatistics", s.testTagStatistics)
	t.Run("EpisodesByTag", s.testEpisodesByTag)
	t.Run("UpsertChannel", s.testUpsertChannel)
	t.Run("UpsertChannelDefaults", s.testUpsertChannelDefaults)
	t.Run("GetMissingChannel", s.testGetMissingChannel)
	t.Run("Ping", s.testPing)
}

func (s suite) open(t *testing.T) (store.Store, *Clock) {
	t.Helper()
	clock := NewClock(Epoch)
	st := s.newStore(t, clock.Now)
	t.Cleanup(func() { _ = st.Close() })
	return st, clock
}

func add(t *testing.T, st store.Store, title string, tags ...string) *models.Episode {
	t.Helper()
	if tags == nil {
		tags = []string{}
	}
	ep, err := st.AddEpisode(context.Background(), models.NewEpisode{
		Title: title,
		URL:   "https://cdn.example.com/" + title + ".mp3",
		Tags:  tags,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, ep)
	return ep
}

func ids(episodes []models.Episode) []int64 {
	out := make([]int64, 0, len(episodes))
	for _, ep := range episodes {
		out = append(out, ep.ID)
	}
	return out
}

func (s suite) testAddThenGet(t *testing.T) {
	st, _ := s.open(t)
	ctx := context.Background()

	created, err := st.AddEpisode(ctx, models.NewEpisode{
		Title:       "Pilot",
		Description: "The first one",
		URL:         "https://cdn.example.com/pilot.mp3",
		Thumbnail:   "https://cdn.example.com/pilot.png",
		Tags:        []string{"intro", "a,b", "música"},
	}, nil)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.True(t, created.CreatedAt.Equal(Epoch))
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	got, err := st.GetEpisode(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Pilot", got.Title)
	assert.Equal(t, "The first one", got.Description)
	assert.Equal(t, "https://cdn.example.com/pilot.mp3", got.URL)
	assert.Equal(t, "https://cdn.example.com/pilot.png", got.Thumbnail)
	assert.Equal(t, []string{"intro", "a,b", "música"}, got.Tags)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(got.CreatedAt))
	assert.Nil(t, got.ChannelID)

	// tags default to an empty list
	bare, err := st.AddEpisode(ctx, models.NewEpisode{Title: "Bare", URL: "u"}, nil)
	require.NoError(t, err)
	got, err = st.GetEpisode(ctx, bare.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
	assert.Equal(t, "", got.Description)
}

func (s suite) testAddRejectsInvalid(t *testing.T) {
	st, _ := s.open(t)
	ctx := context.Background()

	_, err := st.AddEpisode(ctx, models.NewEpisode{URL: "u"}, nil)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	_, err = st.AddEpisode(ctx, models.NewEpisode{Title: "t", URL: "  "}, nil)
	require.Error(t, err)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "url", verr.Field)

	all, err := st.ListEpisodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func (s suite) testGetMissingEpisode(t *testing.T) {
	st, _ := s.open(t)
	got, err := st.GetEpisode(context.Background(), 4242)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func (s suite) testUpdateChangesOnlyPresentFields(t *testing.T) {
	st, clock := s.open(t)
	ctx := context.Background()

	created, err := st.AddEpisode(ctx, models.NewEpisode{
		Title:       "Old",
		Description: "desc",
		URL:         "https://cdn.example.com/old.mp3",
		Thumbnail:   "thumb",
		Tags:        []string{"x"},
	}, nil)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	title := "New"
	updated, err := st.UpdateEpisode(ctx, created.ID, models.EpisodePatch{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, updated)

	got, err := st.GetEpisode(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, created.URL, got.URL)
	assert.Equal(t, created.Thumbnail, got.Thumbnail)
	assert.Equal(t, created.Tags, got.Tags)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, got.UpdatedAt.Equal(Epoch.Add(time.Minute)))
	assert.True(t, got.UpdatedAt.Equal(updated.UpdatedAt))
}

func (s suite) testUpdateWithFrozenClock(t *testing.T) {
	st, _ := s.open(t)
	ctx := context.Background()

	created := add(t, st, "frozen")
	prev := created.UpdatedAt
	for i := 0; i < 3; i++ {
		title := fmt.Sprintf("frozen %d", i)
		updated, err := st.UpdateEpisode(ctx, created.ID, models.EpisodePatch{Title: &title})
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.After(prev), "update %d did not advance updatedAt", i)
		prev = updated.UpdatedAt
	}

	recent, err := st.RecentlyUpdated(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{created.ID}, ids(recent))
}

func (s suite) testUpdateEmptyPatch(t *testing.T) {
	st, clock := s.open(t)
	ctx := context.Background()

	created := add(t, st, "touch", "a")
	clock.Advance(time.Second)
	updated, err := st.UpdateEpisode(ctx, created.ID, models.EpisodePatch{})
	require.NoError(t, err)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Tags, updated.Tags)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func (s suite) testUpdateReplacesTags(t *testing.T) {
	st, clock := s.open(t)
	ctx := context.Background()

	created := add(t, st, "tagged", "a", "b")
	clock.Advance(time.Second)
	tags := []string{"c"}
	desc := ""
	_, err := st.UpdateEpisode(ctx, created.ID, models.EpisodePatch{Tags: &tags, Description: &desc})
	require.NoError(t, err)

	got, err := st.GetEpisode(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got.Tags)
	assert.Equal(t, "", got.Description)

	empty := []string{}
	_, err = st.UpdateEpisode(ctx, created.ID, models.EpisodePatch{Tags: &empty})
	require.NoError(t, err)
	got, err = st.GetEpisode(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func (s suite) testUpdateMissing(t *testing.T) {
	st, _ := s.open(t)
	title := "nope"
	got, err := st.UpdateEpisode(context.Background(), 999, models.EpisodePatch{Title: &title})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, models.ErrEpisodeNotFound)
}

func (s suite) testUpdateRejectsInvalid(t *testing.T) {
	st, _ := s.open(t)
	ctx := context.Background()

	created := add(t, st, "valid")
	blank := " "
	_, err := st.UpdateEpisode(ctx, created.ID, models.EpisodePatch{Title: &blank})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	got, err := st.GetEpisode(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "valid", got.Title)
	assert.True(t, got.UpdatedAt.Equal(created.UpdatedAt))
}

func (s suite) testDelete(t *testing.T) {
	st, _ := s.open(t)
	ctx := context.Background()

	created := add(t, st, "doomed", "x")
	keep := add(t, st, "kept", "x")

	deleted, err := st.DeleteEpisode(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := st.GetEpisode(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err = st.DeleteEpisode(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	byTag, err := st.EpisodesByTag(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []int64{keep.ID}, ids(byTag))
}

func (s suite) testListOrderAndCap(t *testing.T) {
	st, clock := s.open(t)
	ctx := context.Background()

	empty, err := st.ListEpisodes(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	var last *models.Episode
	for i := 0; i < models.MaxEpisodes+5; i++ {
		last = add(t, st, fmt.Sprintf("ep-%03d", i))
		clock.Advance(time.Second)
	}

	all, err := st.ListEpisodes(ctx)
	require.NoError(t, err)
	require.Len(t, all, models.MaxEpisodes)
	assert.Equal(t, last.ID, all[0].ID)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "listing must be newest first")
	}
}

func (s suite) testListByChannel(t *testing.T) {
	st, clock := s.open(t)
	ctx := context.Background()

	ch, err := st.UpsertChannel(ctx, models.ChannelSettings{UserName: "host"})
	require.NoError(t, err)
	other, err := st.UpsertChannel(ctx, models.ChannelSettings{UserName: "guest"})
	require.NoError(t, err)

	first, err := st.AddEpisode(ctx, models.NewEpisode{Title: "one", URL: "u1"}, &ch.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ChannelID)
	assert.Equal(t, ch.ID, *first.ChannelID)
	clock.Advance(time.Second)
	_, err = st.AddEpisode(ctx, models.NewEpisode{Title: "elsewhere", URL: "u2"}, &other.ID)
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, err := st.AddEpisode(ctx, models.NewEpisode{Title: "two", URL: "u3"}, &ch.ID)
	require.NoError(t, err)
	add(t, st, "orphan")

	eps, err := st.ListEpisodesByChannel(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID, first.ID}, ids(eps))

	none, err := st.ListEpisodesByChannel(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func (s suite) testNewlyAdded(t *testing.T) {
	st, clock := s.open(t)
	ctx := context.Background()

	var created []int64
	for i := 0; i < 7; i++ {
		created = append(created, add(t, st, fmt.Sprintf("n%d", i)).ID)
		clock.Advance(time.Minute)
	}

	latest, err := st.NewlyAdded(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{created[6], created[5], created[4], created[3], created[2]}, ids(latest))

	two, err := st.NewlyAdded(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{created[6], created[5]}, ids(two))
}

func (s suite) testRecentlyUpdated(t *testing.T) {
	st, clock := s.open(t)
	ctx := context.Background()

	a := add(t, st, "a")
	clock.Advance(time.Minute)
	b := add(t, st, "b")
	clock.Advance(time.Minute)
	add(t, st, "untouched")
	clock.Advance(time.Minute)

	title := "b2"
	_, err := st.UpdateEpisode(ctx, b.ID, models.EpisodePatch{Title: &title})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	title = "a2"
	_, err = st.UpdateEpisode(ctx, a.ID, models.EpisodePatch{Title: &title})
	require.NoError(t, err)

	recent, err := st.RecentlyUpdated(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, ids(recent))
	for _, ep := range recent {
		assert.True(t, ep.UpdatedAt.After(ep.CreatedAt))
	}

	one, err := st.RecentlyUpdated(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, ids(one))
}

func (s suite) testTagStatistics(t *testing.T) {
	st, _ := s.open(t)
	ctx := context.Background()

	empty, err := st.TagStatistics(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	add(t, st, "1", "a", "b")
	add(t, st, "2", "a")
	add(t, st, "3", "c")

	stats, err := st.TagStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.TagCount{
		{Name: "a", Count: 2},
		{Name: "b", Count: 1},
		{Name: "c", Count: 1},
	}, stats)
}

func (s suite) testEpisodesByTag(t *testing.T) {
	st, clock := s.open(t)
	ctx := context.Background()

	first := add(t, st, "first", "x", "y")
	clock.Advance(time.Minute)
	add(t, st, "upper", "X")
	clock.Advance(time.Minute)
	add(t, st, "prefix", "xx")
	clock.Advance(time.Minute)
	third := add(t, st, "third", "x")

	got, err := st.EpisodesByTag(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []int64{third.ID, first.ID}, ids(got))

	stats, err := st.TagStatistics(ctx)
	require.NoError(t, err)
	for _, tc := range stats {
		eps, err := st.EpisodesByTag(ctx, tc.Name)
		require.NoError(t, err)
		assert.Len(t, eps, tc.Count, tc.Name)
	}

	none, err := st.EpisodesByTag(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func (s suite) testUpsertChannel(t *testing.T) {
	st, _ := s.open(t)
	ctx := context.Background()

	first, err := st.UpsertChannel(ctx, models.ChannelSettings{
		UserName:          "host",
		ChannelName:       "First Name",
		AuthorEmail:       "a@example.com",
		IsExplicitContent: true,
		Language:          "de",
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := st.UpsertChannel(ctx, models.ChannelSettings{
		UserName:    "host",
		ChannelName: "Second Name",
		FeedURL:     "https://example.com/feed",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := st.GetChannel(ctx, "host")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Second Name", got.ChannelName)
	assert.Equal(t, "https://example.com/feed", got.FeedURL)
	assert.Equal(t, "", got.AuthorEmail)
	assert.False(t, got.IsExplicitContent)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, second, got)
}

func (s suite) testUpsertChannelDefaults(t *testing.T) {
	st, _ := s.open(t)
	ctx := context.Background()

	got, err := st.UpsertChannel(ctx, models.ChannelSettings{ChannelName: "  Padded  "})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultUserName, got.UserName)
	assert.Equal(t, "Padded", got.ChannelName)
	assert.Equal(t, models.DefaultLanguage, got.Language)

	again, err := st.GetChannel(ctx, models.DefaultUserName)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func (s suite) testGetMissingChannel(t *testing.T) {
	st, _ := s.open(t)
	got, err := st.GetChannel(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func (s suite) testPing(t *testing.T) {
	st, _ := s.open(t)
	assert.NoError(t, st.Ping(context.Background()))
}
