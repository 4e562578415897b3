package models

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewEpisodeValidate(t *testing.T) {
	assert.NoError(t, NewEpisode{Title: "Pilot", URL: "https://cdn.example.com/1.mp3"}.Validate())

	err := NewEpisode{Title: "  ", URL: "https://cdn.example.com/1.mp3"}.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "title", verr.Field)

	err = NewEpisode{Title: "Pilot"}.Validate()
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "url", verr.Field)
}

func TestNewEpisodeRecord(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 5, time.UTC)
	channel := int64(7)
	rec, err := NewEpisode{Title: "Pilot", URL: "u"}.Record(now, &channel)
	require.NoError(t, err)

	assert.Equal(t, "[]", rec.Tags.String)
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
	assert.Equal(t, "2024-03-01T12:00:00.000000005Z", rec.CreatedAt)
	assert.False(t, rec.Description.Valid)
	assert.Equal(t, int64(7), rec.ChannelID.Int64)
}

func TestEpisodeRecordToEpisode(t *testing.T) {
	rec := EpisodeRecord{
		ID:        3,
		Title:     "Pilot",
		URL:       "u",
		Tags:      sql.NullString{String: `["a","b"]`, Valid: true},
		CreatedAt: "2024-03-01T12:00:00.000000000Z",
		UpdatedAt: "2024-03-02 08:30:00",
	}
	ep, err := rec.ToEpisode()
	require.NoError(t, err)
	assert.Equal(t, "", ep.Description)
	assert.Equal(t, "", ep.Thumbnail)
	assert.Equal(t, []string{"a", "b"}, ep.Tags)
	assert.Nil(t, ep.ChannelID)
	assert.True(t, ep.RecentlyUpdated())
	assert.True(t, ep.HasTag("a"))
	assert.False(t, ep.HasTag("A"))
}

func TestEpisodeRecordDecodeFailures(t *testing.T) {
	rec := EpisodeRecord{ID: 9, Tags: sql.NullString{String: "{broken", Valid: true}, CreatedAt: FormatTimestamp(time.Now()), UpdatedAt: FormatTimestamp(time.Now())}
	_, err := rec.ToEpisode()
	var derr *DecodeError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, int64(9), derr.EpisodeID)
	assert.Equal(t, "tags", derr.Column)

	rec.Tags = sql.NullString{}
	_, err = rec.ToEpisode()
	assert.True(t, IsDecode(err))

	rec.Tags = sql.NullString{String: "[]", Valid: true}
	rec.CreatedAt = "yesterday"
	_, err = rec.ToEpisode()
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "created_at", derr.Column)
}

func TestEpisodePatch(t *testing.T) {
	assert.True(t, EpisodePatch{}.IsEmpty())

	tags := []string{"x"}
	patch := EpisodePatch{Title: strPtr("New"), Tags: &tags}
	assert.False(t, patch.IsEmpty())
	assert.NoError(t, patch.Validate())

	assignments, err := patch.Assignments()
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, Assignment{Column: "title", Value: "New"}, assignments[0])
	assert.Equal(t, Assignment{Column: "tags", Value: `["x"]`}, assignments[1])

	assert.True(t, IsValidation(EpisodePatch{URL: strPtr("")}.Validate()))
}

func TestEpisodePatchApplyTo(t *testing.T) {
	rec := EpisodeRecord{
		Title:       "Old",
		Description: sql.NullString{String: "keep", Valid: true},
		URL:         "u",
		Tags:        sql.NullString{String: `["a"]`, Valid: true},
		CreatedAt:   "2024-01-01T00:00:00.000000000Z",
		UpdatedAt:   "2024-01-01T00:00:00.000000000Z",
	}
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, EpisodePatch{Title: strPtr("New")}.ApplyTo(&rec, now))

	assert.Equal(t, "New", rec.Title)
	assert.Equal(t, "keep", rec.Description.String)
	assert.Equal(t, `["a"]`, rec.Tags.String)
	assert.Equal(t, "2024-01-02T00:00:00.000000000Z", rec.UpdatedAt)
}
