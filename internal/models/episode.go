package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// MaxEpisodes caps every unfiltered episode listing.
	MaxEpisodes = 100
	// DefaultLatestLimit is used by the newly added / recently updated views.
	DefaultLatestLimit = 5
)

// Episode is a podcast episode as returned to callers.
type Episode struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ChannelID   *int64    `json:"channelId,omitempty"`
}

// RecentlyUpdated reports whether the episode was modified after creation.
// Equal timestamps do not count.
func (e Episode) RecentlyUpdated() bool {
	return e.UpdatedAt.After(e.CreatedAt)
}

// HasTag reports whether tag is one of the episode's tags (exact, case-sensitive).
func (e Episode) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagCount is one row of the tag frequency statistics.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewEpisode is the create payload. Title and URL are required.
type NewEpisode struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	URL         string   `json:"url" yaml:"url"`
	Thumbnail   string   `json:"thumbnail" yaml:"thumbnail"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// Validate checks required fields.
func (n NewEpisode) Validate() error {
	if err := required("title", strings.TrimSpace(n.Title)); err != nil {
		return err
	}
	return required("url", strings.TrimSpace(n.URL))
}

// Record builds the row for an insert. Both timestamps are set to now.
func (n NewEpisode) Record(now time.Time, channelID *int64) (EpisodeRecord, error) {
	tags, err := EncodeTags(n.Tags)
	if err != nil {
		return EpisodeRecord{}, fmt.Errorf("encode tags: %w", err)
	}
	stamp := FormatTimestamp(now)
	rec := EpisodeRecord{
		Title:       n.Title,
		Description: nullString(n.Description),
		URL:         n.URL,
		Thumbnail:   nullString(n.Thumbnail),
		Tags:        sql.NullString{String: tags, Valid: true},
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}
	if channelID != nil {
		rec.ChannelID = sql.NullInt64{Int64: *channelID, Valid: true}
	}
	return rec, nil
}

// EpisodePatch is a partial update. Nil fields are left untouched; Tags, when
// set, replaces the whole list.
type EpisodePatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	URL         *string   `json:"url"`
	Thumbnail   *string   `json:"thumbnail"`
	Tags        *[]string `json:"tags"`
}

// IsEmpty reports whether no field is set.
func (p EpisodePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.URL == nil && p.Thumbnail == nil && p.Tags == nil
}

// Validate checks the fields that are present.
func (p EpisodePatch) Validate() error {
	if p.Title != nil {
		if err := required("title", strings.TrimSpace(*p.Title)); err != nil {
			return err
		}
	}
	if p.URL != nil {
		if err := required("url", strings.TrimSpace(*p.URL)); err != nil {
			return err
		}
	}
	return nil
}

// Assignment is a single column update.
type Assignment struct {
	Column string
	Value  any
}

// Assignments translates the present fields into column updates, in a stable
// column order. updated_at is not included; stores stamp it themselves.
func (p EpisodePatch) Assignments() ([]Assignment, error) {
	var out []Assignment
	if p.Title != nil {
		out = append(out, Assignment{Column: "title", Value: *p.Title})
	}
	if p.Description != nil {
		out = append(out, Assignment{Column: "description", Value: nullString(*p.Description)})
	}
	if p.URL != nil {
		out = append(out, Assignment{Column: "url", Value: *p.URL})
	}
	if p.Thumbnail != nil {
		out = append(out, Assignment{Column: "thumbnail", Value: nullString(*p.Thumbnail)})
	}
	if p.Tags != nil {
		tags, err := EncodeTags(*p.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode tags: %w", err)
		}
		out = append(out, Assignment{Column: "tags", Value: tags})
	}
	return out, nil
}

// ApplyTo copies the present fields onto rec and stamps updated_at.
func (p EpisodePatch) ApplyTo(rec *EpisodeRecord, now time.Time) error {
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Description != nil {
		rec.Description = nullString(*p.Description)
	}
	if p.URL != nil {
		rec.URL = *p.URL
	}
	if p.Thumbnail != nil {
		rec.Thumbnail = nullString(*p.Thumbnail)
	}
	if p.Tags != nil {
		tags, err := EncodeTags(*p.Tags)
		if err != nil {
			return fmt.Errorf("encode tags: %w", err)
		}
		rec.Tags = sql.NullString{String: tags, Valid: true}
	}
	rec.UpdatedAt = FormatTimestamp(now)
	return nil
}

// EpisodeRecord is an episodes row.
type EpisodeRecord struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	URL         string         `db:"url"`
	Thumbnail   sql.NullString `db:"thumbnail"`
	Tags        sql.NullString `db:"tags"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
	ChannelID   sql.NullInt64  `db:"channel_id"`
}

// DecodeTags decodes the stored tags column, attributing failures to the row.
func (r EpisodeRecord) DecodeTags() ([]string, error) {
	if !r.Tags.Valid {
		return nil, &DecodeError{EpisodeID: r.ID, Column: "tags", Err: errors.New("missing value")}
	}
	tags, err := DecodeTags(r.Tags.String)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.EpisodeID = r.ID
		}
		return nil, err
	}
	return tags, nil
}

// ToEpisode maps the row to its view model.
func (r EpisodeRecord) ToEpisode() (*Episode, error) {
	tags, err := r.DecodeTags()
	if err != nil {
		return nil, err
	}
	created, err := ParseTimestamp(r.CreatedAt)
	if err != nil {
		return nil, &DecodeError{EpisodeID: r.ID, Column: "created_at", Value: r.CreatedAt, Err: err}
	}
	updated, err := ParseTimestamp(r.UpdatedAt)
	if err != nil {
		return nil, &DecodeError{EpisodeID: r.ID, Column: "updated_at", Value: r.UpdatedAt, Err: err}
	}
	ep := &Episode{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description.String,
		URL:         r.URL,
		Thumbnail:   r.Thumbnail.String,
		Tags:        tags,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
	if r.ChannelID.Valid {
		id := r.ChannelID.Int64
		ep.ChannelID = &id
	}
	return ep, nil
}

// ToEpisodes maps a slice of rows, stopping at the first decode failure.
func ToEpisodes(records []EpisodeRecord) ([]Episode, error) {
	episodes := make([]Episode, 0, len(records))
	for _, rec := range records {
		ep, err := rec.ToEpisode()
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, *ep)
	}
	return episodes, nil
}
