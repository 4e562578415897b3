package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"podcast-studio/internal/models"
	"podcast-studio/internal/stats"
)

const episodeColumns = `id, title, description, url, thumbnail, tags, created_at, updated_at, channel_id`

const insertEpisodeSQL = `
	INSERT INTO episodes (title, description, url, thumbnail, tags, created_at, updated_at, channel_id)
	VALUES (:title, :description, :url, :thumbnail, :tags, :created_at, :updated_at, :channel_id)
	RETURNING ` + episodeColumns

// ListEpisodes returns the most recent episodes, newest first, capped at
// models.MaxEpisodes.
func (s *Store) ListEpisodes(ctx context.Context) ([]models.Episode, error) {
	return s.selectEpisodes(ctx, "list episodes",
		`SELECT `+episodeColumns+` FROM episodes ORDER BY created_at DESC, id DESC LIMIT ?`,
		models.MaxEpisodes)
}

// ListEpisodesByChannel returns a channel's episodes, newest first.
func (s *Store) ListEpisodesByChannel(ctx context.Context, channelID int64) ([]models.Episode, error) {
	return s.selectEpisodes(ctx, "list channel episodes",
		`SELECT `+episodeColumns+` FROM episodes WHERE channel_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		channelID, models.MaxEpisodes)
}

// GetEpisode returns the episode with id, or nil if it does not exist.
func (s *Store) GetEpisode(ctx context.Context, id int64) (*models.Episode, error) {
	var rec models.EpisodeRecord
	query := s.db.Rebind(`SELECT ` + episodeColumns + ` FROM episodes WHERE id = ?`)
	if err := s.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get episode %d: %w", id, err)
	}
	return rec.ToEpisode()
}

// AddEpisode inserts a new episode with created_at = updated_at = now.
func (s *Store) AddEpisode(ctx context.Context, ep models.NewEpisode, channelID *int64) (*models.Episode, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	rec, err := ep.Record(s.now(), channelID)
	if err != nil {
		return nil, err
	}

	query, args, err := s.db.BindNamed(insertEpisodeSQL, rec)
	if err != nil {
		return nil, fmt.Errorf("bind episode insert: %w", err)
	}
	var created models.EpisodeRecord
	if err := s.db.GetContext(ctx, &created, query, args...); err != nil {
		s.logger.Error("episode insert failed", "title", ep.Title, "error", err)
		return nil, fmt.Errorf("add episode: %w", err)
	}
	return created.ToEpisode()
}

// UpdateEpisode applies the present fields of patch and moves updated_at
// forward. It returns models.ErrEpisodeNotFound if id does not exist.
func (s *Store) UpdateEpisode(ctx context.Context, id int64, patch models.EpisodePatch) (*models.Episode, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	assignments, err := patch.Assignments()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update episode %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	var prevStamp string
	if err := tx.GetContext(ctx, &prevStamp, tx.Rebind(`SELECT updated_at FROM episodes WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEpisodeNotFound
		}
		return nil, fmt.Errorf("load episode %d: %w", id, err)
	}
	prev, err := models.ParseTimestamp(prevStamp)
	if err != nil {
		return nil, &models.DecodeError{EpisodeID: id, Column: "updated_at", Value: prevStamp, Err: err}
	}

	sets := make([]string, 0, len(assignments)+1)
	args := make([]any, 0, len(assignments)+2)
	for _, a := range assignments {
		sets = append(sets, a.Column+" = ?")
		args = append(args, a.Value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, models.FormatTimestamp(models.NextTimestamp(prev, s.now())), id)

	query := tx.Rebind(`UPDATE episodes SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + episodeColumns)
	var rec models.EpisodeRecord
	if err := tx.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEpisodeNotFound
		}
		return nil, fmt.Errorf("update episode %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update episode %d: %w", id, err)
	}
	return rec.ToEpisode()
}

// DeleteEpisode removes the episode. It reports false when nothing was deleted.
func (s *Store) DeleteEpisode(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM episodes WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete episode %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete episode %d: %w", id, err)
	}
	return affected > 0, nil
}

// NewlyAdded returns the latest created episodes. limit <= 0 means the default.
func (s *Store) NewlyAdded(ctx context.Context, limit int) ([]models.Episode, error) {
	return s.selectEpisodes(ctx, "newly added episodes",
		`SELECT `+episodeColumns+` FROM episodes ORDER BY created_at DESC, id DESC LIMIT ?`,
		stats.LimitOrDefault(limit))
}

// RecentlyUpdated returns episodes modified after creation, most recently
// updated first. limit <= 0 means the default.
func (s *Store) RecentlyUpdated(ctx context.Context, limit int) ([]models.Episode, error) {
	return s.selectEpisodes(ctx, "recently updated episodes",
		`SELECT `+episodeColumns+` FROM episodes WHERE updated_at > created_at
		ORDER BY updated_at DESC, id DESC LIMIT ?`,
		stats.LimitOrDefault(limit))
}

// TagStatistics counts tags over every episode.
func (s *Store) TagStatistics(ctx context.Context) ([]models.TagCount, error) {
	var recs []models.EpisodeRecord
	if err := s.db.SelectContext(ctx, &recs, `SELECT id, tags FROM episodes ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("tag statistics: %w", err)
	}
	lists := make([][]string, 0, len(recs))
	for _, rec := range recs {
		tags, err := rec.DecodeTags()
		if err != nil {
			return nil, err
		}
		lists = append(lists, tags)
	}
	return stats.CountTags(lists), nil
}

// EpisodesByTag returns every episode carrying tag, newest first. Tags are
// stored as JSON text, so membership is checked after decoding.
func (s *Store) EpisodesByTag(ctx context.Context, tag string) ([]models.Episode, error) {
	all, err := s.selectEpisodes(ctx, "episodes by tag",
		`SELECT `+episodeColumns+` FROM episodes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return stats.FilterByTag(all, tag), nil
}

func (s *Store) selectEpisodes(ctx context.Context, op, query string, args ...any) ([]models.Episode, error) {
	var recs []models.EpisodeRecord
	if err := s.db.SelectContext(ctx, &recs, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return models.ToEpisodes(recs)
}
