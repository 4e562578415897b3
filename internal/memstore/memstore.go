// Package memstore is an in-memory store.Store. It keeps the same row
// representation as the SQL store so that mapping and decode behaviour match.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"podcast-studio/internal/models"
	"podcast-studio/internal/stats"
	"podcast-studio/internal/store"
)

// Store holds channels and episodes in memory. The zero value is not usable;
// call New.
type Store struct {
	mu            sync.RWMutex
	now           store.Clock
	channels      map[string]models.ChannelRecord
	episodes      map[int64]models.EpisodeRecord
	nextChannelID int64
	nextEpisodeID int64
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(clock store.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		now:           time.Now,
		channels:      make(map[string]models.ChannelRecord),
		episodes:      make(map[int64]models.EpisodeRecord),
		nextChannelID: 1,
		nextEpisodeID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) GetChannel(_ context.Context, userName string) (*models.ChannelProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.channels[userName]
	if !ok {
		return nil, nil
	}
	return rec.ToProfile(), nil
}

func (s *Store) UpsertChannel(_ context.Context, settings models.ChannelSettings) (*models.ChannelProfile, error) {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	rec := settings.Record()

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.channels[rec.UserName]; ok {
		rec.ID = existing.ID
	} else {
		rec.ID = s.nextChannelID
		s.nextChannelID++
	}
	s.channels[rec.UserName] = rec
	return rec.ToProfile(), nil
}

func (s *Store) ListEpisodes(_ context.Context) ([]models.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(byCreatedDesc, models.MaxEpisodes, nil)
}

func (s *Store) ListEpisodesByChannel(_ context.Context, channelID int64) ([]models.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(byCreatedDesc, models.MaxEpisodes, func(rec models.EpisodeRecord) bool {
		return rec.ChannelID.Valid && rec.ChannelID.Int64 == channelID
	})
}

func (s *Store) GetEpisode(_ context.Context, id int64) (*models.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.episodes[id]
	if !ok {
		return nil, nil
	}
	return rec.ToEpisode()
}

func (s *Store) AddEpisode(_ context.Context, ep models.NewEpisode, channelID *int64) (*models.Episode, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := ep.Record(s.now(), channelID)
	if err != nil {
		return nil, err
	}
	rec.ID = s.nextEpisodeID
	s.nextEpisodeID++
	s.episodes[rec.ID] = rec
	return rec.ToEpisode()
}

func (s *Store) UpdateEpisode(_ context.Context, id int64, patch models.EpisodePatch) (*models.Episode, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.episodes[id]
	if !ok {
		return nil, models.ErrEpisodeNotFound
	}
	prev, err := models.ParseTimestamp(rec.UpdatedAt)
	if err != nil {
		return nil, &models.DecodeError{EpisodeID: id, Column: "updated_at", Value: rec.UpdatedAt, Err: err}
	}
	if err := patch.ApplyTo(&rec, models.NextTimestamp(prev, s.now())); err != nil {
		return nil, err
	}
	s.episodes[id] = rec
	return rec.ToEpisode()
}

func (s *Store) DeleteEpisode(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.episodes[id]; !ok {
		return false, nil
	}
	delete(s.episodes, id)
	return true, nil
}

func (s *Store) NewlyAdded(_ context.Context, limit int) ([]models.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all, err := models.ToEpisodes(s.sorted(byIDAsc))
	if err != nil {
		return nil, err
	}
	return stats.NewlyAdded(all, limit), nil
}

func (s *Store) RecentlyUpdated(_ context.Context, limit int) ([]models.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all, err := models.ToEpisodes(s.sorted(byIDAsc))
	if err != nil {
		return nil, err
	}
	return stats.RecentlyUpdated(all, limit), nil
}

func (s *Store) TagStatistics(_ context.Context) ([]models.TagCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all, err := models.ToEpisodes(s.sorted(byIDAsc))
	if err != nil {
		return nil, err
	}
	return stats.TagStatistics(all), nil
}

func (s *Store) EpisodesByTag(_ context.Context, tag string) ([]models.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all, err := models.ToEpisodes(s.sorted(byCreatedDesc))
	if err != nil {
		return nil, err
	}
	return stats.FilterByTag(all, tag), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// collect sorts, filters and maps records. Callers hold the lock.
func (s *Store) collect(less func(a, b models.EpisodeRecord) bool, limit int, keep func(models.EpisodeRecord) bool) ([]models.Episode, error) {
	var picked []models.EpisodeRecord
	for _, rec := range s.sorted(less) {
		if keep != nil && !keep(rec) {
			continue
		}
		picked = append(picked, rec)
		if len(picked) == limit {
			break
		}
	}
	return models.ToEpisodes(picked)
}

func (s *Store) sorted(less func(a, b models.EpisodeRecord) bool) []models.EpisodeRecord {
	recs := make([]models.EpisodeRecord, 0, len(s.episodes))
	for _, rec := range s.episodes {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return less(recs[i], recs[j]) })
	return recs
}

// Timestamps are fixed-width text, so string comparison is chronological.
func byCreatedDesc(a, b models.EpisodeRecord) bool {
	if c := strings.Compare(a.CreatedAt, b.CreatedAt); c != 0 {
		return c > 0
	}
	return a.ID > b.ID
}

func byIDAsc(a, b models.EpisodeRecord) bool {
	return a.ID < b.ID
}
