// Package store defines the storage port shared by the SQL and in-memory
// implementations.
package store

import (
	"context"
	"time"

	"podcast-studio/internal/models"
)

// Store is the data-access layer for channels and episodes.
//
// Point lookups return (nil, nil) when the row does not exist. Listing
// methods never return a nil slice on success.
type Store interface {
	GetChannel(ctx context.Context, userName string) (*models.ChannelProfile, error)
	UpsertChannel(ctx context.Context, settings models.ChannelSettings) (*models.ChannelProfile, error)

	ListEpisodes(ctx context.Context) ([]models.Episode, error)
	ListEpisodesByChannel(ctx context.Context, channelID int64) ([]models.Episode, error)
	GetEpisode(ctx context.Context, id int64) (*models.Episode, error)
	AddEpisode(ctx context.Context, ep models.NewEpisode, channelID *int64) (*models.Episode, error)
	UpdateEpisode(ctx context.Context, id int64, patch models.EpisodePatch) (*models.Episode, error)
	DeleteEpisode(ctx context.Context, id int64) (bool, error)

	NewlyAdded(ctx context.Context, limit int) ([]models.Episode, error)
	RecentlyUpdated(ctx context.Context, limit int) ([]models.Episode, error)
	TagStatistics(ctx context.Context) ([]models.TagCount, error)
	EpisodesByTag(ctx context.Context, tag string) ([]models.Episode, error)

	Ping(ctx context.Context) error
	Close() error
}

// Clock returns the current time. Stores take one so tests can freeze time.
type Clock func() time.Time
