// Package stats computes derived views over an episode set. Every function
// recomputes from its input; nothing is cached.
package stats

import (
	"sort"
	"time"

	"podcast-studio/internal/models"
)

// CountTags counts tag occurrences across lists. The result is sorted by count
// descending; equal counts keep the order in which the tags were first seen.
func CountTags(lists [][]string) []models.TagCount {
	index := make(map[string]int)
	counts := []models.TagCount{}
	for _, tags := range lists {
		for _, tag := range tags {
			if i, ok := index[tag]; ok {
				counts[i].Count++
				continue
			}
			index[tag] = len(counts)
			counts = append(counts, models.TagCount{Name: tag, Count: 1})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TagStatistics counts the tags of the given episodes in slice order.
func TagStatistics(episodes []models.Episode) []models.TagCount {
	lists := make([][]string, 0, len(episodes))
	for _, ep := range episodes {
		lists = append(lists, ep.Tags)
	}
	return CountTags(lists)
}

// NewlyAdded returns up to limit episodes by creation time, newest first.
func NewlyAdded(episodes []models.Episode, limit int) []models.Episode {
	sorted := ByCreatedDesc(episodes)
	return head(sorted, limit)
}

// RecentlyUpdated returns up to limit episodes whose updatedAt is strictly after
// createdAt, most recently updated first.
func RecentlyUpdated(episodes []models.Episode, limit int) []models.Episode {
	updated := make([]models.Episode, 0, len(episodes))
	for _, ep := range episodes {
		if ep.RecentlyUpdated() {
			updated = append(updated, ep)
		}
	}
	sort.SliceStable(updated, func(i, j int) bool {
		if !updated[i].UpdatedAt.Equal(updated[j].UpdatedAt) {
			return updated[i].UpdatedAt.After(updated[j].UpdatedAt)
		}
		return updated[i].ID > updated[j].ID
	})
	return head(updated, limit)
}

// FilterByTag returns the episodes carrying tag, preserving input order.
func FilterByTag(episodes []models.Episode, tag string) []models.Episode {
	out := []models.Episode{}
	for _, ep := range episodes {
		if ep.HasTag(tag) {
			out = append(out, ep)
		}
	}
	return out
}

// ByCreatedDesc returns a copy sorted newest first, ties broken by id descending.
func ByCreatedDesc(episodes []models.Episode) []models.Episode {
	sorted := make([]models.Episode, len(episodes))
	copy(sorted, episodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}

// Latest bundles the two home-page views.
type Latest struct {
	NewlyAdded      []models.Episode `json:"newlyAdded"`
	RecentlyUpdated []models.Episode `json:"recentlyUpdated"`
}

// Summary describes a channel's catalogue for its public page.
type Summary struct {
	TotalEpisodes int        `json:"totalEpisodes"`
	FirstEpisode  *time.Time `json:"firstEpisode,omitempty"`
	LastEpisode   *time.Time `json:"lastEpisode,omitempty"`
}

// Summarize computes the catalogue summary.
func Summarize(episodes []models.Episode) Summary {
	s := Summary{TotalEpisodes: len(episodes)}
	for _, ep := range episodes {
		created := ep.CreatedAt
		if s.FirstEpisode == nil || created.Before(*s.FirstEpisode) {
			s.FirstEpisode = &created
		}
		if s.LastEpisode == nil || created.After(*s.LastEpisode) {
			last := created
			s.LastEpisode = &last
		}
	}
	return s
}

// LimitOrDefault maps non-positive limits to models.DefaultLatestLimit.
func LimitOrDefault(limit int) int {
	if limit <= 0 {
		return models.DefaultLatestLimit
	}
	return limit
}

func head(episodes []models.Episode, limit int) []models.Episode {
	limit = LimitOrDefault(limit)
	if len(episodes) > limit {
		return episodes[:limit]
	}
	return episodes
}
