package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"podcast-studio/internal/models"
)

const channelColumns = `id, user_name, channel_name, channel_description, logo_url, personal_website,
	feed_url, author_name, author_email, owner_name, owner_email, is_explicit_content, language`

const upsertChannelSQL = `
	INSERT INTO channel_info (
		user_name, channel_name, channel_description, logo_url, personal_website,
		feed_url, author_name, author_email, owner_name, owner_email, is_explicit_content, language
	) VALUES (
		:user_name, :channel_name, :channel_description, :logo_url, :personal_website,
		:feed_url, :author_name, :author_email, :owner_name, :owner_email, :is_explicit_content, :language
	)
	ON CONFLICT (user_name) DO UPDATE SET
		channel_name = excluded.channel_name,
		channel_description = excluded.channel_description,
		logo_url = excluded.logo_url,
		personal_website = excluded.personal_website,
		feed_url = excluded.feed_url,
		author_name = excluded.author_name,
		author_email = excluded.author_email,
		owner_name = excluded.owner_name,
		owner_email = excluded.owner_email,
		is_explicit_content = excluded.is_explicit_content,
		language = excluded.language
	RETURNING ` + channelColumns

// GetChannel returns the channel owned by userName, or nil if there is none.
func (s *Store) GetChannel(ctx context.Context, userName string) (*models.ChannelProfile, error) {
	var rec models.ChannelRecord
	query := s.db.Rebind(`SELECT ` + channelColumns + ` FROM channel_info WHERE user_name = ?`)
	if err := s.db.GetContext(ctx, &rec, query, userName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel %q: %w", userName, err)
	}
	return rec.ToProfile(), nil
}

// UpsertChannel inserts the channel or overwrites every field of the existing
// row with the same user name.
func (s *Store) UpsertChannel(ctx context.Context, settings models.ChannelSettings) (*models.ChannelProfile, error) {
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	query, args, err := s.db.BindNamed(upsertChannelSQL, settings.Record())
	if err != nil {
		return nil, fmt.Errorf("bind channel upsert: %w", err)
	}
	var rec models.ChannelRecord
	if err := s.db.GetContext(ctx, &rec, query, args...); err != nil {
		s.logger.Error("channel upsert failed", "user", settings.UserName, "error", err)
		return nil, fmt.Errorf("upsert channel %q: %w", settings.UserName, err)
	}
	return rec.ToProfile(), nil
}
