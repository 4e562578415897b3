package models

import (
	"database/sql"
	"strings"
)

const (
	// DefaultUserName is the implicit single user of the application.
	DefaultUserName = "defaultuser"
	// DefaultLanguage is applied when a channel has no language set.
	DefaultLanguage = "en"
)

// ChannelProfile is the channel metadata owned by one user.
type ChannelProfile struct {
	ID                 int64  `json:"id"`
	UserName           string `json:"userName"`
	ChannelName        string `json:"channelName"`
	ChannelDescription string `json:"channelDescription"`
	LogoURL            string `json:"logoUrl"`
	PersonalWebsite    string `json:"personalWebsite"`
	FeedURL            string `json:"feedUrl"`
	AuthorName         string `json:"authorName"`
	AuthorEmail        string `json:"authorEmail"`
	OwnerName          string `json:"ownerName"`
	OwnerEmail         string `json:"ownerEmail"`
	IsExplicitContent  bool   `json:"isExplicitContent"`
	Language           string `json:"language"`
}

// ChannelSettings is the write payload for a channel upsert. Every field except
// UserName is optional:
//
//	UserName   defaults to DefaultUserName
//	Language   defaults to DefaultLanguage
//	strings    default to ""
//	explicit   defaults to false
type ChannelSettings struct {
	UserName           string `json:"userName" yaml:"user_name"`
	ChannelName        string `json:"channelName" yaml:"channel_name"`
	ChannelDescription string `json:"channelDescription" yaml:"channel_description"`
	LogoURL            string `json:"logoUrl" yaml:"logo_url"`
	PersonalWebsite    string `json:"personalWebsite" yaml:"personal_website"`
	FeedURL            string `json:"feedUrl" yaml:"feed_url"`
	AuthorName         string `json:"authorName" yaml:"author_name"`
	AuthorEmail        string `json:"authorEmail" yaml:"author_email"`
	OwnerName          string `json:"ownerName" yaml:"owner_name"`
	OwnerEmail         string `json:"ownerEmail" yaml:"owner_email"`
	IsExplicitContent  bool   `json:"isExplicitContent" yaml:"explicit"`
	Language           string `json:"language" yaml:"language"`
}

// Normalize trims every field and applies the documented defaults.
func (s ChannelSettings) Normalize() ChannelSettings {
	n := ChannelSettings{
		UserName:           strings.TrimSpace(s.UserName),
		ChannelName:        strings.TrimSpace(s.ChannelName),
		ChannelDescription: strings.TrimSpace(s.ChannelDescription),
		LogoURL:            strings.TrimSpace(s.LogoURL),
		PersonalWebsite:    strings.TrimSpace(s.PersonalWebsite),
		FeedURL:            strings.TrimSpace(s.FeedURL),
		AuthorName:         strings.TrimSpace(s.AuthorName),
		AuthorEmail:        strings.TrimSpace(s.AuthorEmail),
		OwnerName:          strings.TrimSpace(s.OwnerName),
		OwnerEmail:         strings.TrimSpace(s.OwnerEmail),
		IsExplicitContent:  s.IsExplicitContent,
		Language:           strings.TrimSpace(s.Language),
	}
	if n.UserName == "" {
		n.UserName = DefaultUserName
	}
	if n.Language == "" {
		n.Language = DefaultLanguage
	}
	return n
}

// Validate checks a normalized payload.
func (s ChannelSettings) Validate() error {
	return required("userName", s.UserName)
}

// Record converts the payload into column values.
func (s ChannelSettings) Record() ChannelRecord {
	return ChannelRecord{
		UserName:           s.UserName,
		ChannelName:        nullString(s.ChannelName),
		ChannelDescription: nullString(s.ChannelDescription),
		LogoURL:            nullString(s.LogoURL),
		PersonalWebsite:    nullString(s.PersonalWebsite),
		FeedURL:            nullString(s.FeedURL),
		AuthorName:         nullString(s.AuthorName),
		AuthorEmail:        nullString(s.AuthorEmail),
		OwnerName:          nullString(s.OwnerName),
		OwnerEmail:         nullString(s.OwnerEmail),
		IsExplicitContent:  boolToInt(s.IsExplicitContent),
		Language:           nullString(s.Language),
	}
}

// ChannelRecord is a channel_info row.
type ChannelRecord struct {
	ID                 int64          `db:"id"`
	UserName           string         `db:"user_name"`
	ChannelName        sql.NullString `db:"channel_name"`
	ChannelDescription sql.NullString `db:"channel_description"`
	LogoURL            sql.NullString `db:"logo_url"`
	PersonalWebsite    sql.NullString `db:"personal_website"`
	FeedURL            sql.NullString `db:"feed_url"`
	AuthorName         sql.NullString `db:"author_name"`
	AuthorEmail        sql.NullString `db:"author_email"`
	OwnerName          sql.NullString `db:"owner_name"`
	OwnerEmail         sql.NullString `db:"owner_email"`
	IsExplicitContent  int64          `db:"is_explicit_content"`
	Language           sql.NullString `db:"language"`
}

// ToProfile maps the row to its view model, coalescing NULL columns.
func (r ChannelRecord) ToProfile() *ChannelProfile {
	language := r.Language.String
	if language == "" {
		language = DefaultLanguage
	}
	return &ChannelProfile{
		ID:                 r.ID,
		UserName:           r.UserName,
		ChannelName:        r.ChannelName.String,
		ChannelDescription: r.ChannelDescription.String,
		LogoURL:            r.LogoURL.String,
		PersonalWebsite:    r.PersonalWebsite.String,
		FeedURL:            r.FeedURL.String,
		AuthorName:         r.AuthorName.String,
		AuthorEmail:        r.AuthorEmail.String,
		OwnerName:          r.OwnerName.String,
		OwnerEmail:         r.OwnerEmail.String,
		IsExplicitContent:  r.IsExplicitContent != 0,
		Language:           language,
	}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
