package models

import "time"

// IdeaType is the content format of an idea. The provider is asked for one of
// the known values, but anything it returns is kept as-is.
type IdeaType string

const (
	TypeBlog  IdeaType = "blog"
	TypeVideo IdeaType = "video"
	TypeTweet IdeaType = "tweet"
)

// Known reports whether t is one of blog, video or tweet.
func (t IdeaType) Known() bool {
	switch t {
	case TypeBlog, TypeVideo, TypeTweet:
		return true
	}
	return false
}

// TimestampLayout is the ISO-8601 form used for favorite timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type Idea struct {
	ID             string   `json:"id,omitempty"`
	Title          string   `json:"title"`
	Type           IdeaType `json:"type"`
	Description    string   `json:"description"`
	Niche          string   `json:"niche"`
	TargetAudience string   `json:"targetAudience"`
	IsFavorite     bool     `json:"isFavorite,omitempty"`
	Timestamp      string   `json:"timestamp,omitempty"`
}

// FavoritedAt parses Timestamp. The zero time is returned when it is unset or malformed.
func (i Idea) FavoritedAt() time.Time {
	if i.Timestamp == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, i.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is an exported, read-only text document.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Blocks    []string  `json:"blocks"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerationLog records one idea generation attempt.
type GenerationLog struct {
	ID             int64     `json:"id"`
	UserID         *int64    `json:"user_id,omitempty"`
	Niche          string    `json:"niche"`
	TargetAudience string    `json:"target_audience"`
	Model          string    `json:"model"`
	IdeasReturned  int       `json:"ideas_returned"`
	DurationMs     int64     `json:"duration_ms"`
	ErrorType      string    `json:"error_type,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Stats struct {
	TotalUsers        int   `json:"total_users"`
	TotalFavorites    int   `json:"total_favorites"`
	TotalGenerations  int   `json:"total_generations"`
	FailedGenerations int   `json:"failed_generations"`
	TotalDocuments    int   `json:"total_documents"`
	DatabaseSizeBytes int64 `json:"database_size_bytes"`
}
