package domain

import (
	"context"
	"time"
)

// AuthorSummary is one row of the author ranking.
type AuthorSummary struct {
	ID            int64
	Name          string
	NovelCount    int64
	VoteCount     int64
	ViewCount     int64
	AverageRating *float64 // nil when none of the novels has been rated
	LastUpdatedAt time.Time
}

// UserSummary is one row of the user ranking.
type UserSummary struct {
	ID          int64
	Name        string
	VoteCount   int64 // Active votes cast
	LastVotedAt time.Time
}

// UserDirectory is the read contract of the external user directory.
type UserDirectory interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
}
