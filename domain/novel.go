package domain

import (
	"context"
	"time"
)

// NovelSummary is one row of the novel ranking.
type NovelSummary struct {
	ID         int64
	Title      string
	AuthorID   int64
	AuthorName string
	CategoryID int64
	VoteCount  int64
	ViewCount  int64
	Rating     *float64 // nil when the novel has not been rated
	UpdatedAt  time.Time
}

// NovelCatalog is the read contract of the external novel catalog.
type NovelCatalog interface {
	NovelExists(ctx context.Context, novelID int64) (bool, error)

	// GetViewCount returns ErrNovelNotFound for unknown novels.
	GetViewCount(ctx context.Context, novelID int64) (int64, error)

	// GetAverageRating returns nil when the novel has no rating yet.
	GetAverageRating(ctx context.Context, novelID int64) (*float64, error)

	GetLastUpdateTime(ctx context.Context, novelID int64) (time.Time, error)
}

// CategoryRegistry is the read contract of the external category registry.
type CategoryRegistry interface {
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
}
