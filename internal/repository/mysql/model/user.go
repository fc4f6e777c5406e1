package model

import (
	"database/sql"
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (User) TableName() string {
	return "users"
}

// AuthorRankRow is the per-author aggregate over their novels.
type AuthorRankRow struct {
	ID            int64
	Name          string
	NovelCount    int64
	VoteCount     int64
	ViewCount     int64
	AverageRating sql.NullFloat64
	LastUpdatedAt sql.NullTime
}

func (r *AuthorRankRow) ToDomain() domain.AuthorSummary {
	return domain.AuthorSummary{
		ID:            r.ID,
		Name:          r.Name,
		NovelCount:    r.NovelCount,
		VoteCount:     r.VoteCount,
		ViewCount:     r.ViewCount,
		AverageRating: nullFloat(r.AverageRating),
		LastUpdatedAt: r.LastUpdatedAt.Time,
	}
}

// UserRankRow is the per-voter aggregate over active votes.
type UserRankRow struct {
	ID          int64
	Name        string
	VoteCount   int64
	LastVotedAt sql.NullTime
}

func (r *UserRankRow) ToDomain() domain.UserSummary {
	return domain.UserSummary{
		ID:          r.ID,
		Name:        r.Name,
		VoteCount:   r.VoteCount,
		LastVotedAt: r.LastVotedAt.Time,
	}
}
