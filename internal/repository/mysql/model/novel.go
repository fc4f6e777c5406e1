package model

import (
	"database/sql"
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

// Novel is the catalog row. The catalog owns it; this service only reads it.
type Novel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Title         string          `gorm:"type:varchar(255);not null"`
	AuthorID      int64           `gorm:"column:author_id;not null;index"`
	CategoryID    int64           `gorm:"column:category_id;not null;index"`
	Views         int64           `gorm:"default:0"`
	AverageRating sql.NullFloat64 `gorm:"column:average_rating"`
	UpdatedAt     time.Time       `gorm:"type:datetime;index"`
	CreatedAt     time.Time       `gorm:"type:datetime"`
}

func (Novel) TableName() string {
	return "novels"
}

// NovelRankRow is the projection scanned by the novel rank source.
type NovelRankRow struct {
	ID            int64
	Title         string
	AuthorID      int64
	AuthorName    string
	CategoryID    int64
	Views         int64
	AverageRating sql.NullFloat64
	UpdatedAt     time.Time
	VoteCount     int64
}

func (r *NovelRankRow) ToDomain() domain.NovelSummary {
	return domain.NovelSummary{
		ID:         r.ID,
		Title:      r.Title,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		CategoryID: r.CategoryID,
		VoteCount:  r.VoteCount,
		ViewCount:  r.Views,
		Rating:     nullFloat(r.AverageRating),
		UpdatedAt:  r.UpdatedAt,
	}
}

type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(64);not null"`
}

func (Category) TableName() string {
	return "categories"
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
