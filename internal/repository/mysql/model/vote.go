package model

import (
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

// Vote 用户对小说的投票记录，唯一键 user_id + novel_id，只做软状态切换
type Vote struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:uk_user_novel,priority:1"`
	NovelID   int64     `gorm:"column:novel_id;not null;uniqueIndex:uk_user_novel,priority:2;index:idx_novel_active_voted,priority:1"`
	Active    bool      `gorm:"column:active;not null;default:true;index:idx_novel_active_voted,priority:2"`
	Version   int64     `gorm:"column:version;not null;default:1"`
	VotedAt   time.Time `gorm:"column:voted_at;type:datetime(3);not null;index:idx_novel_active_voted,priority:3"`
	CreatedAt time.Time `gorm:"type:datetime(3)"`
	UpdatedAt time.Time `gorm:"type:datetime(3)"`
}

func (Vote) TableName() string {
	return "novel_votes"
}

func (m *Vote) ToDomain() domain.Vote {
	return domain.Vote{
		ID:        m.ID,
		UserID:    m.UserID,
		NovelID:   m.NovelID,
		Active:    m.Active,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
		VotedAt:   m.VotedAt,
	}
}

// NovelVoteAggregate 每本小说一行，保存当前有效票数
type NovelVoteAggregate struct {
	NovelID   int64     `gorm:"column:novel_id;primaryKey;autoIncrement:false"`
	VoteCount int64     `gorm:"column:vote_count;not null;default:0"`
	UpdatedAt time.Time `gorm:"type:datetime(3)"`
}

func (NovelVoteAggregate) TableName() string {
	return "novel_vote_aggregates"
}
