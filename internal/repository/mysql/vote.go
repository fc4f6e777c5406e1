package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/repository/mysql/model"
)

type voteRepository struct {
	DB *gorm.DB
}

var (
	_ domain.VoteRepository          = (*voteRepository)(nil)
	_ domain.VoteCounter             = (*voteRepository)(nil)
	_ domain.VoteReconcileRepository = (*voteRepository)(nil)
)

// NewVoteRepository 投票账本 + 票数聚合，二者只在同一个事务里一起修改
func NewVoteRepository(db *gorm.DB) *voteRepository {
	return &voteRepository{db}
}

func (m *voteRepository) Toggle(ctx context.Context, userID, novelID int64, at time.Time) (domain.VoteResult, error) {
	var res domain.VoteResult
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住 (user, novel) 这一行，同一用户对同一小说的切换在这里串行
		var vote model.Vote
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND novel_id = ?", userID, novelID).
			Limit(1).
			Find(&vote).Error; err != nil {
			return err
		}

		delta := domain.VoteUp
		if vote.ID == 0 {
			// 首次投票；并发首投会在 uk_user_novel 上冲突，由上层重试
			vote = model.Vote{
				UserID:    userID,
				NovelID:   novelID,
				Active:    true,
				Version:   1,
				VotedAt:   at,
				CreatedAt: at,
				UpdatedAt: at,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		} else {
			if vote.Active {
				delta = domain.VoteDown
			}
			result := tx.Model(&model.Vote{}).
				Where("id = ? AND version = ?", vote.ID, vote.Version).
				Updates(map[string]any{
					"active":     !vote.Active,
					"version":    gorm.Expr("version + 1"),
					"voted_at":   at,
					"updated_at": at,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domain.ErrConflictRetryable
			}
		}

		count, err := applyDelta(tx, novelID, delta, at)
		if err != nil {
			return err
		}
		res = domain.VoteResult{
			NovelID:   novelID,
			VoteCount: count,
			IsActive:  delta == domain.VoteUp,
		}
		return nil
	})
	if err != nil {
		return domain.VoteResult{}, translateError(err)
	}
	return res, nil
}

// applyDelta is the Aggregate Counter write. It must run inside the ledger
// transaction; the increment happens in MySQL, never read-modify-write here.
func applyDelta(tx *gorm.DB, novelID int64, delta domain.VoteDelta, at time.Time) (int64, error) {
	err := tx.Exec(
		"INSERT INTO novel_vote_aggregates (novel_id, vote_count, updated_at) VALUES (?, GREATEST(?, 0), ?) "+
			"ON DUPLICATE KEY UPDATE vote_count = vote_count + ?, updated_at = ?",
		novelID, int64(delta), at, int64(delta), at,
	).Error
	if err != nil {
		return 0, err
	}

	var count int64
	err = tx.Model(&model.NovelVoteAggregate{}).
		Select("vote_count").
		Where("novel_id = ?", novelID).
		Scan(&count).Error
	return count, err
}

func (m *voteRepository) GetVote(ctx context.Context, userID, novelID int64) (domain.Vote, error) {
	var vote model.Vote
	err := m.DB.WithContext(ctx).
		Where("user_id = ? AND novel_id = ?", userID, novelID).
		Limit(1).
		Find(&vote).Error
	if err != nil {
		return domain.Vote{}, translateError(err)
	}
	if vote.ID == 0 {
		return domain.Vote{}, domain.ErrNotFound
	}
	return vote.ToDomain(), nil
}

func (m *voteRepository) GetCount(ctx context.Context, novelID int64) (int64, error) {
	var counts []int64
	err := m.DB.WithContext(ctx).
		Model(&model.NovelVoteAggregate{}).
		Where("novel_id = ?", novelID).
		Pluck("vote_count", &counts).Error
	if err != nil {
		return 0, translateError(err)
	}
	if len(counts) == 0 {
		return 0, nil
	}
	return counts[0], nil
}

func (m *voteRepository) MGetCounts(ctx context.Context, novelIDs []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(novelIDs))
	if len(novelIDs) == 0 {
		return res, nil
	}
	var rows []model.NovelVoteAggregate
	err := m.DB.WithContext(ctx).
		Where("novel_id IN ?", novelIDs).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, id := range novelIDs {
		res[id] = 0
	}
	for _, row := range rows {
		res[row.NovelID] = row.VoteCount
	}
	return res, nil
}

func (m *voteRepository) FetchAggregateIDs(ctx context.Context, cursor int64, limit int64) (ids []int64, err error) {
	err = m.DB.WithContext(ctx).
		Model(&model.NovelVoteAggregate{}).
		Where("novel_id > ?", cursor).
		Order("novel_id").
		Limit(int(limit)).
		Pluck("novel_id", &ids).Error
	return ids, translateError(err)
}

type activeCount struct {
	NovelID int64
	Cnt     int64
}

func (m *voteRepository) CountActiveVotes(ctx context.Context, novelIDs []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(novelIDs))
	if len(novelIDs) == 0 {
		return res, nil
	}
	var rows []activeCount
	err := m.DB.WithContext(ctx).
		Model(&model.Vote{}).
		Select("novel_id, COUNT(*) AS cnt").
		Where("novel_id IN ? AND active = ?", novelIDs, true).
		Group("novel_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, id := range novelIDs {
		res[id] = 0
	}
	for _, row := range rows {
		res[row.NovelID] = row.Cnt
	}
	return res, nil
}

// Repair holds the aggregate row lock while recounting. In-flight toggles block
// on that lock and apply their delta on top of the repaired value.
func (m *voteRepository) Repair(ctx context.Context, novelID int64) (before int64, after int64, err error) {
	err = m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var agg model.NovelVoteAggregate
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("novel_id = ?", novelID).
			Limit(1).
			Find(&agg).Error; err != nil {
			return err
		}
		before = agg.VoteCount

		if err := tx.Model(&model.Vote{}).
			Where("novel_id = ? AND active = ?", novelID, true).
			Count(&after).Error; err != nil {
			return err
		}
		if before == after && agg.NovelID != 0 {
			return nil
		}

		now := time.Now()
		if agg.NovelID == 0 {
			return tx.Create(&model.NovelVoteAggregate{
				NovelID:   novelID,
				VoteCount: after,
				UpdatedAt: now,
			}).Error
		}
		return tx.Model(&model.NovelVoteAggregate{}).
			Where("novel_id = ?", novelID).
			Updates(map[string]any{"vote_count": after, "updated_at": now}).Error
	})
	if err != nil {
		return 0, 0, translateError(err)
	}
	return before, after, nil
}
