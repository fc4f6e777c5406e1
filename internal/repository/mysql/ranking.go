package mysql

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/repository/mysql/model"
)

const (
	ScopeNovel  = "novel"
	ScopeAuthor = "author"
	ScopeUser   = "user"
)

// windowedVotes counts, per novel, the active votes whose last toggle falls inside the window.
func windowedVotes(db *gorm.DB, since time.Time) *gorm.DB {
	return db.Model(&model.Vote{}).
		Select("novel_id, COUNT(*) AS vote_count").
		Where("active = ? AND voted_at >= ?", true, since).
		Group("novel_id")
}

// joinVoteScores attaches the vote score of each novel aliased as n under alias vs.
// With a vote window only novels that received votes inside it remain.
func joinVoteScores(db, q *gorm.DB, filter domain.RankFilter) *gorm.DB {
	if filter.SortType == domain.SortByVote && filter.Since != nil {
		return q.Joins("JOIN (?) AS vs ON vs.novel_id = n.id", windowedVotes(db, *filter.Since))
	}
	q = q.Joins("LEFT JOIN novel_vote_aggregates AS vs ON vs.novel_id = n.id")
	if filter.Since != nil {
		q = q.Where("n.updated_at >= ?", *filter.Since)
	}
	return q
}

func ratingKey(r *float64) float64 {
	if r == nil {
		return math.NaN()
	}
	return *r
}

func timeKey(t time.Time) float64 {
	if t.IsZero() {
		return math.NaN()
	}
	return float64(t.UnixMicro())
}

type novelRankSource struct {
	DB *gorm.DB
}

var _ domain.RankSource[domain.NovelSummary] = (*novelRankSource)(nil)

func NewNovelRankSource(db *gorm.DB) *novelRankSource {
	return &novelRankSource{db}
}

func (s *novelRankSource) Scope() string { return ScopeNovel }

func (s *novelRankSource) Supports(domain.SortType) bool { return true }

func (s *novelRankSource) FetchCandidates(ctx context.Context, filter domain.RankFilter) ([]domain.NovelSummary, error) {
	db := s.DB.WithContext(ctx)
	q := db.Table("novels AS n").
		Select("n.id, n.title, n.author_id, COALESCE(u.name, '') AS author_name, n.category_id, " +
			"n.views, n.average_rating, n.updated_at, COALESCE(vs.vote_count, 0) AS vote_count").
		Joins("LEFT JOIN users AS u ON u.id = n.author_id")
	q = joinVoteScores(db, q, filter)
	if filter.CategoryID != nil {
		q = q.Where("n.category_id = ?", *filter.CategoryID)
	}

	var rows []model.NovelRankRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	res := make([]domain.NovelSummary, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (s *novelRankSource) EntityID(item domain.NovelSummary) int64 { return item.ID }

func (s *novelRankSource) SortKey(item domain.NovelSummary, sortType domain.SortType) float64 {
	switch sortType {
	case domain.SortByVote:
		return float64(item.VoteCount)
	case domain.SortByView:
		return float64(item.ViewCount)
	case domain.SortByRating:
		return ratingKey(item.Rating)
	case domain.SortByUpdated:
		return timeKey(item.UpdatedAt)
	default:
		return math.NaN()
	}
}

type authorRankSource struct {
	DB *gorm.DB
}

var _ domain.RankSource[domain.AuthorSummary] = (*authorRankSource)(nil)

// NewAuthorRankSource 作者榜：按作者名下小说聚合
func NewAuthorRankSource(db *gorm.DB) *authorRankSource {
	return &authorRankSource{db}
}

func (s *authorRankSource) Scope() string { return ScopeAuthor }

func (s *authorRankSource) Supports(domain.SortType) bool { return true }

func (s *authorRankSource) FetchCandidates(ctx context.Context, filter domain.RankFilter) ([]domain.AuthorSummary, error) {
	db := s.DB.WithContext(ctx)
	q := db.Table("novels AS n").
		Select("u.id, u.name, COUNT(n.id) AS novel_count, COALESCE(SUM(vs.vote_count), 0) AS vote_count, " +
			"COALESCE(SUM(n.views), 0) AS view_count, AVG(n.average_rating) AS average_rating, " +
			"MAX(n.updated_at) AS last_updated_at").
		Joins("JOIN users AS u ON u.id = n.author_id")
	q = joinVoteScores(db, q, filter)
	if filter.CategoryID != nil {
		q = q.Where("n.category_id = ?", *filter.CategoryID)
	}
	q = q.Group("u.id, u.name")

	var rows []model.AuthorRankRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	res := make([]domain.AuthorSummary, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (s *authorRankSource) EntityID(item domain.AuthorSummary) int64 { return item.ID }

func (s *authorRankSource) SortKey(item domain.AuthorSummary, sortType domain.SortType) float64 {
	switch sortType {
	case domain.SortByVote:
		return float64(item.VoteCount)
	case domain.SortByView:
		return float64(item.ViewCount)
	case domain.SortByRating:
		return ratingKey(item.AverageRating)
	case domain.SortByUpdated:
		return timeKey(item.LastUpdatedAt)
	default:
		return math.NaN()
	}
}

type userRankSource struct {
	DB *gorm.DB
}

var _ domain.RankSource[domain.UserSummary] = (*userRankSource)(nil)

// NewUserRankSource 用户榜：按有效投票数或最近投票时间
func NewUserRankSource(db *gorm.DB) *userRankSource {
	return &userRankSource{db}
}

func (s *userRankSource) Scope() string { return ScopeUser }

func (s *userRankSource) Supports(sortType domain.SortType) bool {
	return sortType == domain.SortByVote || sortType == domain.SortByUpdated
}

func (s *userRankSource) FetchCandidates(ctx context.Context, filter domain.RankFilter) ([]domain.UserSummary, error) {
	q := s.DB.WithContext(ctx).Table("novel_votes AS v").
		Select("u.id, u.name, COUNT(v.id) AS vote_count, MAX(v.voted_at) AS last_voted_at").
		Joins("JOIN users AS u ON u.id = v.user_id").
		Where("v.active = ?", true)
	if filter.Since != nil {
		q = q.Where("v.voted_at >= ?", *filter.Since)
	}
	if filter.CategoryID != nil {
		q = q.Joins("JOIN novels AS n ON n.id = v.novel_id").
			Where("n.category_id = ?", *filter.CategoryID)
	}
	q = q.Group("u.id, u.name")

	var rows []model.UserRankRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	res := make([]domain.UserSummary, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (s *userRankSource) EntityID(item domain.UserSummary) int64 { return item.ID }

func (s *userRankSource) SortKey(item domain.UserSummary, sortType domain.SortType) float64 {
	switch sortType {
	case domain.SortByVote:
		return float64(item.VoteCount)
	case domain.SortByUpdated:
		return timeKey(item.LastVotedAt)
	default:
		return math.NaN()
	}
}
