package response

import (
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

type RankingPage[T any] struct {
	Content     []T   `json:"content"`
	TotalCount  int64 `json:"totalCount"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
}

// NewRankingPage converts every item with its absolute 1-based rank.
func NewRankingPage[S, T any](p domain.RankingPage[S], conv func(rank int, item *S) T) RankingPage[T] {
	content := make([]T, len(p.Content))
	var offset int
	if len(p.Content) > 0 {
		offset = (p.CurrentPage - 1) * p.PageSize
	}
	for i := range p.Content {
		content[i] = conv(offset+i+1, &p.Content[i])
	}
	return RankingPage[T]{
		Content:     content,
		TotalCount:  p.TotalCount,
		CurrentPage: p.CurrentPage,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages,
	}
}

type NovelRankItem struct {
	Rank       int      `json:"rank"`
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	AuthorID   int64    `json:"authorId"`
	AuthorName string   `json:"authorName"`
	CategoryID int64    `json:"categoryId"`
	VoteCount  int64    `json:"voteCount"`
	ViewCount  int64    `json:"viewCount"`
	Rating     *float64 `json:"rating"`
	UpdatedAt  string   `json:"updatedAt"`
}

func NewNovelRankItem(rank int, n *domain.NovelSummary) NovelRankItem {
	return NovelRankItem{
		Rank:       rank,
		ID:         n.ID,
		Title:      n.Title,
		AuthorID:   n.AuthorID,
		AuthorName: n.AuthorName,
		CategoryID: n.CategoryID,
		VoteCount:  n.VoteCount,
		ViewCount:  n.ViewCount,
		Rating:     n.Rating,
		UpdatedAt:  formatTime(n.UpdatedAt),
	}
}

type AuthorRankItem struct {
	Rank          int      `json:"rank"`
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	NovelCount    int64    `json:"novelCount"`
	VoteCount     int64    `json:"voteCount"`
	ViewCount     int64    `json:"viewCount"`
	AverageRating *float64 `json:"averageRating"`
	LastUpdatedAt string   `json:"lastUpdatedAt"`
}

func NewAuthorRankItem(rank int, a *domain.AuthorSummary) AuthorRankItem {
	return AuthorRankItem{
		Rank:          rank,
		ID:            a.ID,
		Name:          a.Name,
		NovelCount:    a.NovelCount,
		VoteCount:     a.VoteCount,
		ViewCount:     a.ViewCount,
		AverageRating: a.AverageRating,
		LastUpdatedAt: formatTime(a.LastUpdatedAt),
	}
}

type UserRankItem struct {
	Rank        int    `json:"rank"`
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	VoteCount   int64  `json:"voteCount"`
	LastVotedAt string `json:"lastVotedAt"`
}

func NewUserRankItem(rank int, u *domain.UserSummary) UserRankItem {
	return UserRankItem{
		Rank:        rank,
		ID:          u.ID,
		Name:        u.Name,
		VoteCount:   u.VoteCount,
		LastVotedAt: formatTime(u.LastVotedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
