package ranking_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain/mocks"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/usecase/ranking"
)

func novelSource() *mocks.RankSource[domain.NovelSummary] {
	return &mocks.RankSource[domain.NovelSummary]{
		Name: "novel",
		IDOf: func(n domain.NovelSummary) int64 { return n.ID },
		KeyOf: func(n domain.NovelSummary, st domain.SortType) float64 {
			switch st {
			case domain.SortByVote:
				return float64(n.VoteCount)
			case domain.SortByRating:
				if n.Rating == nil {
					return math.NaN()
				}
				return *n.Rating
			default:
				return math.NaN()
			}
		},
	}
}

func query(sortType domain.SortType, page, size int) domain.RankingQuery {
	return domain.RankingQuery{
		SortType:  sortType,
		TimeRange: domain.TimeRangeAll,
		Page:      page,
		PageSize:  size,
	}
}

func ids(items []domain.NovelSummary) []int64 {
	res := make([]int64, len(items))
	for i := range items {
		res[i] = items[i].ID
	}
	return res
}

func ptr(f float64) *float64 { return &f }

func TestRankFirstPage(t *testing.T) {
	src := novelSource()
	candidates := []domain.NovelSummary{
		{ID: 3, Title: "C", VoteCount: 7},
		{ID: 1, Title: "A", VoteCount: 10},
		{ID: 2, Title: "B", VoteCount: 7},
	}
	src.On("FetchCandidates", mock.Anything, mock.Anything).Return(candidates, nil)

	page, err := ranking.Rank(context.Background(), src, query(domain.SortByVote, 1, 2), domain.RankFilter{SortType: domain.SortByVote})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(page.Content))
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, []int64{3, 1, 2}, ids(candidates), "input must not be reordered")
	src.AssertExpectations(t)
}

func TestRankBeyondLastPage(t *testing.T) {
	src := novelSource()
	src.On("FetchCandidates", mock.Anything, mock.Anything).Return([]domain.NovelSummary{
		{ID: 1, VoteCount: 1}, {ID: 2, VoteCount: 2}, {ID: 3, VoteCount: 3},
	}, nil)

	page, err := ranking.Rank(context.Background(), src, query(domain.SortByVote, 4, 2), domain.RankFilter{})
	require.NoError(t, err)
	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.Consistent())
}

func TestSortMissingValuesLast(t *testing.T) {
	src := novelSource()
	candidates := []domain.NovelSummary{
		{ID: 5},
		{ID: 4, Rating: ptr(3.5)},
		{ID: 1},
		{ID: 2, Rating: ptr(4.8)},
		{ID: 3, Rating: ptr(3.5)},
	}
	sorted := ranking.Sort(candidates, domain.SortByRating, src)
	assert.Equal(t, []int64{2, 3, 4, 1, 5}, ids(sorted))
}

func TestSortStable(t *testing.T) {
	src := novelSource()
	candidates := []domain.NovelSummary{
		{ID: 9, VoteCount: 4}, {ID: 2, VoteCount: 4}, {ID: 7, VoteCount: 4}, {ID: 1, VoteCount: 8},
	}
	first := ranking.Sort(candidates, domain.SortByVote, src)
	reversed := []domain.NovelSummary{candidates[3], candidates[2], candidates[1], candidates[0]}
	second := ranking.Sort(reversed, domain.SortByVote, src)
	assert.Equal(t, []int64{1, 2, 7, 9}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestPaginateEmpty(t *testing.T) {
	page := ranking.Paginate([]domain.NovelSummary{}, query(domain.SortByVote, 1, 20))
	assert.NotNil(t, page.Content)
	assert.Equal(t, int64(0), page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPaginateHugePage(t *testing.T) {
	candidates := []domain.NovelSummary{{ID: 1, VoteCount: 10}, {ID: 2, VoteCount: 7}, {ID: 3, VoteCount: 7}}

	tests := []struct {
		name string
		page int
		size int
	}{
		{"far beyond last", 100000000000000000, 100},
		{"offset overflows int", math.MaxInt/100 + 1, 100},
		{"max int page", math.MaxInt, 1},
		{"max int page with max size", math.MaxInt, domain.MaxRankPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := ranking.Paginate(candidates, query(domain.SortByVote, tt.page, tt.size))
			assert.NotNil(t, page.Content)
			assert.Empty(t, page.Content)
			assert.Equal(t, int64(3), page.TotalCount)
			assert.Equal(t, domain.TotalPages(3, tt.size), page.TotalPages)
			assert.Equal(t, tt.page, page.CurrentPage)
			assert.True(t, page.Consistent())
		})
	}
}

func TestRankSourceError(t *testing.T) {
	src := novelSource()
	src.On("FetchCandidates", mock.Anything, mock.Anything).Return(nil, domain.ErrStorageUnavailable)

	_, err := ranking.Rank(context.Background(), src, query(domain.SortByVote, 1, 2), domain.RankFilter{})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
