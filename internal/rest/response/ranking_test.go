package response_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/rest/response"
)

func TestNewRankingPageAbsoluteRank(t *testing.T) {
	p := domain.NewRankingPage([]domain.UserSummary{{ID: 7, VoteCount: 3}, {ID: 9, VoteCount: 1}}, 12, 3, 5)

	res := response.NewRankingPage(p, response.NewUserRankItem)
	assert.Equal(t, 11, res.Content[0].Rank)
	assert.Equal(t, 12, res.Content[1].Rank)
	assert.Equal(t, int64(9), res.Content[1].ID)
	assert.Equal(t, 3, res.TotalPages)
	assert.Empty(t, res.Content[0].LastVotedAt)
}

func TestNewRankingPageBeyondLast(t *testing.T) {
	p := domain.NewRankingPage[domain.NovelSummary](nil, 3, math.MaxInt/100+1, 100)

	res := response.NewRankingPage(p, response.NewNovelRankItem)
	assert.NotNil(t, res.Content)
	assert.Empty(t, res.Content)
	assert.Equal(t, int64(3), res.TotalCount)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, math.MaxInt/100+1, res.CurrentPage)
}
