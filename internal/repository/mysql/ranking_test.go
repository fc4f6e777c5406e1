package mysql_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	repo "github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/repository/mysql"
)

var novelRankColumns = []string{"id", "title", "author_id", "author_name", "category_id", "views", "average_rating", "updated_at", "vote_count"}

func TestNovelRankSourceAllTime(t *testing.T) {
	db, mock := newMockDB(t)
	updated := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM novels AS n LEFT JOIN users AS u ON u.id = n.author_id LEFT JOIN novel_vote_aggregates AS vs").
		WillReturnRows(sqlmock.NewRows(novelRankColumns).
			AddRow(1, "A", 10, "alice", 2, 300, 4.5, updated, 10).
			AddRow(2, "B", 11, "bob", 2, 100, nil, updated, 0))

	src := repo.NewNovelRankSource(db)
	items, err := src.FetchCandidates(context.Background(), domain.RankFilter{SortType: domain.SortByVote})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "alice", items[0].AuthorName)
	require.NotNil(t, items[0].Rating)
	assert.Equal(t, 4.5, *items[0].Rating)
	assert.Nil(t, items[1].Rating)
	assert.Equal(t, int64(300), items[0].ViewCount)

	assert.Equal(t, float64(10), src.SortKey(items[0], domain.SortByVote))
	assert.True(t, math.IsNaN(src.SortKey(items[1], domain.SortByRating)))
	assert.Equal(t, float64(updated.UnixMicro()), src.SortKey(items[0], domain.SortByUpdated))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNovelRankSourceVoteWindow(t *testing.T) {
	db, mock := newMockDB(t)
	since := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	cat := int64(2)

	mock.ExpectQuery("JOIN \\(SELECT novel_id, COUNT\\(\\*\\) AS vote_count FROM `novel_votes` WHERE active = \\? AND voted_at >= \\?(.+)\\) AS vs ON vs.novel_id = n.id(.+)n.category_id = \\?").
		WillReturnRows(sqlmock.NewRows(novelRankColumns))

	items, err := repo.NewNovelRankSource(db).FetchCandidates(context.Background(), domain.RankFilter{
		SortType:   domain.SortByVote,
		Since:      &since,
		CategoryID: &cat,
	})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNovelRankSourceUpdatedWindow(t *testing.T) {
	db, mock := newMockDB(t)
	since := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("LEFT JOIN novel_vote_aggregates AS vs ON vs.novel_id = n.id WHERE n.updated_at >= \\?").
		WillReturnRows(sqlmock.NewRows(novelRankColumns))

	_, err := repo.NewNovelRankSource(db).FetchCandidates(context.Background(), domain.RankFilter{
		SortType: domain.SortByView,
		Since:    &since,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorRankSource(t *testing.T) {
	db, mock := newMockDB(t)
	updated := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM novels AS n JOIN users AS u ON u.id = n.author_id(.+)GROUP BY u.id, u.name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "novel_count", "vote_count", "view_count", "average_rating", "last_updated_at"}).
			AddRow(10, "alice", 3, 42, 900, 4.1, updated).
			AddRow(11, "bob", 1, 0, 5, nil, nil))

	src := repo.NewAuthorRankSource(db)
	items, err := src.FetchCandidates(context.Background(), domain.RankFilter{SortType: domain.SortByVote})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].NovelCount)
	assert.Equal(t, int64(42), items[0].VoteCount)
	assert.Nil(t, items[1].AverageRating)
	assert.True(t, items[1].LastUpdatedAt.IsZero())
	assert.True(t, math.IsNaN(src.SortKey(items[1], domain.SortByUpdated)))
	assert.Equal(t, int64(10), src.EntityID(items[0]))
}

func TestUserRankSource(t *testing.T) {
	db, mock := newMockDB(t)
	voted := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	cat := int64(5)

	mock.ExpectQuery("FROM novel_votes AS v JOIN users AS u ON u.id = v.user_id JOIN novels AS n ON n.id = v.novel_id WHERE v.active = \\? AND n.category_id = \\? GROUP BY u.id, u.name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "vote_count", "last_voted_at"}).AddRow(3, "carol", 8, voted))

	src := repo.NewUserRankSource(db)
	assert.True(t, src.Supports(domain.SortByVote))
	assert.True(t, src.Supports(domain.SortByUpdated))
	assert.False(t, src.Supports(domain.SortByRating))
	assert.False(t, src.Supports(domain.SortByView))

	items, err := src.FetchCandidates(context.Background(), domain.RankFilter{SortType: domain.SortByVote, CategoryID: &cat})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(8), items[0].VoteCount)
	assert.Equal(t, voted, items[0].LastVotedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
