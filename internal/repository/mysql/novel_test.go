package mysql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	repo "github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/repository/mysql"
)

func TestNovelExists(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `novels` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `novels` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	r := repo.NewNovelRepository(db)
	ok, err := r.NovelExists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.NovelExists(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNovelCatalogGetters(t *testing.T) {
	db, mock := newMockDB(t)
	updated := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, views FROM `novels`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "views"}).AddRow(1, 77))
	mock.ExpectQuery("SELECT id, average_rating FROM `novels`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "average_rating"}).AddRow(1, nil))
	mock.ExpectQuery("SELECT id, updated_at FROM `novels`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow(1, updated))
	mock.ExpectQuery("SELECT id, views FROM `novels`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "views"}))

	r := repo.NewNovelRepository(db)
	views, err := r.GetViewCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(77), views)

	rating, err := r.GetAverageRating(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, rating)

	at, err := r.GetLastUpdateTime(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, updated, at)

	_, err = r.GetViewCount(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNovelNotFound)
}

func TestCategoryAndUserExists(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.NewCategoryRepository(db).CategoryExists(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.NewUserRepository(db).UserExists(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ok)
}
