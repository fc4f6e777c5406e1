package mocks

import (
	"context"
	"math"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

// RankSource is a mock type for the RankSource type. Only FetchCandidates is
// mocked; ids and keys come from the two functions.
type RankSource[T any] struct {
	mock.Mock
	Name  string
	Sorts []domain.SortType // nil supports every sort type
	IDOf  func(item T) int64
	KeyOf func(item T, sortType domain.SortType) float64
}

func (_m *RankSource[T]) Scope() string { return _m.Name }

func (_m *RankSource[T]) Supports(sortType domain.SortType) bool {
	if _m.Sorts == nil {
		return true
	}
	for _, s := range _m.Sorts {
		if s == sortType {
			return true
		}
	}
	return false
}

func (_m *RankSource[T]) FetchCandidates(ctx context.Context, filter domain.RankFilter) ([]T, error) {
	ret := _m.Called(ctx, filter)
	var r0 []T
	if v := ret.Get(0); v != nil {
		r0 = v.([]T)
	}
	return r0, ret.Error(1)
}

func (_m *RankSource[T]) EntityID(item T) int64 { return _m.IDOf(item) }

func (_m *RankSource[T]) SortKey(item T, sortType domain.SortType) float64 {
	if _m.KeyOf == nil {
		return math.NaN()
	}
	return _m.KeyOf(item, sortType)
}

// RankingCache is a mock type for the RankingCache type
type RankingCache struct {
	mock.Mock
}

func (_m *RankingCache) GetPage(ctx context.Context, key string, dst any) (bool, error) {
	ret := _m.Called(ctx, key, dst)
	return ret.Bool(0), ret.Error(1)
}

func (_m *RankingCache) SetPage(ctx context.Context, key string, page any, ttl time.Duration) error {
	ret := _m.Called(ctx, key, page, ttl)
	return ret.Error(0)
}

func (_m *RankingCache) DeletePage(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

// RankingUsecase is a mock type for the RankingUsecase type
type RankingUsecase struct {
	mock.Mock
}

func (_m *RankingUsecase) RankNovels(ctx context.Context, q domain.RankingQuery) (domain.RankingPage[domain.NovelSummary], error) {
	ret := _m.Called(ctx, q)
	return ret.Get(0).(domain.RankingPage[domain.NovelSummary]), ret.Error(1)
}

func (_m *RankingUsecase) RankAuthors(ctx context.Context, q domain.RankingQuery) (domain.RankingPage[domain.AuthorSummary], error) {
	ret := _m.Called(ctx, q)
	return ret.Get(0).(domain.RankingPage[domain.AuthorSummary]), ret.Error(1)
}

func (_m *RankingUsecase) RankUsers(ctx context.Context, q domain.RankingQuery) (domain.RankingPage[domain.UserSummary], error) {
	ret := _m.Called(ctx, q)
	return ret.Get(0).(domain.RankingPage[domain.UserSummary]), ret.Error(1)
}
