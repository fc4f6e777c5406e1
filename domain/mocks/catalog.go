package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// NovelCatalog is a mock type for the NovelCatalog type
type NovelCatalog struct {
	mock.Mock
}

func (_m *NovelCatalog) NovelExists(ctx context.Context, novelID int64) (bool, error) {
	ret := _m.Called(ctx, novelID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *NovelCatalog) GetViewCount(ctx context.Context, novelID int64) (int64, error) {
	ret := _m.Called(ctx, novelID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *NovelCatalog) GetAverageRating(ctx context.Context, novelID int64) (*float64, error) {
	ret := _m.Called(ctx, novelID)
	var r0 *float64
	if v := ret.Get(0); v != nil {
		r0 = v.(*float64)
	}
	return r0, ret.Error(1)
}

func (_m *NovelCatalog) GetLastUpdateTime(ctx context.Context, novelID int64) (time.Time, error) {
	ret := _m.Called(ctx, novelID)
	return ret.Get(0).(time.Time), ret.Error(1)
}

// UserDirectory is a mock type for the UserDirectory type
type UserDirectory struct {
	mock.Mock
}

func (_m *UserDirectory) UserExists(ctx context.Context, userID int64) (bool, error) {
	ret := _m.Called(ctx, userID)
	return ret.Bool(0), ret.Error(1)
}

// CategoryRegistry is a mock type for the CategoryRegistry type
type CategoryRegistry struct {
	mock.Mock
}

func (_m *CategoryRegistry) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	ret := _m.Called(ctx, categoryID)
	return ret.Bool(0), ret.Error(1)
}
