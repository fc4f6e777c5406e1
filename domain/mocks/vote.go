package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

// VoteRepository is a mock type for the VoteRepository type
type VoteRepository struct {
	mock.Mock
}

func (_m *VoteRepository) Toggle(ctx context.Context, userID, novelID int64, at time.Time) (domain.VoteResult, error) {
	ret := _m.Called(ctx, userID, novelID, at)
	return ret.Get(0).(domain.VoteResult), ret.Error(1)
}

func (_m *VoteRepository) GetVote(ctx context.Context, userID, novelID int64) (domain.Vote, error) {
	ret := _m.Called(ctx, userID, novelID)
	return ret.Get(0).(domain.Vote), ret.Error(1)
}

// VoteCounter is a mock type for the VoteCounter type
type VoteCounter struct {
	mock.Mock
}

func (_m *VoteCounter) GetCount(ctx context.Context, novelID int64) (int64, error) {
	ret := _m.Called(ctx, novelID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *VoteCounter) MGetCounts(ctx context.Context, novelIDs []int64) (map[int64]int64, error) {
	ret := _m.Called(ctx, novelIDs)
	var r0 map[int64]int64
	if v := ret.Get(0); v != nil {
		r0 = v.(map[int64]int64)
	}
	return r0, ret.Error(1)
}

// VoteReconcileRepository is a mock type for the VoteReconcileRepository type
type VoteReconcileRepository struct {
	mock.Mock
}

func (_m *VoteReconcileRepository) FetchAggregateIDs(ctx context.Context, cursor int64, limit int64) ([]int64, error) {
	ret := _m.Called(ctx, cursor, limit)
	var r0 []int64
	if v := ret.Get(0); v != nil {
		r0 = v.([]int64)
	}
	return r0, ret.Error(1)
}

func (_m *VoteReconcileRepository) CountActiveVotes(ctx context.Context, novelIDs []int64) (map[int64]int64, error) {
	ret := _m.Called(ctx, novelIDs)
	var r0 map[int64]int64
	if v := ret.Get(0); v != nil {
		r0 = v.(map[int64]int64)
	}
	return r0, ret.Error(1)
}

func (_m *VoteReconcileRepository) Repair(ctx context.Context, novelID int64) (int64, int64, error) {
	ret := _m.Called(ctx, novelID)
	return ret.Get(0).(int64), ret.Get(1).(int64), ret.Error(2)
}

// ToggleThrottle is a mock type for the ToggleThrottle type
type ToggleThrottle struct {
	mock.Mock
}

func (_m *ToggleThrottle) Allow(ctx context.Context, userID int64) (bool, error) {
	ret := _m.Called(ctx, userID)
	return ret.Bool(0), ret.Error(1)
}

// ReconcileWorker is a mock type for the ReconcileWorker type
type ReconcileWorker struct {
	mock.Mock
}

func (_m *ReconcileWorker) Start(ctx context.Context) {
	_m.Called(ctx)
}

func (_m *ReconcileWorker) Send(novelID int64, reason domain.ReconcileReason) {
	_m.Called(novelID, reason)
}

// VoteUsecase is a mock type for the VoteUsecase type
type VoteUsecase struct {
	mock.Mock
}

func (_m *VoteUsecase) ToggleVote(ctx context.Context, userID, novelID int64) (domain.VoteResult, error) {
	ret := _m.Called(ctx, userID, novelID)
	return ret.Get(0).(domain.VoteResult), ret.Error(1)
}

func (_m *VoteUsecase) GetVoteStats(ctx context.Context, novelID int64) (domain.VoteStats, error) {
	ret := _m.Called(ctx, novelID)
	return ret.Get(0).(domain.VoteStats), ret.Error(1)
}

func (_m *VoteUsecase) GetVoteStatus(ctx context.Context, userID, novelID int64) (domain.VoteStatus, error) {
	ret := _m.Called(ctx, userID, novelID)
	return ret.Get(0).(domain.VoteStatus), ret.Error(1)
}
