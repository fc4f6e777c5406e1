package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain/mocks"
)

func TestStartWorkersWaitsForCleanup(t *testing.T) {
	var flushed atomic.Int32
	slow := func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
		time.Sleep(50 * time.Millisecond)
		flushed.Add(1)
	}
	a, b := &mocks.ReconcileWorker{}, &mocks.ReconcileWorker{}
	a.On("Start", mock.Anything).Run(slow).Once()
	b.On("Start", mock.Anything).Run(slow).Once()

	ctx, cancel := context.WithCancel(context.Background())
	wg := startWorkers(ctx, a, b)
	cancel()
	wg.Wait()

	assert.Equal(t, int32(2), flushed.Load())
	a.AssertExpectations(t)
	b.AssertExpectations(t)
}
