package domain

import "context"

type ReconcileReason int8

const (
	ReconcileScheduled ReconcileReason = iota
	ReconcileAfterFailure
)

func (r ReconcileReason) String() string {
	switch r {
	case ReconcileScheduled:
		return "SCHEDULED"
	case ReconcileAfterFailure:
		return "AFTER_FAILURE"
	default:
		return "UNKNOWN"
	}
}

type ReconcileWorker interface {
	Start(ctx context.Context)

	// Send queues the novel for an out-of-schedule counter repair.
	// It never blocks; the request is dropped when the queue is full.
	Send(novelID int64, reason ReconcileReason)
}
