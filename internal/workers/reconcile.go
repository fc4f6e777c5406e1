package workers

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/metrics"
)

const (
	DefaultReconcileInterval = 10 * time.Minute
	reconcileBatchSize       = 100
	reconcileQueueSize       = 1024
	flushInterval            = time.Second
	shutdownFlushTimeout     = 5 * time.Second
)

type ReconcileTask struct {
	NovelID int64
	Reason  domain.ReconcileReason
}

type reconcileWorker struct {
	Repo     domain.VoteReconcileRepository
	Counter  domain.VoteCounter
	interval time.Duration
	ch       chan ReconcileTask
}

var _ domain.ReconcileWorker = (*reconcileWorker)(nil)

// NewReconcileWorker 定期比对投票明细与计数表，修复不一致的计数。
// interval <= 0 关闭全量扫描，只处理 Send 提交的任务。
func NewReconcileWorker(repo domain.VoteReconcileRepository, counter domain.VoteCounter, interval time.Duration) *reconcileWorker {
	return &reconcileWorker{
		Repo:     repo,
		Counter:  counter,
		interval: interval,
		ch:       make(chan ReconcileTask, reconcileQueueSize),
	}
}

func (w *reconcileWorker) Send(novelID int64, reason domain.ReconcileReason) {
	select {
	case w.ch <- ReconcileTask{NovelID: novelID, Reason: reason}:
	default:
		logrus.Infof("ReconcileWorker's channel is full, novel %d dropped", novelID)
	}
}

func (w *reconcileWorker) Start(ctx context.Context) {
	flushTicker := time.NewTicker(flushInterval)
	defer flushTicker.Stop()

	var sweep <-chan time.Time
	if w.interval > 0 {
		sweepTicker := time.NewTicker(w.interval)
		defer sweepTicker.Stop()
		sweep = sweepTicker.C
	}

	batch := make([]ReconcileTask, 0, reconcileBatchSize)
	for {
		select {
		case task := <-w.ch:
			batch = append(batch, task)
			if len(batch) == reconcileBatchSize {
				w.flush(ctx, batch)
				batch = make([]ReconcileTask, 0, reconcileBatchSize)
			}
		case <-flushTicker.C:
			if len(batch) > 0 {
				w.flush(ctx, batch)
				batch = make([]ReconcileTask, 0, reconcileBatchSize)
			}
		case <-sweep:
			w.Sweep(ctx)
		case <-ctx.Done():
			logrus.Info("shutting down ReconcileWorker, flushing remain tasks...")
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
			w.drain(flushCtx, batch)
			cancel()
			return
		}
	}
}

// drain flushes batch and every task still queued in the channel.
func (w *reconcileWorker) drain(ctx context.Context, batch []ReconcileTask) {
	for {
		select {
		case task := <-w.ch:
			batch = append(batch, task)
			if len(batch) < reconcileBatchSize {
				continue
			}
		default:
			w.flush(ctx, batch)
			return
		}
		w.flush(ctx, batch)
		batch = make([]ReconcileTask, 0, reconcileBatchSize)
	}
}

// flush checks every distinct novel of the batch once.
func (w *reconcileWorker) flush(ctx context.Context, batch []ReconcileTask) {
	if len(batch) == 0 {
		return
	}
	ids := make([]int64, 0, len(batch))
	reasons := make(map[int64]domain.ReconcileReason, len(batch))
	for i := range batch {
		ids = append(ids, batch[i].NovelID)
		reasons[batch[i].NovelID] = max(reasons[batch[i].NovelID], batch[i].Reason)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)
	w.check(ctx, ids, reasons)
}

// Sweep walks every aggregate row in id order and repairs the divergent ones.
// It returns the number of repaired rows.
func (w *reconcileWorker) Sweep(ctx context.Context) int {
	var cursor int64
	repaired := 0
	for ctx.Err() == nil {
		ids, err := w.Repo.FetchAggregateIDs(ctx, cursor, reconcileBatchSize)
		if err != nil {
			logrus.Errorf("reconcile sweep stopped at cursor %d: %v", cursor, err)
			break
		}
		if len(ids) == 0 {
			break
		}
		repaired += w.check(ctx, ids, nil)
		cursor = ids[len(ids)-1]
		if len(ids) < reconcileBatchSize {
			break
		}
	}
	return repaired
}

// check repairs the divergent novels of ids. Novels missing from reasons are
// logged as scheduled.
func (w *reconcileWorker) check(ctx context.Context, ids []int64, reasons map[int64]domain.ReconcileReason) int {
	if len(ids) == 0 {
		return 0
	}
	actual, err := w.Repo.CountActiveVotes(ctx, ids)
	if err != nil {
		logrus.Errorf("failed to CountActiveVotes: %v", err)
		return 0
	}
	stored, err := w.Counter.MGetCounts(ctx, ids)
	if err != nil {
		logrus.Errorf("failed to MGetCounts: %v", err)
		return 0
	}

	repaired := 0
	for _, id := range ids {
		if actual[id] == stored[id] {
			continue
		}
		// 读快照与修复之间可能有新的投票，Repair 会在锁内重新计数
		before, after, err := w.Repo.Repair(ctx, id)
		if err != nil {
			logrus.Errorf("failed to repair vote count of novel %d (%s): %v", id, reasons[id], err)
			continue
		}
		if before != after {
			repaired++
			metrics.VoteCounterRepairs.Inc()
			logrus.WithFields(logrus.Fields{
				"novel_id": id,
				"reason":   reasons[id].String(),
				"before":   before,
				"after":    after,
			}).Warn("vote counter repaired")
		}
	}
	return repaired
}
