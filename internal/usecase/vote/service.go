package vote

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/metrics"
)

const (
	DefaultMaxAttempts = 5
	DefaultRetryBase   = 10 * time.Millisecond
	maxRetryBackoff    = 500 * time.Millisecond
)

type Config struct {
	MaxAttempts int           // toggle attempts on ErrConflictRetryable, including the first
	RetryBase   time.Duration // first backoff, doubled on every further attempt
}

type Service struct {
	voteRepo   domain.VoteRepository
	counter    domain.VoteCounter
	novels     domain.NovelCatalog
	users      domain.UserDirectory
	throttle   domain.ToggleThrottle
	reconciler domain.ReconcileWorker
	cfg        Config
	now        func() time.Time
}

var _ domain.VoteUsecase = (*Service)(nil)

// NewService will create a new vote service object. throttle and reconciler may be nil.
func NewService(
	v domain.VoteRepository,
	c domain.VoteCounter,
	n domain.NovelCatalog,
	u domain.UserDirectory,
	t domain.ToggleThrottle,
	r domain.ReconcileWorker,
	cfg Config,
) *Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = DefaultRetryBase
	}
	return &Service{
		voteRepo:   v,
		counter:    c,
		novels:     n,
		users:      u,
		throttle:   t,
		reconciler: r,
		cfg:        cfg,
		now:        time.Now,
	}
}

// mustExist checks the novel and the user concurrently. It runs before the
// ledger transaction so no row lock is held across these reads.
func (s *Service) mustExist(ctx context.Context, userID, novelID int64) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ok, err := s.novels.NovelExists(gctx, novelID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNovelNotFound
		}
		return nil
	})
	if userID != 0 {
		g.Go(func() error {
			ok, err := s.users.UserExists(gctx, userID)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrUserNotFound
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) ToggleVote(ctx context.Context, userID, novelID int64) (domain.VoteResult, error) {
	if userID <= 0 {
		return domain.VoteResult{}, domain.ErrUserNotFound
	}
	if novelID <= 0 {
		return domain.VoteResult{}, domain.ErrNovelNotFound
	}

	// 先确认小说和用户存在，无效请求不占用限流额度
	if err := s.mustExist(ctx, userID, novelID); err != nil {
		return domain.VoteResult{}, err
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, userID)
		if err != nil {
			// 限流组件不可用时放行
			logrus.Warnf("toggle throttle unavailable, letting user %d through: %v", userID, err)
		} else if !allowed {
			return domain.VoteResult{}, domain.ErrTooManyRequests
		}
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		res, err := s.voteRepo.Toggle(ctx, userID, novelID, s.now())
		if err == nil {
			if res.IsActive {
				metrics.VoteToggles.WithLabelValues("vote").Inc()
			} else {
				metrics.VoteToggles.WithLabelValues("unvote").Inc()
			}
			return res, nil
		}
		if !errors.Is(err, domain.ErrConflictRetryable) {
			if errors.Is(err, domain.ErrStorageUnavailable) || errors.Is(err, domain.ErrTimeout) {
				// the commit outcome may be unknown to us, have the counter rechecked
				s.requestReconcile(novelID)
			}
			logrus.WithFields(logrus.Fields{
				"user_id":  userID,
				"novel_id": novelID,
				"attempt":  attempt,
			}).Errorf("failed to toggle vote: %v", err)
			metrics.VoteToggles.WithLabelValues("error").Inc()
			return domain.VoteResult{}, err
		}

		lastErr = err
		if attempt == s.cfg.MaxAttempts {
			break
		}
		metrics.VoteToggleRetries.Inc()
		if err := s.sleep(ctx, s.backoff(attempt)); err != nil {
			return domain.VoteResult{}, fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"novel_id": novelID,
		"attempts": s.cfg.MaxAttempts,
	}).Warnf("vote toggle kept conflicting: %v", lastErr)
	metrics.VoteToggles.WithLabelValues("error").Inc()
	return domain.VoteResult{}, fmt.Errorf("%w: %v", domain.ErrTransient, lastErr)
}

// backoff returns base*2^(attempt-1) capped, with up to 50% jitter.
func (s *Service) backoff(attempt int) time.Duration {
	d := s.cfg.RetryBase << (attempt - 1)
	if d <= 0 || d > maxRetryBackoff {
		d = maxRetryBackoff
	}
	return d/2 + rand.N(d/2+1)
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) requestReconcile(novelID int64) {
	if s.reconciler != nil {
		s.reconciler.Send(novelID, domain.ReconcileAfterFailure)
	}
}

func (s *Service) GetVoteStats(ctx context.Context, novelID int64) (domain.VoteStats, error) {
	if err := s.mustExist(ctx, 0, novelID); err != nil {
		return domain.VoteStats{}, err
	}
	count, err := s.counter.GetCount(ctx, novelID)
	if err != nil {
		logrus.Errorf("failed to GetCount for novel %d: %v", novelID, err)
		return domain.VoteStats{}, err
	}
	return domain.VoteStats{NovelID: novelID, VoteCount: count}, nil
}

func (s *Service) GetVoteStatus(ctx context.Context, userID, novelID int64) (domain.VoteStatus, error) {
	if userID <= 0 {
		return domain.VoteStatus{}, domain.ErrUserNotFound
	}
	if err := s.mustExist(ctx, userID, novelID); err != nil {
		return domain.VoteStatus{}, err
	}

	vote, err := s.voteRepo.GetVote(ctx, userID, novelID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.VoteStatus{NovelID: novelID}, nil
	}
	if err != nil {
		logrus.Errorf("failed to GetVote from repo: %v", err)
		return domain.VoteStatus{}, err
	}

	status := domain.VoteStatus{NovelID: novelID, HasVoted: vote.Active}
	if vote.Active {
		votedAt := vote.VotedAt
		status.VotedAt = &votedAt
	}
	return status, nil
}
