package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/metrics"
)

const (
	DefaultCacheTTL       = 60 * time.Second
	DefaultComputeTimeout = 10 * time.Second
)

type Config struct {
	CacheTTL       time.Duration // logical freshness of a cached page
	MaxPageSize    int
	ComputeTimeout time.Duration // budget of a shared or background computation
}

type Service struct {
	novels     domain.RankSource[domain.NovelSummary]
	authors    domain.RankSource[domain.AuthorSummary]
	users      domain.RankSource[domain.UserSummary]
	categories domain.CategoryRegistry
	cache      domain.RankingCache
	cfg        Config
	now        func() time.Time

	computeGroup singleflight.Group
	rebuildGroup singleflight.Group
}

var _ domain.RankingUsecase = (*Service)(nil)

// NewService will create a new ranking service object. cache and categories may be nil.
func NewService(
	novels domain.RankSource[domain.NovelSummary],
	authors domain.RankSource[domain.AuthorSummary],
	users domain.RankSource[domain.UserSummary],
	categories domain.CategoryRegistry,
	cache domain.RankingCache,
	cfg Config,
) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = domain.MaxRankPageSize
	}
	if cfg.ComputeTimeout <= 0 {
		cfg.ComputeTimeout = DefaultComputeTimeout
	}
	return &Service{
		novels:     novels,
		authors:    authors,
		users:      users,
		categories: categories,
		cache:      cache,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *Service) RankNovels(ctx context.Context, q domain.RankingQuery) (domain.RankingPage[domain.NovelSummary], error) {
	return rank(ctx, s, s.novels, q)
}

func (s *Service) RankAuthors(ctx context.Context, q domain.RankingQuery) (domain.RankingPage[domain.AuthorSummary], error) {
	return rank(ctx, s, s.authors, q)
}

func (s *Service) RankUsers(ctx context.Context, q domain.RankingQuery) (domain.RankingPage[domain.UserSummary], error) {
	return rank(ctx, s, s.users, q)
}

func (s *Service) checkCategory(ctx context.Context, categoryID *int64) error {
	if categoryID == nil || s.categories == nil {
		return nil
	}
	ok, err := s.categories.CategoryExists(ctx, *categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (s *Service) filterFor(q domain.RankingQuery) domain.RankFilter {
	filter := domain.RankFilter{SortType: q.SortType, CategoryID: q.CategoryID}
	if since, ok := q.TimeRange.Since(s.now()); ok {
		filter.Since = &since
	}
	return filter
}

func rank[T any](ctx context.Context, s *Service, source domain.RankSource[T], q domain.RankingQuery) (domain.RankingPage[T], error) {
	if err := q.Validate(s.cfg.MaxPageSize); err != nil {
		return domain.RankingPage[T]{}, err
	}
	if !source.Supports(q.SortType) {
		return domain.RankingPage[T]{}, domain.NewInvalidQueryError("sortType",
			fmt.Sprintf("%s ranking does not support sort type %q", source.Scope(), q.SortType))
	}
	if err := s.checkCategory(ctx, q.CategoryID); err != nil {
		return domain.RankingPage[T]{}, err
	}

	key := q.CacheKey(source.Scope())
	if page, ok := lookup(ctx, s, source, q, key); ok {
		return page, nil
	}

	ch := s.computeGroup.DoChan(key, func() (any, error) {
		return compute(ctx, s, source, q, key)
	})
	select {
	case <-ctx.Done():
		return domain.RankingPage[T]{}, fmt.Errorf("%w: %v", domain.ErrTimeout, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return domain.RankingPage[T]{}, r.Err
		}
		return r.Val.(domain.RankingPage[T]), nil
	}
}

// lookup serves a cached page. A logically expired page is still served,
// with one rebuild started in the background.
func lookup[T any](ctx context.Context, s *Service, source domain.RankSource[T], q domain.RankingQuery, key string) (domain.RankingPage[T], bool) {
	if s.cache == nil {
		return domain.RankingPage[T]{}, false
	}
	scope := source.Scope()

	var page domain.RankingPage[T]
	expired, err := s.cache.GetPage(ctx, key, &page)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			metrics.RankingCacheLookups.WithLabelValues(scope, "miss").Inc()
		} else {
			metrics.RankingCacheLookups.WithLabelValues(scope, "error").Inc()
			logrus.Warnf("ranking cache read failed for %s: %v", key, err)
		}
		return domain.RankingPage[T]{}, false
	}

	if !page.Consistent() || page.CurrentPage != q.Page || page.PageSize != q.PageSize {
		metrics.RankingCacheLookups.WithLabelValues(scope, "corrupt").Inc()
		logrus.Warnf("dropping inconsistent ranking page %s", key)
		if err := s.cache.DeletePage(ctx, key); err != nil {
			logrus.Warnf("failed to delete ranking page %s: %v", key, err)
		}
		return domain.RankingPage[T]{}, false
	}
	if page.Content == nil {
		page.Content = []T{}
	}

	if expired {
		metrics.RankingCacheLookups.WithLabelValues(scope, "stale").Inc()
		go s.rebuildGroup.Do(key, func() (any, error) {
			return compute(ctx, s, source, q, key)
		})
	} else {
		metrics.RankingCacheLookups.WithLabelValues(scope, "hit").Inc()
	}
	return page, true
}

// compute ranks from the source and refreshes the cache. It is shared by
// concurrent callers, so it runs detached from the caller's cancellation.
func compute[T any](ctx context.Context, s *Service, source domain.RankSource[T], q domain.RankingQuery, key string) (domain.RankingPage[T], error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ComputeTimeout)
	defer cancel()

	page, err := Rank(ctx, source, q, s.filterFor(q))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			err = fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
		logrus.WithFields(logrus.Fields{
			"scope": source.Scope(),
			"key":   key,
		}).Errorf("failed to compute ranking: %v", err)
		return domain.RankingPage[T]{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetPage(ctx, key, page, s.cfg.CacheTTL); err != nil {
			logrus.Warnf("failed to cache ranking page %s: %v", key, err)
		}
	}
	return page, nil
}
