package domain

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	DefaultRankPage     = 1
	DefaultRankPageSize = 20
	MaxRankPageSize     = 100
)

type SortType string

const (
	SortByVote    SortType = "vote"
	SortByView    SortType = "view"
	SortByRating  SortType = "rating"
	SortByUpdated SortType = "updated"
)

func ParseSortType(s string) (SortType, error) {
	switch SortType(s) {
	case "":
		return SortByVote, nil
	case SortByVote, SortByView, SortByRating, SortByUpdated:
		return SortType(s), nil
	default:
		return "", NewInvalidQueryError("sortType", fmt.Sprintf("unknown sort type %q", s))
	}
}

type TimeRange string

const (
	TimeRangeDaily   TimeRange = "daily"
	TimeRangeWeekly  TimeRange = "weekly"
	TimeRangeMonthly TimeRange = "monthly"
	TimeRangeAll     TimeRange = "all"
)

func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case "":
		return TimeRangeAll, nil
	case TimeRangeDaily, TimeRangeWeekly, TimeRangeMonthly, TimeRangeAll:
		return TimeRange(s), nil
	default:
		return "", NewInvalidQueryError("timeRange", fmt.Sprintf("unknown time range %q", s))
	}
}

// Since returns the inclusive start of the window evaluated at now.
// Daily windows move by the hour, weekly and monthly windows by the day.
// ok is false for TimeRangeAll.
func (r TimeRange) Since(now time.Time) (since time.Time, ok bool) {
	switch r {
	case TimeRangeDaily:
		return now.Truncate(time.Hour).Add(-24 * time.Hour), true
	case TimeRangeWeekly:
		return startOfDay(now).AddDate(0, 0, -7), true
	case TimeRangeMonthly:
		return startOfDay(now).AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RankingQuery is the immutable input of a ranking request.
type RankingQuery struct {
	SortType   SortType
	TimeRange  TimeRange
	CategoryID *int64
	Page       int // 1-based
	PageSize   int
}

// Validate checks pagination bounds and enum values.
func (q RankingQuery) Validate(maxPageSize int) error {
	if _, err := ParseSortType(string(q.SortType)); err != nil || q.SortType == "" {
		return NewInvalidQueryError("sortType", fmt.Sprintf("unknown sort type %q", q.SortType))
	}
	if _, err := ParseTimeRange(string(q.TimeRange)); err != nil || q.TimeRange == "" {
		return NewInvalidQueryError("timeRange", fmt.Sprintf("unknown time range %q", q.TimeRange))
	}
	if q.Page < 1 {
		return NewInvalidQueryError("page", "must be >= 1")
	}
	if q.PageSize < 1 || q.PageSize > maxPageSize {
		return NewInvalidQueryError("pageSize", fmt.Sprintf("must be between 1 and %d", maxPageSize))
	}
	if q.CategoryID != nil && *q.CategoryID <= 0 {
		return NewInvalidQueryError("categoryId", "must be a positive id")
	}
	return nil
}

// BeyondLast reports whether the page starts at or after the last of total items.
func (q RankingQuery) BeyondLast(total int64) bool {
	return int64(q.Page) > int64(TotalPages(total, q.PageSize))
}

// Offset is only meaningful when the page is not beyond the last one,
// otherwise the product may overflow.
func (q RankingQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// CacheKey identifies the page for the given ranking scope (novel, author, user).
func (q RankingQuery) CacheKey(scope string) string {
	category := "all"
	if q.CategoryID != nil {
		category = strconv.FormatInt(*q.CategoryID, 10)
	}
	return fmt.Sprintf("rank:%s:%s:%s:%s:p%d:s%d", scope, q.SortType, q.TimeRange, category, q.Page, q.PageSize)
}

// RankingPage is one page of a ranking. It is never modified after NewRankingPage.
type RankingPage[T any] struct {
	Content     []T
	TotalCount  int64
	CurrentPage int
	PageSize    int
	TotalPages  int
}

func NewRankingPage[T any](content []T, totalCount int64, page, pageSize int) RankingPage[T] {
	if content == nil {
		content = []T{}
	}
	return RankingPage[T]{
		Content:     content,
		TotalCount:  totalCount,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  TotalPages(totalCount, pageSize),
	}
}

func TotalPages(totalCount int64, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	n := totalCount / int64(pageSize)
	if totalCount%int64(pageSize) != 0 {
		n++
	}
	return int(n)
}

// Consistent reports whether the declared totals match the content length.
func (p RankingPage[T]) Consistent() bool {
	if p.PageSize <= 0 || p.CurrentPage < 1 || p.TotalCount < 0 {
		return false
	}
	if p.TotalPages != TotalPages(p.TotalCount, p.PageSize) {
		return false
	}
	if p.CurrentPage > p.TotalPages {
		return len(p.Content) == 0
	}
	remaining := p.TotalCount - int64(p.CurrentPage-1)*int64(p.PageSize)
	return int64(len(p.Content)) == min(remaining, int64(p.PageSize))
}

// RankFilter is the candidate restriction handed to a RankSource.
type RankFilter struct {
	SortType   SortType
	Since      *time.Time // nil means no time window
	CategoryID *int64
}

// RankSource supplies ranking candidates and their sort keys for one entity kind.
type RankSource[T any] interface {
	// Scope names the entity kind, used in cache keys and logs.
	Scope() string
	Supports(sortType SortType) bool
	FetchCandidates(ctx context.Context, filter RankFilter) ([]T, error)
	EntityID(item T) int64
	// SortKey returns NaN when the entity has no value for sortType.
	SortKey(item T, sortType SortType) float64
}

type RankingCache interface {
	// GetPage decodes the page stored under key into dst.
	// Returns ErrCacheMiss when absent. expired reports logical expiry.
	GetPage(ctx context.Context, key string, dst any) (expired bool, err error)
	SetPage(ctx context.Context, key string, page any, ttl time.Duration) error
	DeletePage(ctx context.Context, key string) error
}

type RankingUsecase interface {
	RankNovels(ctx context.Context, q RankingQuery) (RankingPage[NovelSummary], error)
	RankAuthors(ctx context.Context, q RankingQuery) (RankingPage[AuthorSummary], error)
	RankUsers(ctx context.Context, q RankingQuery) (RankingPage[UserSummary], error)
}
