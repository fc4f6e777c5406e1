package ranking

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

type scored[T any] struct {
	id   int64
	key  float64
	item T
}

// compareScored orders by key descending, NaN last, then id ascending.
func compareScored[T any](a, b scored[T]) int {
	aNaN, bNaN := math.IsNaN(a.key), math.IsNaN(b.key)
	switch {
	case aNaN && !bNaN:
		return 1
	case !aNaN && bNaN:
		return -1
	case !aNaN && !bNaN && a.key != b.key:
		if a.key > b.key {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.id, b.id)
}

// Sort returns candidates in ranking order. The input slice is not modified.
func Sort[T any](candidates []T, sortType domain.SortType, source domain.RankSource[T]) []T {
	items := make([]scored[T], len(candidates))
	for i, c := range candidates {
		items[i] = scored[T]{
			id:   source.EntityID(c),
			key:  source.SortKey(c, sortType),
			item: c,
		}
	}
	slices.SortFunc(items, compareScored[T])

	res := make([]T, len(items))
	for i := range items {
		res[i] = items[i].item
	}
	return res
}

// Paginate cuts page q.Page out of the ordered candidates. A page beyond the
// last one is empty but still carries the totals.
func Paginate[T any](ordered []T, q domain.RankingQuery) domain.RankingPage[T] {
	total := len(ordered)
	if q.BeyondLast(int64(total)) {
		return domain.NewRankingPage([]T{}, int64(total), q.Page, q.PageSize)
	}
	offset := q.Offset()
	end := min(offset+q.PageSize, total)
	content := make([]T, end-offset)
	copy(content, ordered[offset:end])
	return domain.NewRankingPage(content, int64(total), q.Page, q.PageSize)
}

// Rank runs one ranking query against source restricted by filter.
func Rank[T any](ctx context.Context, source domain.RankSource[T], q domain.RankingQuery, filter domain.RankFilter) (domain.RankingPage[T], error) {
	candidates, err := source.FetchCandidates(ctx, filter)
	if err != nil {
		return domain.RankingPage[T]{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.RankingPage[T]{}, err
	}
	return Paginate(Sort(candidates, q.SortType, source), q), nil
}
