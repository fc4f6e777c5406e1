package domain

import (
	"context"
	"time"
)

// VoteDelta is the signed change a toggle applies to the aggregate counter
type VoteDelta int64

const (
	VoteUp   VoteDelta = 1
	VoteDown VoteDelta = -1
)

func (d VoteDelta) String() string {
	switch d {
	case VoteUp:
		return "VOTE"
	case VoteDown:
		return "UNVOTE"
	default:
		return "UNKNOWN"
	}
}

// Vote is the ledger row of one user on one novel.
// A row is never deleted; toggling only flips Active.
type Vote struct {
	ID        int64     // Unique identifier
	UserID    int64     // Voter
	NovelID   int64     // Target novel
	Active    bool      // Whether the vote currently counts
	Version   int64     // Bumped on every flip
	CreatedAt time.Time // First toggle
	VotedAt   time.Time // Last toggle
}

// VoteResult is returned by a toggle. VoteCount is the aggregate observed
// inside the toggle's own transaction.
type VoteResult struct {
	NovelID   int64
	VoteCount int64
	IsActive  bool
}

type VoteStats struct {
	NovelID   int64
	VoteCount int64
}

type VoteStatus struct {
	NovelID  int64
	HasVoted bool
	VotedAt  *time.Time
}

// VoteRepository is the Vote Ledger storage.
type VoteRepository interface {
	// Toggle flips the (userID, novelID) vote and applies the matching
	// counter delta as a single atomic unit.
	// Returns ErrConflictRetryable when a concurrent writer won the race,
	// ErrTimeout when ctx expired and ErrStorageUnavailable for other failures.
	Toggle(ctx context.Context, userID, novelID int64, at time.Time) (VoteResult, error)

	// GetVote returns ErrNotFound if the user never toggled this novel.
	GetVote(ctx context.Context, userID, novelID int64) (Vote, error)
}

// VoteCounter is the read side of the Aggregate Counter.
type VoteCounter interface {
	// GetCount returns the last committed count, 0 for novels without votes.
	GetCount(ctx context.Context, novelID int64) (int64, error)
	MGetCounts(ctx context.Context, novelIDs []int64) (map[int64]int64, error)
}

// VoteReconcileRepository detects and repairs drift between the ledger and
// the aggregate counter.
type VoteReconcileRepository interface {
	// FetchAggregateIDs returns novel ids that own an aggregate row, id > cursor, ascending.
	FetchAggregateIDs(ctx context.Context, cursor int64, limit int64) ([]int64, error)
	// CountActiveVotes recounts active ledger rows for the given novels.
	CountActiveVotes(ctx context.Context, novelIDs []int64) (map[int64]int64, error)
	// Repair locks the aggregate row, recounts and overwrites it.
	// Returns the count before and after repair.
	Repair(ctx context.Context, novelID int64) (before int64, after int64, err error)
}

// ToggleThrottle limits how often one user may toggle.
type ToggleThrottle interface {
	Allow(ctx context.Context, userID int64) (bool, error)
}

type VoteUsecase interface {
	ToggleVote(ctx context.Context, userID, novelID int64) (VoteResult, error)
	GetVoteStats(ctx context.Context, novelID int64) (VoteStats, error)
	GetVoteStatus(ctx context.Context, userID, novelID int64) (VoteStatus, error)
}
