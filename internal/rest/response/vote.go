package response

import (
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

const timeLayout = "2006-01-02 15:04:05"

type VoteResult struct {
	NovelID   int64 `json:"novelId"`
	VoteCount int64 `json:"voteCount"`
	IsActive  bool  `json:"isActive"`
}

func NewVoteResultFromDomain(r domain.VoteResult) VoteResult {
	return VoteResult{
		NovelID:   r.NovelID,
		VoteCount: r.VoteCount,
		IsActive:  r.IsActive,
	}
}

type VoteStats struct {
	NovelID   int64 `json:"novelId"`
	VoteCount int64 `json:"voteCount"`
}

func NewVoteStatsFromDomain(s domain.VoteStats) VoteStats {
	return VoteStats{NovelID: s.NovelID, VoteCount: s.VoteCount}
}

type VoteStatus struct {
	NovelID  int64   `json:"novelId"`
	HasVoted bool    `json:"hasVoted"`
	VotedAt  *string `json:"votedAt"` // null unless HasVoted
}

func NewVoteStatusFromDomain(s domain.VoteStatus) VoteStatus {
	res := VoteStatus{NovelID: s.NovelID, HasVoted: s.HasVoted}
	if s.VotedAt != nil {
		t := s.VotedAt.Format(timeLayout)
		res.VotedAt = &t
	}
	return res
}
