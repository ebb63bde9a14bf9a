package services

import (
	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
)

// BallotSnapshot is what a store observed for one vote attempt while holding
// the voter's lock.
type BallotSnapshot struct {
	CandidateFound  bool
	AlreadyVoted    bool
	VoterVoteCount  int
	MaxVotesPerUser int
}

// EvaluateBallot applies the submission rules in order: the candidate must
// exist, the voter must not have voted for it, and the voter must be under the
// cap.
func EvaluateBallot(snapshot BallotSnapshot) error {
	if !snapshot.CandidateFound {
		return domainerrors.ErrCandidateNotFound
	}
	if snapshot.AlreadyVoted {
		return domainerrors.ErrDuplicateVote
	}
	limit := snapshot.MaxVotesPerUser
	if limit < 1 {
		limit = 1
	}
	if snapshot.VoterVoteCount >= limit {
		return &domainerrors.VoteCapError{
			Cap:   limit,
			Count: snapshot.VoterVoteCount,
		}
	}
	return nil
}
