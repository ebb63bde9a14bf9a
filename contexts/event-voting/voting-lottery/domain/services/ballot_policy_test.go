package services

import (
	"errors"
	"testing"

	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
)

func TestEvaluateBallotChecksRulesInOrder(t *testing.T) {
	cases := []struct {
		name     string
		snapshot BallotSnapshot
		want     error
	}{
		{
			name:     "missing candidate wins over everything",
			snapshot: BallotSnapshot{AlreadyVoted: true, VoterVoteCount: 9, MaxVotesPerUser: 1},
			want:     domainerrors.ErrCandidateNotFound,
		},
		{
			name:     "duplicate wins over cap",
			snapshot: BallotSnapshot{CandidateFound: true, AlreadyVoted: true, VoterVoteCount: 3, MaxVotesPerUser: 3},
			want:     domainerrors.ErrDuplicateVote,
		},
		{
			name:     "cap reached",
			snapshot: BallotSnapshot{CandidateFound: true, VoterVoteCount: 3, MaxVotesPerUser: 3},
			want:     domainerrors.ErrVoteCapExceeded,
		},
		{
			name:     "under cap",
			snapshot: BallotSnapshot{CandidateFound: true, VoterVoteCount: 2, MaxVotesPerUser: 3},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := EvaluateBallot(tc.snapshot)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestEvaluateBallotTreatsNonPositiveCapAsOne(t *testing.T) {
	err := EvaluateBallot(BallotSnapshot{CandidateFound: true, VoterVoteCount: 1, MaxVotesPerUser: 0})
	var capErr *domainerrors.VoteCapError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected vote cap error, got %v", err)
	}
	if capErr.Cap != 1 || capErr.Count != 1 {
		t.Fatalf("unexpected cap detail: %+v", capErr)
	}
	if err := EvaluateBallot(BallotSnapshot{CandidateFound: true, MaxVotesPerUser: -4}); err != nil {
		t.Fatalf("first vote should pass with clamped cap, got %v", err)
	}
}
