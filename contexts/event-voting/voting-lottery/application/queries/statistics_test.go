package queries

import (
	"context"
	"testing"
	"time"

	"lanvote/contexts/event-voting/voting-lottery/adapters/memory"
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
)

// staleTally reports a ledger that moved on since the candidate list was read.
type staleTally struct {
	*memory.Store
	tally entities.VoteTally
}

func (s staleTally) TallyVotes(context.Context) (entities.VoteTally, error) {
	return s.tally, nil
}

type fixedConfig struct {
	config entities.VoteConfig
}

func (f fixedConfig) GetConfig(context.Context) (entities.VoteConfig, error) {
	return f.config, nil
}

func TestStatisticsTotalMatchesCandidateBreakdown(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Candidate{
		{CandidateID: "a", Name: "A", Votes: 4, CreatedAt: now},
		{CandidateID: "b", Name: "B", Votes: 1, CreatedAt: now},
	})
	uc := StatisticsUseCase{
		Candidates:      store,
		Votes:           staleTally{Store: store, tally: entities.VoteTally{TotalVotes: 9, UniqueVoters: 3}},
		Config:          fixedConfig{config: entities.DefaultVoteConfig(now)},
		EstimatedVoters: 10,
	}

	stats, err := uc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if stats.TotalVotes != 5 {
		t.Fatalf("expected total from candidate counters (5), got %d", stats.TotalVotes)
	}
	if stats.UniqueVoters != 3 {
		t.Fatalf("expected unique voters from ledger, got %d", stats.UniqueVoters)
	}
	if stats.AverageVotesPerCandidate != 2.5 {
		t.Fatalf("expected average 2.5, got %v", stats.AverageVotesPerCandidate)
	}
	if stats.TopCandidate == nil || stats.TopCandidate.CandidateID != "a" {
		t.Fatalf("unexpected top candidate: %+v", stats.TopCandidate)
	}
}
