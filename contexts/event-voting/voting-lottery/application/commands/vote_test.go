package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"lanvote/contexts/event-voting/voting-lottery/adapters/memory"
	"lanvote/contexts/event-voting/voting-lottery/application/commands"
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
)

type fixedConfig struct {
	config entities.VoteConfig
	err    error
}

func (f fixedConfig) GetConfig(context.Context) (entities.VoteConfig, error) {
	return f.config, f.err
}

func newVoteUseCase(store *memory.Store, config fixedConfig) commands.VoteUseCase {
	return commands.VoteUseCase{
		Votes:      store,
		Candidates: store,
		Config:     config,
		Notifier:   store,
		Clock:      store,
		IDGen:      store,
	}
}

func TestSubmitVoteReadsCapFromInjectedConfigStore(t *testing.T) {
	now := time.Now().UTC()
	store := memory.NewStore([]entities.Candidate{
		{CandidateID: "c1", Name: "One", CreatedAt: now},
		{CandidateID: "c2", Name: "Two", CreatedAt: now},
		{CandidateID: "c3", Name: "Three", CreatedAt: now},
	})
	useCase := newVoteUseCase(store, fixedConfig{config: entities.VoteConfig{MaxVotesPerUser: 2}})
	ctx := context.Background()

	for _, candidateID := range []string{"c1", "c2"} {
		result, err := useCase.SubmitVote(ctx, commands.SubmitVoteCommand{CandidateID: candidateID, VoterIP: "10.0.0.9"})
		if err != nil {
			t.Fatalf("vote for %s failed: %v", candidateID, err)
		}
		if result.MaxVotesPerUser != 2 {
			t.Fatalf("expected cap 2 from config store, got %d", result.MaxVotesPerUser)
		}
	}
	_, err := useCase.SubmitVote(ctx, commands.SubmitVoteCommand{CandidateID: "c3", VoterIP: "10.0.0.9"})
	if !errors.Is(err, domainerrors.ErrVoteCapExceeded) {
		t.Fatalf("expected cap exceeded, got %v", err)
	}
	if store.ConfigCreates() != 0 {
		t.Fatalf("use case must not touch the config table directly")
	}
}

func TestSubmitVoteFailsWhenConfigUnavailable(t *testing.T) {
	store := memory.NewStore([]entities.Candidate{{CandidateID: "c1", Name: "One"}})
	configErr := domainerrors.StorageFailure(errors.New("connection refused"))
	useCase := newVoteUseCase(store, fixedConfig{err: configErr})

	_, err := useCase.SubmitVote(context.Background(), commands.SubmitVoteCommand{CandidateID: "c1", VoterIP: "10.0.0.9"})
	if domainerrors.KindOf(err) != domainerrors.KindStorage {
		t.Fatalf("expected storage failure, got %v", err)
	}
	tally, _ := store.TallyVotes(context.Background())
	if tally.TotalVotes != 0 {
		t.Fatalf("no vote should be recorded, got %d", tally.TotalVotes)
	}
	if len(store.Notifications()) != 0 {
		t.Fatalf("failed submit must not broadcast")
	}
}

func TestSubmitVoteTruncatesLongUserAgent(t *testing.T) {
	store := memory.NewStore([]entities.Candidate{{CandidateID: "c1", Name: "One"}})
	useCase := newVoteUseCase(store, fixedConfig{config: entities.VoteConfig{MaxVotesPerUser: 1}})

	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a'
	}
	result, err := useCase.SubmitVote(context.Background(), commands.SubmitVoteCommand{
		CandidateID: "c1",
		VoterIP:     "10.0.0.9",
		UserAgent:   string(long),
	})
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if len(result.Vote.UserAgent) >= len(long) {
		t.Fatalf("expected truncated user agent, got %d bytes", len(result.Vote.UserAgent))
	}
}
