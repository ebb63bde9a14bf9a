package queries

import (
	"context"
	"math"

	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	"lanvote/contexts/event-voting/voting-lottery/ports"
)

const DefaultEstimatedVoters = 100

// StatisticsUseCase builds the vote board summary.
//
// CompletionRateEstimate divides total votes by EstimatedVoters times the cap.
// EstimatedVoters is an operator guess, not a measured population, so the rate
// is a heuristic for display only.
//
// TotalVotes is summed from the same candidate snapshot as the breakdown, so the
// two always agree. UniqueVoters comes from a separate ledger read and is
// point-in-time under concurrent writes.
type StatisticsUseCase struct {
	Candidates      ports.CandidateRepository
	Votes           ports.VoteRepository
	Config          ports.ConfigStore
	EstimatedVoters int
}

func (uc StatisticsUseCase) Statistics(ctx context.Context) (entities.VoteStatistics, error) {
	tally, err := uc.Votes.TallyVotes(ctx)
	if err != nil {
		return entities.VoteStatistics{}, err
	}
	candidates, err := uc.Candidates.ListCandidates(ctx)
	if err != nil {
		return entities.VoteStatistics{}, err
	}
	config, err := uc.Config.GetConfig(ctx)
	if err != nil {
		return entities.VoteStatistics{}, err
	}

	entities.SortCandidatesByVotes(candidates)
	totalVotes := 0
	for _, candidate := range candidates {
		totalVotes += candidate.Votes
	}
	stats := entities.VoteStatistics{
		TotalVotes:      totalVotes,
		TotalCandidates: len(candidates),
		UniqueVoters:    tally.UniqueVoters,
		MaxVotesPerUser: config.EffectiveMaxVotes(),
		EstimatedVoters: uc.estimatedVoters(),
		Candidates:      candidates,
	}
	if len(candidates) > 0 {
		top := candidates[0]
		stats.TopCandidate = &top
		stats.AverageVotesPerCandidate = roundOneDecimal(float64(totalVotes) / float64(len(candidates)))
	}
	maxPossible := stats.EstimatedVoters * stats.MaxVotesPerUser
	if maxPossible > 0 {
		stats.CompletionRateEstimate = roundOneDecimal(float64(totalVotes) / float64(maxPossible) * 100)
	}
	return stats, nil
}

func (uc StatisticsUseCase) estimatedVoters() int {
	if uc.EstimatedVoters <= 0 {
		return DefaultEstimatedVoters
	}
	return uc.EstimatedVoters
}

func roundOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}
