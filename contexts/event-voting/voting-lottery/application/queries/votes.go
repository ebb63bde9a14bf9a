package queries

import (
	"context"

	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	"lanvote/contexts/event-voting/voting-lottery/ports"
)

const (
	defaultRecentVotesLimit = 10
	maxRecentVotesLimit     = 100
)

// VoterQueries answers per-voter questions using the same IdentityMode as the
// ledger's submit path.
type VoterQueries struct {
	Votes        ports.VoteRepository
	Config       ports.ConfigStore
	IdentityMode entities.IdentityMode
}

func (q VoterQueries) HasVoted(ctx context.Context, ip string, fingerprint string) (bool, error) {
	count, err := q.VoteCount(ctx, ip, fingerprint)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (q VoterQueries) VoteCount(ctx context.Context, ip string, fingerprint string) (int, error) {
	identity := entities.NewVoterIdentity(ip, fingerprint)
	if identity.IP == "" {
		return 0, nil
	}
	return q.Votes.CountVotesByVoter(ctx, identity, q.IdentityMode.OrDefault())
}

func (q VoterQueries) VoterStatus(ctx context.Context, ip string, fingerprint string) (entities.VoterStatus, error) {
	count, err := q.VoteCount(ctx, ip, fingerprint)
	if err != nil {
		return entities.VoterStatus{}, err
	}
	config, err := q.Config.GetConfig(ctx)
	if err != nil {
		return entities.VoterStatus{}, err
	}
	return entities.VoterStatus{
		HasVoted:        count > 0,
		VoteCount:       count,
		MaxVotesPerUser: config.EffectiveMaxVotes(),
	}, nil
}

// MyVotes lists the distinct candidate names a voter has voted for.
func (q VoterQueries) MyVotes(ctx context.Context, ip string, fingerprint string) (entities.VoterVotes, error) {
	identity := entities.NewVoterIdentity(ip, fingerprint)
	if identity.IP == "" {
		return entities.VoterVotes{CandidateNames: []string{}}, nil
	}
	votes, err := q.Votes.ListVotesByVoter(ctx, identity, q.IdentityMode.OrDefault())
	if err != nil {
		return entities.VoterVotes{}, err
	}
	seen := make(map[string]struct{}, len(votes))
	names := make([]string, 0, len(votes))
	for _, vote := range votes {
		if _, ok := seen[vote.CandidateName]; ok {
			continue
		}
		seen[vote.CandidateName] = struct{}{}
		names = append(names, vote.CandidateName)
	}
	return entities.VoterVotes{
		CandidateNames: names,
		VoteCount:      len(votes),
	}, nil
}

func (q VoterQueries) RecentVotes(ctx context.Context, limit int) ([]entities.Vote, error) {
	if limit <= 0 {
		limit = defaultRecentVotesLimit
	}
	if limit > maxRecentVotesLimit {
		limit = maxRecentVotesLimit
	}
	return q.Votes.ListRecentVotes(ctx, limit)
}
