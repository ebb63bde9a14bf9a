package entities

import "time"

const (
	DefaultVoteName        = "投票活动"
	DefaultMaxVotesPerUser = 1
)

type VoteConfig struct {
	VoteName        string
	MaxVotesPerUser int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func DefaultVoteConfig(now time.Time) VoteConfig {
	return VoteConfig{
		VoteName:        DefaultVoteName,
		MaxVotesPerUser: DefaultMaxVotesPerUser,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
}

// EffectiveMaxVotes never lets a corrupt row disable the cap.
func (c VoteConfig) EffectiveMaxVotes() int {
	if c.MaxVotesPerUser < 1 {
		return DefaultMaxVotesPerUser
	}
	return c.MaxVotesPerUser
}
