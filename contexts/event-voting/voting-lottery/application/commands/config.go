package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	application "lanvote/contexts/event-voting/voting-lottery/application"
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
	"lanvote/contexts/event-voting/voting-lottery/ports"

	"golang.org/x/sync/singleflight"
)

const maxVoteNameLength = 100

// UpdateConfigCommand applies only the non-nil fields.
type UpdateConfigCommand struct {
	VoteName        *string
	MaxVotesPerUser *int
}

// ConfigUseCase is the configuration store. It satisfies ports.ConfigStore so
// it can be injected into the vote ledger.
//
// The storage adapter makes create-on-miss race-safe; Flight only coalesces
// concurrent reads inside one process.
type ConfigUseCase struct {
	Configs ports.ConfigRepository
	Clock   ports.Clock
	Flight  *singleflight.Group
	Logger  *slog.Logger
}

func (uc ConfigUseCase) GetConfig(ctx context.Context) (entities.VoteConfig, error) {
	if uc.Flight == nil {
		return uc.loadConfig(ctx)
	}
	// The load is shared with other waiters, so one caller's cancellation
	// must not fail theirs.
	shared := context.WithoutCancel(ctx)
	value, err, _ := uc.Flight.Do("vote_config", func() (any, error) {
		return uc.loadConfig(shared)
	})
	if err != nil {
		return entities.VoteConfig{}, err
	}
	return value.(entities.VoteConfig), nil
}

func (uc ConfigUseCase) UpdateConfig(ctx context.Context, cmd UpdateConfigCommand) (entities.VoteConfig, error) {
	logger := application.ResolveLogger(uc.Logger)
	patch := ports.ConfigPatch{}
	if cmd.VoteName != nil {
		name := strings.TrimSpace(*cmd.VoteName)
		if name == "" || utf8.RuneCountInString(name) > maxVoteNameLength {
			return entities.VoteConfig{}, domainerrors.ErrInvalidConfig
		}
		patch.VoteName = &name
	}
	if cmd.MaxVotesPerUser != nil {
		if *cmd.MaxVotesPerUser < 1 {
			return entities.VoteConfig{}, domainerrors.ErrInvalidConfig
		}
		maxVotes := *cmd.MaxVotesPerUser
		patch.MaxVotesPerUser = &maxVotes
	}

	now := uc.now()
	config, err := uc.Configs.UpdateConfig(ctx, patch, entities.DefaultVoteConfig(now), now)
	if err != nil {
		logger.Error("vote config update failed",
			"event", "voting_config_update_failed",
			"module", application.ModuleName,
			"layer", "application",
			"error", err.Error(),
		)
		return entities.VoteConfig{}, err
	}
	logger.Info("vote config updated",
		"event", "voting_config_updated",
		"module", application.ModuleName,
		"layer", "application",
		"vote_name", config.VoteName,
		"max_votes_per_user", config.MaxVotesPerUser,
	)
	return config, nil
}

func (uc ConfigUseCase) loadConfig(ctx context.Context) (entities.VoteConfig, error) {
	config, err := uc.Configs.GetOrCreateConfig(ctx, entities.DefaultVoteConfig(uc.now()))
	if err != nil {
		application.ResolveLogger(uc.Logger).Error("vote config load failed",
			"event", "voting_config_load_failed",
			"module", application.ModuleName,
			"layer", "application",
			"error", err.Error(),
		)
		return entities.VoteConfig{}, err
	}
	return config, nil
}

func (uc ConfigUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

var _ ports.ConfigStore = ConfigUseCase{}
