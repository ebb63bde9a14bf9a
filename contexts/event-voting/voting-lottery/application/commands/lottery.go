package commands

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	application "lanvote/contexts/event-voting/voting-lottery/application"
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
	"lanvote/contexts/event-voting/voting-lottery/domain/services"
	"lanvote/contexts/event-voting/voting-lottery/ports"
)

type DrawCommand struct {
	Count               int
	PrizeName           string
	ExcludePriorWinners bool
}

type SaveLotterySettingsCommand struct {
	Count          int
	PrizeName      string
	ExcludeWinners bool
	Rounds         int
}

// LotteryUseCase is the write side of the lottery engine. The round counter is
// never cached: every draw derives it from persisted records.
type LotteryUseCase struct {
	Lottery  ports.LotteryRepository
	Notifier ports.Notifier
	Random   ports.RandomSource
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc LotteryUseCase) Draw(ctx context.Context, cmd DrawCommand) (entities.DrawResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	prizeName := strings.TrimSpace(cmd.PrizeName)
	logger.Info("lottery draw started",
		"event", "voting_lottery_draw_started",
		"module", application.ModuleName,
		"layer", "application",
		"count", cmd.Count,
		"prize_name", prizeName,
		"exclude_prior_winners", cmd.ExcludePriorWinners,
	)
	if cmd.Count < 1 || prizeName == "" {
		logger.Warn("lottery draw validation failed",
			"event", "voting_lottery_draw_validation_failed",
			"module", application.ModuleName,
			"layer", "application",
			"count", cmd.Count,
			"prize_name", prizeName,
		)
		return entities.DrawResult{}, domainerrors.ErrInvalidDrawRequest
	}

	random := uc.random()
	result, err := uc.Lottery.RecordDraw(ctx, ports.DrawPlan{
		PrizeName:           prizeName,
		ExcludePriorWinners: cmd.ExcludePriorWinners,
		DrawnAt:             uc.now(),
		Pick: func(pool []entities.Candidate) ([]entities.Candidate, error) {
			return services.DrawWinners(pool, cmd.Count, random)
		},
		NewRecordID: func() (string, error) {
			return uc.IDGen.NewID(ctx)
		},
	})
	if err != nil {
		attrs := []any{
			"event", "voting_lottery_draw_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"count", cmd.Count,
			"kind", string(domainerrors.KindOf(err)),
			"error", err.Error(),
		}
		if domainerrors.KindOf(err) == domainerrors.KindStorage {
			logger.Error("lottery draw failed", attrs...)
		} else {
			logger.Warn("lottery draw rejected", attrs...)
		}
		return entities.DrawResult{}, err
	}

	winnerIDs := make([]string, 0, len(result.Winners))
	for _, winner := range result.Winners {
		winnerIDs = append(winnerIDs, winner.CandidateID)
	}
	logger.Info("lottery draw completed",
		"event", "voting_lottery_draw_completed",
		"module", application.ModuleName,
		"layer", "application",
		"round", result.Round,
		"prize_name", result.PrizeName,
		"winner_ids", winnerIDs,
	)
	notify(ctx, uc.Notifier, logger, ports.TopicLotteryResult, ports.LotteryResult{
		Round:     result.Round,
		PrizeName: result.PrizeName,
		Winners:   snapshotCandidates(result.Winners),
		DrawnAt:   result.DrawnAt,
	})
	return result, nil
}

// ResetLottery deletes all lottery records so the next draw is round 1.
func (uc LotteryUseCase) ResetLottery(ctx context.Context) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.Lottery.ResetLottery(ctx); err != nil {
		logger.Error("lottery reset failed",
			"event", "voting_lottery_reset_failed",
			"module", application.ModuleName,
			"layer", "application",
			"error", err.Error(),
		)
		return err
	}
	logger.Info("lottery reset",
		"event", "voting_lottery_reset",
		"module", application.ModuleName,
		"layer", "application",
	)
	return nil
}

func (uc LotteryUseCase) SaveSettings(ctx context.Context, cmd SaveLotterySettingsCommand) (entities.LotterySettings, error) {
	prizeName := strings.TrimSpace(cmd.PrizeName)
	if cmd.Count < 1 || cmd.Rounds < 1 || prizeName == "" {
		return entities.LotterySettings{}, domainerrors.ErrInvalidSettings
	}
	settings := entities.LotterySettings{
		Count:          cmd.Count,
		PrizeName:      prizeName,
		ExcludeWinners: cmd.ExcludeWinners,
		Rounds:         cmd.Rounds,
		UpdatedAt:      uc.now(),
	}
	if err := uc.Lottery.SaveLotterySettings(ctx, settings); err != nil {
		return entities.LotterySettings{}, err
	}
	application.ResolveLogger(uc.Logger).Info("lottery settings saved",
		"event", "voting_lottery_settings_saved",
		"module", application.ModuleName,
		"layer", "application",
		"count", settings.Count,
		"rounds", settings.Rounds,
	)
	return settings, nil
}

func (uc LotteryUseCase) random() ports.RandomSource {
	if uc.Random == nil {
		return globalRandom{}
	}
	return uc.Random
}

func (uc LotteryUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

// globalRandom draws from the process-wide math/rand/v2 source, which is safe
// for concurrent use.
type globalRandom struct{}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}
