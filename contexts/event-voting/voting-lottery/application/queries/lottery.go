package queries

import (
	"context"

	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
	"lanvote/contexts/event-voting/voting-lottery/ports"
)

type LotteryQueries struct {
	Lottery ports.LotteryRepository
}

// AvailableCount is the size of the pool a draw would use right now.
func (q LotteryQueries) AvailableCount(ctx context.Context, excludePriorWinners bool) (int, error) {
	return q.Lottery.CountEligibleCandidates(ctx, excludePriorWinners)
}

// History returns every record, most recent round first.
func (q LotteryQueries) History(ctx context.Context) ([]entities.LotteryRecord, error) {
	records, err := q.Lottery.ListLotteryRecords(ctx)
	if err != nil {
		return nil, err
	}
	entities.SortLotteryHistory(records)
	return records, nil
}

func (q LotteryQueries) Round(ctx context.Context, round int) ([]entities.LotteryRecord, error) {
	if round < 1 {
		return nil, domainerrors.ErrInvalidRound
	}
	records, err := q.Lottery.ListLotteryRecordsByRound(ctx, round)
	if err != nil {
		return nil, err
	}
	entities.SortLotteryHistory(records)
	return records, nil
}

func (q LotteryQueries) Settings(ctx context.Context) (entities.LotterySettings, error) {
	settings, found, err := q.Lottery.GetLotterySettings(ctx)
	if err != nil {
		return entities.LotterySettings{}, err
	}
	if !found {
		return entities.DefaultLotterySettings(), nil
	}
	return settings, nil
}
