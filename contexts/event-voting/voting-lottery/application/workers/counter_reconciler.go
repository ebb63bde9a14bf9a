package workers

import (
	"context"
	"log/slog"

	application "lanvote/contexts/event-voting/voting-lottery/application"
	"lanvote/contexts/event-voting/voting-lottery/ports"
)

// CounterReconciler rewrites candidate vote counters that disagree with the
// ledger. Submits and resets keep them in step transactionally; this catches
// rows edited out of band.
type CounterReconciler struct {
	Votes  ports.VoteRepository
	Logger *slog.Logger
}

func (r CounterReconciler) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	logger.Debug("vote counter reconcile cycle started",
		"event", "voting_counter_reconcile_started",
		"module", application.ModuleName,
		"layer", "worker",
	)

	drifts, err := r.Votes.ReconcileVoteCounters(ctx)
	if err != nil {
		logger.Error("vote counter reconcile failed",
			"event", "voting_counter_reconcile_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}
	if len(drifts) == 0 {
		logger.Debug("vote counters consistent",
			"event", "voting_counter_reconcile_noop",
			"module", application.ModuleName,
			"layer", "worker",
		)
		return 0, nil
	}

	for _, drift := range drifts {
		logger.Warn("vote counter drift repaired",
			"event", "voting_counter_drift_repaired",
			"module", application.ModuleName,
			"layer", "worker",
			"candidate_id", drift.CandidateID,
			"cached_votes", drift.Cached,
			"ledger_votes", drift.Actual,
		)
	}
	return len(drifts), nil
}
