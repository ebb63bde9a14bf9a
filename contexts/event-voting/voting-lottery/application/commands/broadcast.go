package commands

import (
	"context"
	"log/slog"

	application "lanvote/contexts/event-voting/voting-lottery/application"
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	"lanvote/contexts/event-voting/voting-lottery/ports"
)

// notifyVoteUpdate sends the current candidate board. It runs after commit and
// only logs failures: the write it follows has already succeeded.
func notifyVoteUpdate(
	ctx context.Context,
	notifier ports.Notifier,
	candidates ports.CandidateRepository,
	logger *slog.Logger,
	reason string,
	voterVoteCount *int,
) {
	if notifier == nil || candidates == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	items, err := candidates.ListCandidates(ctx)
	if err != nil {
		logger.Warn("vote update snapshot failed",
			"event", "voting_broadcast_snapshot_failed",
			"module", application.ModuleName,
			"layer", "application",
			"reason", reason,
			"error", err.Error(),
		)
		return
	}
	total := 0
	for _, item := range items {
		total += item.Votes
	}
	notify(ctx, notifier, logger, ports.TopicVoteUpdate, ports.VoteUpdate{
		Reason:         reason,
		Candidates:     snapshotCandidates(items),
		TotalVotes:     total,
		VoterVoteCount: voterVoteCount,
	})
}

func notify(ctx context.Context, notifier ports.Notifier, logger *slog.Logger, topic string, payload any) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(context.WithoutCancel(ctx), topic, payload); err != nil {
		logger.Warn("broadcast notify failed",
			"event", "voting_broadcast_failed",
			"module", application.ModuleName,
			"layer", "application",
			"topic", topic,
			"error", err.Error(),
		)
	}
}

func snapshotCandidates(items []entities.Candidate) []ports.CandidateSnapshot {
	snapshots := make([]ports.CandidateSnapshot, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, ports.CandidateSnapshot{
			CandidateID: item.CandidateID,
			Name:        item.Name,
			PhotoURL:    item.PhotoURL(),
			Description: item.Description,
			Votes:       item.Votes,
		})
	}
	return snapshots
}
