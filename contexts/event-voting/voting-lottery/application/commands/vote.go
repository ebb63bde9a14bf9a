package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	application "lanvote/contexts/event-voting/voting-lottery/application"
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
	"lanvote/contexts/event-voting/voting-lottery/ports"
)

const maxUserAgentLength = 500

// SubmitVoteCommand is one visitor's vote. Fingerprint may be empty.
type SubmitVoteCommand struct {
	CandidateID string
	VoterIP     string
	Fingerprint string
	UserAgent   string
}

type SubmitVoteResult struct {
	Vote            entities.Vote
	Candidate       entities.Candidate
	VoterVoteCount  int
	MaxVotesPerUser int
}

// VoteUseCase is the write side of the vote ledger. IdentityMode decides how
// voter identities are compared for the duplicate check and the cap; the
// storage uniqueness constraint always uses the exact tuple.
type VoteUseCase struct {
	Votes        ports.VoteRepository
	Candidates   ports.CandidateRepository
	Config       ports.ConfigStore
	Notifier     ports.Notifier
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	IdentityMode entities.IdentityMode
	Logger       *slog.Logger
}

// SubmitVote records a vote after checking, in order, that the candidate
// exists, that the voter has not voted for it, and that the voter is under the
// configured cap. The vote row and the candidate counter commit together; the
// broadcast afterwards is best-effort.
func (uc VoteUseCase) SubmitVote(ctx context.Context, cmd SubmitVoteCommand) (SubmitVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	identity := entities.NewVoterIdentity(cmd.VoterIP, cmd.Fingerprint)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	logger.Info("vote submit processing started",
		"event", "voting_vote_submit_started",
		"module", application.ModuleName,
		"layer", "application",
		"candidate_id", candidateID,
		"voter_ip", identity.IP,
		"has_fingerprint", identity.HasFingerprint(),
	)
	if candidateID == "" || identity.IP == "" {
		logger.Warn("vote submit validation failed",
			"event", "voting_vote_submit_validation_failed",
			"module", application.ModuleName,
			"layer", "application",
			"candidate_id", candidateID,
			"voter_ip", identity.IP,
		)
		return SubmitVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	config, err := uc.Config.GetConfig(ctx)
	if err != nil {
		logger.Error("vote submit config lookup failed",
			"event", "voting_vote_submit_config_failed",
			"module", application.ModuleName,
			"layer", "application",
			"candidate_id", candidateID,
			"error", err.Error(),
		)
		return SubmitVoteResult{}, err
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	receipt, err := uc.Votes.RecordVote(ctx, ports.VoteAttempt{
		Vote: entities.Vote{
			VoteID:            voteID,
			CandidateID:       candidateID,
			VoterIP:           identity.IP,
			DeviceFingerprint: identity.Fingerprint,
			UserAgent:         truncate(strings.TrimSpace(cmd.UserAgent), maxUserAgentLength),
			VotedAt:           uc.now(),
		},
		IdentityMode:    uc.IdentityMode.OrDefault(),
		MaxVotesPerUser: config.EffectiveMaxVotes(),
	})
	if err != nil {
		attrs := []any{
			"event", "voting_vote_submit_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"candidate_id", candidateID,
			"voter_ip", identity.IP,
			"kind", string(domainerrors.KindOf(err)),
			"error", err.Error(),
		}
		var capErr *domainerrors.VoteCapError
		if errors.As(err, &capErr) {
			attrs = append(attrs, "cap", capErr.Cap, "count", capErr.Count)
		}
		if domainerrors.KindOf(err) == domainerrors.KindStorage {
			logger.Error("vote submit failed", attrs...)
		} else {
			logger.Warn("vote submit rejected", attrs...)
		}
		return SubmitVoteResult{}, err
	}

	logger.Info("vote submitted",
		"event", "voting_vote_submitted",
		"module", application.ModuleName,
		"layer", "application",
		"vote_id", receipt.Vote.VoteID,
		"candidate_id", receipt.Candidate.CandidateID,
		"candidate_votes", receipt.Candidate.Votes,
		"voter_vote_count", receipt.VoterVoteCount,
	)
	voterCount := receipt.VoterVoteCount
	notifyVoteUpdate(ctx, uc.Notifier, uc.Candidates, logger, "vote_submitted", &voterCount)

	return SubmitVoteResult{
		Vote:            receipt.Vote,
		Candidate:       receipt.Candidate,
		VoterVoteCount:  receipt.VoterVoteCount,
		MaxVotesPerUser: config.EffectiveMaxVotes(),
	}, nil
}

// ResetVotes clears the ledger and every counter in one transaction, then
// broadcasts the cleared board.
func (uc VoteUseCase) ResetVotes(ctx context.Context) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.Votes.ResetVotes(ctx); err != nil {
		logger.Error("vote reset failed",
			"event", "voting_votes_reset_failed",
			"module", application.ModuleName,
			"layer", "application",
			"error", err.Error(),
		)
		return err
	}
	logger.Info("votes reset",
		"event", "voting_votes_reset",
		"module", application.ModuleName,
		"layer", "application",
	)
	notifyVoteUpdate(ctx, uc.Notifier, uc.Candidates, logger, "votes_reset", nil)
	return nil
}

func (uc VoteUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := value[:limit]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
