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
)

const (
	maxCandidateNameLength = 100
	maxPhotoPathLength     = 500
)

type CreateCandidateCommand struct {
	Name        string
	PhotoPath   string
	Description string
}

// UpdateCandidateCommand applies only the non-nil fields.
type UpdateCandidateCommand struct {
	CandidateID string
	Name        *string
	PhotoPath   *string
	Description *string
}

// CandidateUseCase is the write side of the candidate registry.
type CandidateUseCase struct {
	Candidates ports.CandidateRepository
	Notifier   ports.Notifier
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CandidateUseCase) CreateCandidate(ctx context.Context, cmd CreateCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	name := strings.TrimSpace(cmd.Name)
	photoPath := strings.TrimSpace(cmd.PhotoPath)
	if err := validateCandidateFields(name, photoPath); err != nil {
		logger.Warn("candidate create validation failed",
			"event", "voting_candidate_create_validation_failed",
			"module", application.ModuleName,
			"layer", "application",
			"name", name,
		)
		return entities.Candidate{}, err
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	now := uc.now()
	candidate := entities.Candidate{
		CandidateID: candidateID,
		Name:        name,
		PhotoPath:   photoPath,
		Description: strings.TrimSpace(cmd.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Candidates.CreateCandidate(ctx, candidate); err != nil {
		logger.Warn("candidate create failed",
			"event", "voting_candidate_create_failed",
			"module", application.ModuleName,
			"layer", "application",
			"name", name,
			"error", err.Error(),
		)
		return entities.Candidate{}, err
	}

	logger.Info("candidate created",
		"event", "voting_candidate_created",
		"module", application.ModuleName,
		"layer", "application",
		"candidate_id", candidate.CandidateID,
		"name", candidate.Name,
	)
	notifyVoteUpdate(ctx, uc.Notifier, uc.Candidates, logger, "candidate_created", nil)
	return candidate, nil
}

func (uc CandidateUseCase) UpdateCandidate(ctx context.Context, cmd UpdateCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	if candidateID == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidCandidate
	}

	candidate, err := uc.Candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return entities.Candidate{}, err
	}
	if cmd.Name != nil {
		candidate.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.PhotoPath != nil {
		candidate.PhotoPath = strings.TrimSpace(*cmd.PhotoPath)
	}
	if cmd.Description != nil {
		candidate.Description = strings.TrimSpace(*cmd.Description)
	}
	if err := validateCandidateFields(candidate.Name, candidate.PhotoPath); err != nil {
		return entities.Candidate{}, err
	}
	candidate.UpdatedAt = uc.now()

	if err := uc.Candidates.UpdateCandidate(ctx, candidate); err != nil {
		logger.Warn("candidate update failed",
			"event", "voting_candidate_update_failed",
			"module", application.ModuleName,
			"layer", "application",
			"candidate_id", candidateID,
			"error", err.Error(),
		)
		return entities.Candidate{}, err
	}

	logger.Info("candidate updated",
		"event", "voting_candidate_updated",
		"module", application.ModuleName,
		"layer", "application",
		"candidate_id", candidateID,
	)
	notifyVoteUpdate(ctx, uc.Notifier, uc.Candidates, logger, "candidate_updated", nil)
	return candidate, nil
}

// DeleteCandidate removes the candidate together with its votes and lottery
// records.
func (uc CandidateUseCase) DeleteCandidate(ctx context.Context, candidateID string) error {
	logger := application.ResolveLogger(uc.Logger)
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return domainerrors.ErrInvalidCandidate
	}
	if err := uc.Candidates.DeleteCandidate(ctx, candidateID); err != nil {
		return err
	}

	logger.Info("candidate deleted",
		"event", "voting_candidate_deleted",
		"module", application.ModuleName,
		"layer", "application",
		"candidate_id", candidateID,
	)
	notifyVoteUpdate(ctx, uc.Notifier, uc.Candidates, logger, "candidate_deleted", nil)
	return nil
}

func (uc CandidateUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func validateCandidateFields(name string, photoPath string) error {
	if name == "" || utf8.RuneCountInString(name) > maxCandidateNameLength {
		return domainerrors.ErrInvalidCandidate
	}
	if len(photoPath) > maxPhotoPathLength {
		return domainerrors.ErrInvalidCandidate
	}
	return nil
}
