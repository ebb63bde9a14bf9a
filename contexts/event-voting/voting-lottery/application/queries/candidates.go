package queries

import (
	"context"
	"strings"

	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
	"lanvote/contexts/event-voting/voting-lottery/ports"
)

type CandidateQueries struct {
	Candidates ports.CandidateRepository
}

func (q CandidateQueries) ListCandidates(ctx context.Context) ([]entities.Candidate, error) {
	items, err := q.Candidates.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	entities.SortCandidatesByCreation(items)
	return items, nil
}

func (q CandidateQueries) GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error) {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return q.Candidates.GetCandidate(ctx, candidateID)
}
