package services

import (
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
)

// IntSource yields uniform integers in [0, n).
type IntSource interface {
	IntN(n int) int
}

// EligiblePool removes prior winners from the candidate list when requested.
func EligiblePool(candidates []entities.Candidate, priorWinners map[string]struct{}, excludePriorWinners bool) []entities.Candidate {
	pool := make([]entities.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if excludePriorWinners {
			if _, won := priorWinners[candidate.CandidateID]; won {
				continue
			}
		}
		pool = append(pool, candidate)
	}
	return pool
}

// DrawWinners samples count distinct candidates from pool without replacement.
// It runs a partial Fisher-Yates shuffle on a copy, so every size-count subset
// is equally likely and pool is left untouched.
func DrawWinners(pool []entities.Candidate, count int, source IntSource) ([]entities.Candidate, error) {
	if count < 1 {
		return nil, domainerrors.ErrInvalidDrawRequest
	}
	if len(pool) == 0 {
		return nil, domainerrors.ErrEmptyPool
	}
	if count > len(pool) {
		return nil, &domainerrors.InsufficientPoolError{
			Requested: count,
			Available: len(pool),
		}
	}

	shuffled := append([]entities.Candidate(nil), pool...)
	for i := 0; i < count; i++ {
		j := i + source.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:count], nil
}
