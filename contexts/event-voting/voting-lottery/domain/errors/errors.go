package errors

import (
	"errors"
	"fmt"
)

var (
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrCandidateNameTaken   = errors.New("candidate name already exists")
	ErrInvalidCandidate     = errors.New("invalid candidate input")
	ErrInvalidVoteInput     = errors.New("invalid vote input")
	ErrDuplicateVote        = errors.New("already voted for this candidate")
	ErrVoteCapExceeded      = errors.New("vote limit reached")
	ErrInvalidDrawRequest   = errors.New("invalid lottery draw request")
	ErrInvalidRound         = errors.New("invalid lottery round")
	ErrInvalidSettings      = errors.New("invalid lottery settings")
	ErrEmptyPool            = errors.New("no eligible candidates for lottery")
	ErrInsufficientPool     = errors.New("not enough eligible candidates for lottery")
	ErrInvalidConfig        = errors.New("invalid vote config")
	ErrStorageFailure       = errors.New("storage operation failed")
	ErrRepositoryInvariants = errors.New("repository invariant violated")
)

// VoteCapError carries the cap and the voter's current count.
type VoteCapError struct {
	Cap   int
	Count int
}

func (e *VoteCapError) Error() string {
	return fmt.Sprintf("%s: %d of %d votes used", ErrVoteCapExceeded.Error(), e.Count, e.Cap)
}

func (e *VoteCapError) Unwrap() error {
	return ErrVoteCapExceeded
}

// InsufficientPoolError carries the eligible pool size seen at draw time.
type InsufficientPoolError struct {
	Requested int
	Available int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("%s: requested %d, only %d available", ErrInsufficientPool.Error(), e.Requested, e.Available)
}

func (e *InsufficientPoolError) Unwrap() error {
	return ErrInsufficientPool
}

// StorageFailure wraps a driver error so callers can match ErrStorageFailure
// while the cause stays inspectable.
func StorageFailure(err error) error {
	if err == nil || errors.Is(err, ErrStorageFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}

type Kind string

const (
	KindNone             Kind = ""
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindLimitExceeded    Kind = "limit_exceeded"
	KindEmptyPool        Kind = "empty_pool"
	KindInsufficientPool Kind = "insufficient_pool"
	KindValidation       Kind = "validation_error"
	KindStorage          Kind = "storage_failure"
	KindUnknown          Kind = "unknown"
)

// KindOf classifies an error returned by this module.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCandidateNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateVote),
		errors.Is(err, ErrCandidateNameTaken):
		return KindConflict
	case errors.Is(err, ErrVoteCapExceeded):
		return KindLimitExceeded
	case errors.Is(err, ErrEmptyPool):
		return KindEmptyPool
	case errors.Is(err, ErrInsufficientPool):
		return KindInsufficientPool
	case errors.Is(err, ErrInvalidCandidate),
		errors.Is(err, ErrInvalidVoteInput),
		errors.Is(err, ErrInvalidDrawRequest),
		errors.Is(err, ErrInvalidRound),
		errors.Is(err, ErrInvalidSettings),
		errors.Is(err, ErrInvalidConfig):
		return KindValidation
	case errors.Is(err, ErrStorageFailure),
		errors.Is(err, ErrRepositoryInvariants):
		return KindStorage
	default:
		return KindUnknown
	}
}
