package ports

import (
	"context"
	"time"

	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
)

const (
	TopicVoteUpdate    = "vote_update"
	TopicLotteryResult = "lottery_result"
)

type CandidateRepository interface {
	CreateCandidate(ctx context.Context, candidate entities.Candidate) error
	UpdateCandidate(ctx context.Context, candidate entities.Candidate) error
	// DeleteCandidate removes the candidate with its votes and lottery records.
	DeleteCandidate(ctx context.Context, candidateID string) error
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)
	ListCandidates(ctx context.Context) ([]entities.Candidate, error)
}

// VoteAttempt is a vote plus the rules it must pass inside the store's
// transaction.
type VoteAttempt struct {
	Vote            entities.Vote
	IdentityMode    entities.IdentityMode
	MaxVotesPerUser int
}

type VoteReceipt struct {
	Vote           entities.Vote
	Candidate      entities.Candidate
	VoterVoteCount int
}

type VoteRepository interface {
	// RecordVote checks the attempt with services.EvaluateBallot and, if it
	// passes, inserts the vote and increments the candidate counter in one
	// transaction. Attempts from the same voter IP are serialized.
	RecordVote(ctx context.Context, attempt VoteAttempt) (VoteReceipt, error)
	CountVotesByVoter(ctx context.Context, identity entities.VoterIdentity, mode entities.IdentityMode) (int, error)
	ListVotesByVoter(ctx context.Context, identity entities.VoterIdentity, mode entities.IdentityMode) ([]entities.Vote, error)
	ListRecentVotes(ctx context.Context, limit int) ([]entities.Vote, error)
	TallyVotes(ctx context.Context) (entities.VoteTally, error)
	// ResetVotes deletes every vote and zeroes every counter atomically.
	ResetVotes(ctx context.Context) error
	// ReconcileVoteCounters rewrites drifted counters from the ledger and
	// returns what it fixed.
	ReconcileVoteCounters(ctx context.Context) ([]entities.CounterDrift, error)
}

// DrawPlan describes one draw; Pick runs inside the store's transaction on the
// eligible pool.
type DrawPlan struct {
	PrizeName           string
	ExcludePriorWinners bool
	DrawnAt             time.Time
	Pick                func(pool []entities.Candidate) ([]entities.Candidate, error)
	NewRecordID         func() (string, error)
}

type LotteryRepository interface {
	// RecordDraw builds the pool, runs plan.Pick, assigns max(round)+1 and
	// persists one record per winner. Concurrent draws are serialized.
	RecordDraw(ctx context.Context, plan DrawPlan) (entities.DrawResult, error)
	CountEligibleCandidates(ctx context.Context, excludePriorWinners bool) (int, error)
	ListLotteryRecords(ctx context.Context) ([]entities.LotteryRecord, error)
	ListLotteryRecordsByRound(ctx context.Context, round int) ([]entities.LotteryRecord, error)
	ResetLottery(ctx context.Context) error
	GetLotterySettings(ctx context.Context) (entities.LotterySettings, bool, error)
	SaveLotterySettings(ctx context.Context, settings entities.LotterySettings) error
}

type ConfigPatch struct {
	VoteName        *string
	MaxVotesPerUser *int
}

type ConfigRepository interface {
	// GetOrCreateConfig returns the single config row, inserting defaults when
	// absent. Two concurrent first reads must leave exactly one row.
	GetOrCreateConfig(ctx context.Context, defaults entities.VoteConfig) (entities.VoteConfig, error)
	UpdateConfig(ctx context.Context, patch ConfigPatch, defaults entities.VoteConfig, updatedAt time.Time) (entities.VoteConfig, error)
}

// ConfigStore is what the vote ledger reads its cap from.
type ConfigStore interface {
	GetConfig(ctx context.Context) (entities.VoteConfig, error)
}

// Notifier pushes updates to live viewers. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, topic string, payload any) error
}

type RandomSource interface {
	IntN(n int) int
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type CandidateSnapshot struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	PhotoURL    string `json:"photo_url"`
	Description string `json:"description"`
	Votes       int    `json:"votes"`
}

// VoteUpdate is the vote_update payload. VoterVoteCount is set only for
// submissions.
type VoteUpdate struct {
	Reason         string              `json:"reason"`
	Candidates     []CandidateSnapshot `json:"candidates"`
	TotalVotes     int                 `json:"total_votes"`
	VoterVoteCount *int                `json:"voter_vote_count,omitempty"`
}

type LotteryResult struct {
	Round     int                 `json:"round"`
	PrizeName string              `json:"prize_name"`
	Winners   []CandidateSnapshot `json:"winners"`
	DrawnAt   time.Time           `json:"drawn_at"`
}

type Notification struct {
	Topic   string
	Payload any
}
