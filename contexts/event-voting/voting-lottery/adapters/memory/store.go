package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
	"lanvote/contexts/event-voting/voting-lottery/domain/services"
	"lanvote/contexts/event-voting/voting-lottery/ports"

	"github.com/google/uuid"
)

// Store keeps every table in process memory behind one lock, so each method
// is atomic the way a database transaction is. It also records notifications
// for tests.
type Store struct {
	mu sync.RWMutex

	candidates map[string]entities.Candidate
	votes      map[string]entities.Vote
	records    map[string]entities.LotteryRecord
	config     *entities.VoteConfig
	settings   *entities.LotterySettings

	notifications []ports.Notification
	configCreates int
}

func NewStore(seed []entities.Candidate) *Store {
	candidates := make(map[string]entities.Candidate, len(seed))
	for _, candidate := range seed {
		candidates[candidate.CandidateID] = candidate
	}
	return &Store{
		candidates: candidates,
		votes:      make(map[string]entities.Vote),
		records:    make(map[string]entities.LotteryRecord),
	}
}

func (s *Store) CreateCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.candidates[candidate.CandidateID]; exists {
		return domainerrors.ErrRepositoryInvariants
	}
	if s.nameTakenLocked(candidate.Name, candidate.CandidateID) {
		return domainerrors.ErrCandidateNameTaken
	}
	s.candidates[candidate.CandidateID] = candidate
	return nil
}

func (s *Store) UpdateCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.candidates[candidate.CandidateID]
	if !ok {
		return domainerrors.ErrCandidateNotFound
	}
	if s.nameTakenLocked(candidate.Name, candidate.CandidateID) {
		return domainerrors.ErrCandidateNameTaken
	}
	existing.Name = candidate.Name
	existing.PhotoPath = candidate.PhotoPath
	existing.Description = candidate.Description
	existing.UpdatedAt = candidate.UpdatedAt
	s.candidates[candidate.CandidateID] = existing
	return nil
}

func (s *Store) DeleteCandidate(_ context.Context, candidateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[candidateID]; !ok {
		return domainerrors.ErrCandidateNotFound
	}
	delete(s.candidates, candidateID)
	for id, vote := range s.votes {
		if vote.CandidateID == candidateID {
			delete(s.votes, id)
		}
	}
	for id, record := range s.records {
		if record.CandidateID == candidateID {
			delete(s.records, id)
		}
	}
	return nil
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *Store) ListCandidates(_ context.Context) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candidateListLocked(), nil
}

func (s *Store) RecordVote(_ context.Context, attempt ports.VoteAttempt) (ports.VoteReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vote := attempt.Vote
	identity := vote.Identity()
	candidate, found := s.candidates[vote.CandidateID]
	snapshot := services.BallotSnapshot{
		CandidateFound:  found,
		MaxVotesPerUser: attempt.MaxVotesPerUser,
	}
	for _, existing := range s.votes {
		if !attempt.IdentityMode.Matches(existing.Identity(), identity) {
			continue
		}
		snapshot.VoterVoteCount++
		if existing.CandidateID == vote.CandidateID {
			snapshot.AlreadyVoted = true
		}
	}
	if err := services.EvaluateBallot(snapshot); err != nil {
		return ports.VoteReceipt{}, err
	}
	// Mirrors the storage uniqueness constraint on the exact tuple.
	for _, existing := range s.votes {
		if existing.CandidateID == vote.CandidateID && existing.Identity() == identity {
			return ports.VoteReceipt{}, domainerrors.ErrDuplicateVote
		}
	}
	if vote.VoteID == "" {
		vote.VoteID = uuid.NewString()
	}
	if _, exists := s.votes[vote.VoteID]; exists {
		return ports.VoteReceipt{}, domainerrors.ErrRepositoryInvariants
	}

	vote.CandidateName = candidate.Name
	candidate.Votes++
	candidate.UpdatedAt = vote.VotedAt
	s.candidates[candidate.CandidateID] = candidate
	s.votes[vote.VoteID] = vote

	return ports.VoteReceipt{
		Vote:           vote,
		Candidate:      candidate,
		VoterVoteCount: snapshot.VoterVoteCount + 1,
	}, nil
}

func (s *Store) CountVotesByVoter(_ context.Context, identity entities.VoterIdentity, mode entities.IdentityMode) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, vote := range s.votes {
		if mode.Matches(vote.Identity(), identity) {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListVotesByVoter(_ context.Context, identity entities.VoterIdentity, mode entities.IdentityMode) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if mode.Matches(vote.Identity(), identity) {
			items = append(items, s.withCandidateNameLocked(vote))
		}
	}
	sortVotesNewestFirst(items)
	return items, nil
}

func (s *Store) ListRecentVotes(_ context.Context, limit int) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0, len(s.votes))
	for _, vote := range s.votes {
		items = append(items, s.withCandidateNameLocked(vote))
	}
	sortVotesNewestFirst(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) TallyVotes(_ context.Context) (entities.VoteTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voters := make(map[entities.VoterIdentity]struct{}, len(s.votes))
	for _, vote := range s.votes {
		voters[vote.Identity()] = struct{}{}
	}
	return entities.VoteTally{
		TotalVotes:   len(s.votes),
		UniqueVoters: len(voters),
	}, nil
}

func (s *Store) ResetVotes(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = make(map[string]entities.Vote)
	for id, candidate := range s.candidates {
		candidate.Votes = 0
		s.candidates[id] = candidate
	}
	return nil
}

func (s *Store) ReconcileVoteCounters(_ context.Context) ([]entities.CounterDrift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	actual := make(map[string]int, len(s.candidates))
	for _, vote := range s.votes {
		actual[vote.CandidateID]++
	}
	var drifts []entities.CounterDrift
	for id, candidate := range s.candidates {
		if candidate.Votes == actual[id] {
			continue
		}
		drifts = append(drifts, entities.CounterDrift{
			CandidateID: id,
			Cached:      candidate.Votes,
			Actual:      actual[id],
		})
		candidate.Votes = actual[id]
		s.candidates[id] = candidate
	}
	sort.Slice(drifts, func(i, j int) bool {
		return drifts[i].CandidateID < drifts[j].CandidateID
	})
	return drifts, nil
}

// SetCandidateVotes overwrites a cached counter without touching the ledger.
// Tests use it to simulate drift.
func (s *Store) SetCandidateVotes(candidateID string, votes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if candidate, ok := s.candidates[candidateID]; ok {
		candidate.Votes = votes
		s.candidates[candidateID] = candidate
	}
}

func (s *Store) RecordDraw(_ context.Context, plan ports.DrawPlan) (entities.DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := services.EligiblePool(s.candidateListLocked(), s.priorWinnersLocked(), plan.ExcludePriorWinners)
	winners, err := plan.Pick(pool)
	if err != nil {
		return entities.DrawResult{}, err
	}

	round := s.maxRoundLocked() + 1
	staged := make([]entities.LotteryRecord, 0, len(winners))
	for _, winner := range winners {
		recordID := ""
		if plan.NewRecordID != nil {
			id, err := plan.NewRecordID()
			if err != nil {
				return entities.DrawResult{}, err
			}
			recordID = id
		}
		if recordID == "" {
			recordID = uuid.NewString()
		}
		staged = append(staged, entities.LotteryRecord{
			RecordID:      recordID,
			CandidateID:   winner.CandidateID,
			CandidateName: winner.Name,
			PhotoPath:     winner.PhotoPath,
			Round:         round,
			PrizeName:     plan.PrizeName,
			DrawnAt:       plan.DrawnAt,
		})
	}
	for _, record := range staged {
		s.records[record.RecordID] = record
	}
	s.bumpCompletedRoundsLocked(plan.DrawnAt)

	return entities.DrawResult{
		Round:     round,
		PrizeName: plan.PrizeName,
		Winners:   winners,
		DrawnAt:   plan.DrawnAt,
	}, nil
}

func (s *Store) CountEligibleCandidates(_ context.Context, excludePriorWinners bool) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(services.EligiblePool(s.candidateListLocked(), s.priorWinnersLocked(), excludePriorWinners)), nil
}

func (s *Store) ListLotteryRecords(_ context.Context) ([]entities.LotteryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.LotteryRecord, 0, len(s.records))
	for _, record := range s.records {
		items = append(items, record)
	}
	entities.SortLotteryHistory(items)
	return items, nil
}

func (s *Store) ListLotteryRecordsByRound(_ context.Context, round int) ([]entities.LotteryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.LotteryRecord, 0)
	for _, record := range s.records {
		if record.Round == round {
			items = append(items, record)
		}
	}
	entities.SortLotteryHistory(items)
	return items, nil
}

func (s *Store) ResetLottery(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]entities.LotteryRecord)
	if s.settings != nil {
		s.settings.CompletedRounds = 0
	}
	return nil
}

func (s *Store) GetLotterySettings(_ context.Context) (entities.LotterySettings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return entities.LotterySettings{}, false, nil
	}
	return *s.settings, true, nil
}

func (s *Store) SaveLotterySettings(_ context.Context, settings entities.LotterySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.CompletedRounds = 0
	s.settings = &settings
	return nil
}

func (s *Store) GetOrCreateConfig(_ context.Context, defaults entities.VoteConfig) (entities.VoteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		config := defaults
		s.config = &config
		s.configCreates++
	}
	return *s.config, nil
}

func (s *Store) UpdateConfig(
	_ context.Context,
	patch ports.ConfigPatch,
	defaults entities.VoteConfig,
	updatedAt time.Time,
) (entities.VoteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		config := defaults
		s.config = &config
		s.configCreates++
	}
	if patch.VoteName != nil {
		s.config.VoteName = *patch.VoteName
	}
	if patch.MaxVotesPerUser != nil {
		s.config.MaxVotesPerUser = *patch.MaxVotesPerUser
	}
	s.config.UpdatedAt = updatedAt.UTC()
	return *s.config, nil
}

// ConfigCreates reports how many times a config row was created.
func (s *Store) ConfigCreates() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configCreates
}

func (s *Store) Notify(_ context.Context, topic string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, ports.Notification{
		Topic:   topic,
		Payload: payload,
	})
	return nil
}

func (s *Store) Notifications() []ports.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.Notification(nil), s.notifications...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) nameTakenLocked(name string, exceptID string) bool {
	for id, candidate := range s.candidates {
		if id != exceptID && candidate.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) candidateListLocked() []entities.Candidate {
	items := make([]entities.Candidate, 0, len(s.candidates))
	for _, candidate := range s.candidates {
		items = append(items, candidate)
	}
	entities.SortCandidatesByCreation(items)
	return items
}

func (s *Store) priorWinnersLocked() map[string]struct{} {
	winners := make(map[string]struct{}, len(s.records))
	for _, record := range s.records {
		winners[record.CandidateID] = struct{}{}
	}
	return winners
}

func (s *Store) maxRoundLocked() int {
	maxRound := 0
	for _, record := range s.records {
		if record.Round > maxRound {
			maxRound = record.Round
		}
	}
	return maxRound
}

func (s *Store) bumpCompletedRoundsLocked(now time.Time) {
	if s.settings == nil {
		settings := entities.DefaultLotterySettings()
		s.settings = &settings
	}
	s.settings.CompletedRounds++
	s.settings.UpdatedAt = now.UTC()
}

func (s *Store) withCandidateNameLocked(vote entities.Vote) entities.Vote {
	if candidate, ok := s.candidates[vote.CandidateID]; ok {
		vote.CandidateName = candidate.Name
	}
	return vote
}

func sortVotesNewestFirst(items []entities.Vote) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].VotedAt.Equal(items[j].VotedAt) {
			return items[i].VotedAt.After(items[j].VotedAt)
		}
		return items[i].VoteID > items[j].VoteID
	})
}

var _ ports.CandidateRepository = (*Store)(nil)
var _ ports.VoteRepository = (*Store)(nil)
var _ ports.LotteryRepository = (*Store)(nil)
var _ ports.ConfigRepository = (*Store)(nil)
var _ ports.Notifier = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
