package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	domainerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
	"lanvote/contexts/event-voting/voting-lottery/domain/services"
	"lanvote/contexts/event-voting/voting-lottery/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const drawLockKey = "lottery:draw"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	row.Votes = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == constraintCandidateName {
				return domainerrors.ErrCandidateNameTaken
			}
			return domainerrors.ErrRepositoryInvariants
		}
		return r.logError("voting_repo_create_candidate_failed", err,
			"candidate_id", candidate.CandidateID,
		)
	}
	return nil
}

func (r *Repository) UpdateCandidate(ctx context.Context, candidate entities.Candidate) error {
	result := r.db.WithContext(ctx).
		Model(&candidateModel{}).
		Where("candidate_id = ?", strings.TrimSpace(candidate.CandidateID)).
		Updates(map[string]any{
			"name":        candidate.Name,
			"photo_path":  candidate.PhotoPath,
			"description": candidate.Description,
			"updated_at":  candidate.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) && constraintName(result.Error) == constraintCandidateName {
			return domainerrors.ErrCandidateNameTaken
		}
		return r.logError("voting_repo_update_candidate_failed", result.Error,
			"candidate_id", candidate.CandidateID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCandidateNotFound
	}
	return nil
}

// DeleteCandidate relies on ON DELETE CASCADE for votes and lottery records.
func (r *Repository) DeleteCandidate(ctx context.Context, candidateID string) error {
	result := r.db.WithContext(ctx).
		Where("candidate_id = ?", strings.TrimSpace(candidateID)).
		Delete(&candidateModel{})
	if result.Error != nil {
		return r.logError("voting_repo_delete_candidate_failed", result.Error,
			"candidate_id", candidateID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCandidateNotFound
	}
	return nil
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.Candidate{}, r.logError("voting_repo_get_candidate_failed", err,
			"candidate_id", candidateID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidates(ctx context.Context) ([]entities.Candidate, error) {
	rows, err := listCandidateRows(r.db.WithContext(ctx))
	if err != nil {
		return nil, r.logError("voting_repo_list_candidates_failed", err)
	}
	return toCandidateEntities(rows), nil
}

func (r *Repository) RecordVote(ctx context.Context, attempt ports.VoteAttempt) (ports.VoteReceipt, error) {
	vote := attempt.Vote
	identity := vote.Identity()
	var receipt ports.VoteReceipt

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Cap checks for one IP must see each other's inserts.
		if err := advisoryLock(tx, "vote:"+identity.IP); err != nil {
			return r.logError("voting_repo_vote_lock_failed", err, "voter_ip", identity.IP)
		}

		snapshot := services.BallotSnapshot{MaxVotesPerUser: attempt.MaxVotesPerUser}
		var candidate candidateModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("candidate_id = ?", vote.CandidateID).
			First(&candidate).
			Error
		switch {
		case err == nil:
			snapshot.CandidateFound = true
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return r.logError("voting_repo_lock_candidate_failed", err, "candidate_id", vote.CandidateID)
		}

		var voterCount int64
		if err := voterScope(tx.Model(&voteModel{}), identity, attempt.IdentityMode).
			Count(&voterCount).Error; err != nil {
			return r.logError("voting_repo_count_voter_votes_failed", err, "voter_ip", identity.IP)
		}
		snapshot.VoterVoteCount = int(voterCount)

		if snapshot.CandidateFound {
			var sameCandidate int64
			if err := voterScope(tx.Model(&voteModel{}), identity, attempt.IdentityMode).
				Where("candidate_id = ?", vote.CandidateID).
				Count(&sameCandidate).Error; err != nil {
				return r.logError("voting_repo_check_duplicate_failed", err, "voter_ip", identity.IP)
			}
			snapshot.AlreadyVoted = sameCandidate > 0
		}

		if err := services.EvaluateBallot(snapshot); err != nil {
			return err
		}

		row := voteModelFromEntity(vote)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				if constraintName(err) == constraintUniqueBallot {
					return domainerrors.ErrDuplicateVote
				}
				return domainerrors.ErrRepositoryInvariants
			}
			return r.logError("voting_repo_insert_vote_failed", err,
				"vote_id", vote.VoteID,
				"candidate_id", vote.CandidateID,
			)
		}

		if err := tx.Model(&candidateModel{}).
			Where("candidate_id = ?", vote.CandidateID).
			Updates(map[string]any{
				"votes":      gorm.Expr("votes + 1"),
				"updated_at": vote.VotedAt.UTC(),
			}).Error; err != nil {
			return r.logError("voting_repo_increment_votes_failed", err, "candidate_id", vote.CandidateID)
		}

		candidate.Votes++
		candidate.UpdatedAt = vote.VotedAt.UTC()
		vote.CandidateName = candidate.Name
		receipt = ports.VoteReceipt{
			Vote:           vote,
			Candidate:      candidate.toEntity(),
			VoterVoteCount: snapshot.VoterVoteCount + 1,
		}
		return nil
	})
	if err != nil {
		return ports.VoteReceipt{}, err
	}
	return receipt, nil
}

func (r *Repository) CountVotesByVoter(
	ctx context.Context,
	identity entities.VoterIdentity,
	mode entities.IdentityMode,
) (int, error) {
	var count int64
	if err := voterScope(r.db.WithContext(ctx).Model(&voteModel{}), identity, mode).
		Count(&count).Error; err != nil {
		return 0, r.logError("voting_repo_count_voter_votes_failed", err, "voter_ip", identity.IP)
	}
	return int(count), nil
}

func (r *Repository) ListVotesByVoter(
	ctx context.Context,
	identity entities.VoterIdentity,
	mode entities.IdentityMode,
) ([]entities.Vote, error) {
	var rows []voteView
	if err := voterScope(r.votesWithNames(ctx), identity, mode).
		Order("votes.voted_at DESC").
		Order("votes.vote_id DESC").
		Scan(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_voter_votes_failed", err, "voter_ip", identity.IP)
	}
	return toVoteEntities(rows), nil
}

func (r *Repository) ListRecentVotes(ctx context.Context, limit int) ([]entities.Vote, error) {
	var rows []voteView
	if err := r.votesWithNames(ctx).
		Order("votes.voted_at DESC").
		Order("votes.vote_id DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_recent_votes_failed", err, "limit", limit)
	}
	return toVoteEntities(rows), nil
}

func (r *Repository) TallyVotes(ctx context.Context) (entities.VoteTally, error) {
	var row struct {
		TotalVotes   int64 `gorm:"column:total_votes"`
		UniqueVoters int64 `gorm:"column:unique_voters"`
	}
	if err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Select("COUNT(*) AS total_votes, COUNT(DISTINCT (voter_ip, device_fingerprint)) AS unique_voters").
		Scan(&row).Error; err != nil {
		return entities.VoteTally{}, r.logError("voting_repo_tally_votes_failed", err)
	}
	return entities.VoteTally{
		TotalVotes:   int(row.TotalVotes),
		UniqueVoters: int(row.UniqueVoters),
	}, nil
}

func (r *Repository) ResetVotes(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// RecordVote locks its candidate before inserting, so taking every
		// candidate row first makes the DELETE see all committed votes.
		var locked []candidateModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("candidate_id ASC").
			Find(&locked).Error; err != nil {
			return r.logError("voting_repo_lock_counters_failed", err)
		}
		if err := tx.Where("1 = 1").Delete(&voteModel{}).Error; err != nil {
			return r.logError("voting_repo_delete_votes_failed", err)
		}
		if err := tx.Model(&candidateModel{}).
			Where("votes <> 0").
			Update("votes", 0).Error; err != nil {
			return r.logError("voting_repo_zero_counters_failed", err)
		}
		return nil
	})
}

func (r *Repository) ReconcileVoteCounters(ctx context.Context) ([]entities.CounterDrift, error) {
	var drifts []entities.CounterDrift
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Holding every candidate row blocks RecordVote until the rewrite is done.
		var locked []candidateModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("candidate_id ASC").
			Find(&locked).Error; err != nil {
			return r.logError("voting_repo_lock_counters_failed", err)
		}

		var counts []struct {
			CandidateID string `gorm:"column:candidate_id"`
			Actual      int64  `gorm:"column:actual"`
		}
		if err := tx.Model(&voteModel{}).
			Select("candidate_id, COUNT(*) AS actual").
			Group("candidate_id").
			Scan(&counts).Error; err != nil {
			return r.logError("voting_repo_count_ledger_failed", err)
		}
		actual := make(map[string]int, len(counts))
		for _, item := range counts {
			actual[item.CandidateID] = int(item.Actual)
		}

		for _, candidate := range locked {
			want := actual[candidate.CandidateID]
			if candidate.Votes == want {
				continue
			}
			if err := tx.Model(&candidateModel{}).
				Where("candidate_id = ?", candidate.CandidateID).
				Update("votes", want).Error; err != nil {
				return r.logError("voting_repo_rewrite_counter_failed", err, "candidate_id", candidate.CandidateID)
			}
			drifts = append(drifts, entities.CounterDrift{
				CandidateID: candidate.CandidateID,
				Cached:      candidate.Votes,
				Actual:      want,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drifts, nil
}

func (r *Repository) RecordDraw(ctx context.Context, plan ports.DrawPlan) (entities.DrawResult, error) {
	var result entities.DrawResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, drawLockKey); err != nil {
			return r.logError("voting_repo_draw_lock_failed", err)
		}

		candidateRows, err := listCandidateRows(tx)
		if err != nil {
			return r.logError("voting_repo_draw_list_candidates_failed", err)
		}
		winnerIDs, err := priorWinnerIDs(tx)
		if err != nil {
			return r.logError("voting_repo_draw_prior_winners_failed", err)
		}
		pool := services.EligiblePool(toCandidateEntities(candidateRows), winnerIDs, plan.ExcludePriorWinners)
		winners, err := plan.Pick(pool)
		if err != nil {
			return err
		}

		var maxRound int
		if err := tx.Model(&lotteryRecordModel{}).
			Select("COALESCE(MAX(round), 0)").
			Scan(&maxRound).Error; err != nil {
			return r.logError("voting_repo_draw_max_round_failed", err)
		}
		round := maxRound + 1

		rows := make([]lotteryRecordModel, 0, len(winners))
		for _, winner := range winners {
			recordID, err := plan.NewRecordID()
			if err != nil {
				return err
			}
			rows = append(rows, lotteryRecordModel{
				RecordID:      recordID,
				CandidateID:   winner.CandidateID,
				CandidateName: winner.Name,
				PhotoPath:     winner.PhotoPath,
				Round:         round,
				PrizeName:     plan.PrizeName,
				DrawnAt:       plan.DrawnAt.UTC(),
			})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrRepositoryInvariants
				}
				return r.logError("voting_repo_insert_lottery_records_failed", err, "round", round)
			}
		}

		defaults := lotterySettingsModelFromEntity(entities.DefaultLotterySettings())
		defaults.CompletedRounds = 1
		defaults.UpdatedAt = plan.DrawnAt.UTC()
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "settings_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"completed_rounds": gorm.Expr("lottery_settings.completed_rounds + 1"),
				"updated_at":       plan.DrawnAt.UTC(),
			}),
		}).Create(&defaults).Error; err != nil {
			return r.logError("voting_repo_bump_completed_rounds_failed", err, "round", round)
		}

		result = entities.DrawResult{
			Round:     round,
			PrizeName: plan.PrizeName,
			Winners:   winners,
			DrawnAt:   plan.DrawnAt.UTC(),
		}
		return nil
	})
	if err != nil {
		return entities.DrawResult{}, err
	}
	return result, nil
}

func (r *Repository) CountEligibleCandidates(ctx context.Context, excludePriorWinners bool) (int, error) {
	tx := r.db.WithContext(ctx).Model(&candidateModel{})
	if excludePriorWinners {
		tx = tx.Where("candidate_id NOT IN (?)",
			r.db.WithContext(ctx).Model(&lotteryRecordModel{}).Select("candidate_id"),
		)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, r.logError("voting_repo_count_eligible_failed", err,
			"exclude_prior_winners", excludePriorWinners,
		)
	}
	return int(count), nil
}

func (r *Repository) ListLotteryRecords(ctx context.Context) ([]entities.LotteryRecord, error) {
	var rows []lotteryRecordModel
	if err := r.db.WithContext(ctx).
		Order("round DESC").
		Order("drawn_at DESC").
		Order("record_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_lottery_records_failed", err)
	}
	return toLotteryRecordEntities(rows), nil
}

func (r *Repository) ListLotteryRecordsByRound(ctx context.Context, round int) ([]entities.LotteryRecord, error) {
	var rows []lotteryRecordModel
	if err := r.db.WithContext(ctx).
		Where("round = ?", round).
		Order("drawn_at DESC").
		Order("record_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_lottery_round_failed", err, "round", round)
	}
	return toLotteryRecordEntities(rows), nil
}

func (r *Repository) ResetLottery(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, drawLockKey); err != nil {
			return r.logError("voting_repo_draw_lock_failed", err)
		}
		if err := tx.Where("1 = 1").Delete(&lotteryRecordModel{}).Error; err != nil {
			return r.logError("voting_repo_delete_lottery_records_failed", err)
		}
		if err := tx.Model(&lotterySettingsModel{}).
			Where("settings_key = ?", singletonKey).
			Update("completed_rounds", 0).Error; err != nil {
			return r.logError("voting_repo_reset_completed_rounds_failed", err)
		}
		return nil
	})
}

func (r *Repository) GetLotterySettings(ctx context.Context) (entities.LotterySettings, bool, error) {
	var row lotterySettingsModel
	err := r.db.WithContext(ctx).
		Where("settings_key = ?", singletonKey).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.LotterySettings{}, false, nil
		}
		return entities.LotterySettings{}, false, r.logError("voting_repo_get_lottery_settings_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveLotterySettings(ctx context.Context, settings entities.LotterySettings) error {
	row := lotterySettingsModelFromEntity(settings)
	row.CompletedRounds = 0
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "settings_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"count", "prize_name", "exclude_winners", "rounds", "completed_rounds", "updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return r.logError("voting_repo_save_lottery_settings_failed", err)
	}
	return nil
}

func (r *Repository) GetOrCreateConfig(ctx context.Context, defaults entities.VoteConfig) (entities.VoteConfig, error) {
	var config entities.VoteConfig
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := ensureConfigRow(tx, defaults, false)
		if err != nil {
			return r.logError("voting_repo_get_or_create_config_failed", err)
		}
		config = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.VoteConfig{}, err
	}
	return config, nil
}

func (r *Repository) UpdateConfig(
	ctx context.Context,
	patch ports.ConfigPatch,
	defaults entities.VoteConfig,
	updatedAt time.Time,
) (entities.VoteConfig, error) {
	var config entities.VoteConfig
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := ensureConfigRow(tx, defaults, true)
		if err != nil {
			return r.logError("voting_repo_lock_config_failed", err)
		}
		updates := map[string]any{"updated_at": updatedAt.UTC()}
		if patch.VoteName != nil {
			updates["vote_name"] = *patch.VoteName
			row.VoteName = *patch.VoteName
		}
		if patch.MaxVotesPerUser != nil {
			updates["max_votes_per_user"] = *patch.MaxVotesPerUser
			row.MaxVotesPerUser = *patch.MaxVotesPerUser
		}
		if err := tx.Model(&voteConfigModel{}).
			Where("config_key = ?", singletonKey).
			Updates(updates).Error; err != nil {
			return r.logError("voting_repo_update_config_failed", err)
		}
		row.UpdatedAt = updatedAt.UTC()
		config = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.VoteConfig{}, err
	}
	return config, nil
}

// ensureConfigRow inserts the singleton if it is missing and reads it back.
// The primary key on config_key keeps concurrent first reads to one row.
func ensureConfigRow(tx *gorm.DB, defaults entities.VoteConfig, forUpdate bool) (voteConfigModel, error) {
	seed := voteConfigModelFromEntity(defaults)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return voteConfigModel{}, err
	}
	query := tx.Where("config_key = ?", singletonKey)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row voteConfigModel
	if err := query.First(&row).Error; err != nil {
		return voteConfigModel{}, err
	}
	return row, nil
}

func (r *Repository) votesWithNames(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("votes").
		Select("votes.vote_id, votes.candidate_id, candidates.name AS candidate_name, " +
			"votes.voter_ip, votes.device_fingerprint, votes.user_agent, votes.voted_at").
		Joins("JOIN candidates ON candidates.candidate_id = votes.candidate_id")
}

// voterScope filters votes the way mode compares identities.
func voterScope(tx *gorm.DB, identity entities.VoterIdentity, mode entities.IdentityMode) *gorm.DB {
	tx = tx.Where("votes.voter_ip = ?", identity.IP)
	if mode.OrDefault().MatchesFingerprint(identity) {
		tx = tx.Where("votes.device_fingerprint = ?", identity.Fingerprint)
	}
	return tx
}

func advisoryLock(tx *gorm.DB, key string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error // gorm-postgres-enforcer: allow-raw-sql advisory lock
}

func listCandidateRows(tx *gorm.DB) ([]candidateModel, error) {
	var rows []candidateModel
	err := tx.Order("created_at ASC").Order("candidate_id ASC").Find(&rows).Error
	return rows, err
}

func priorWinnerIDs(tx *gorm.DB) (map[string]struct{}, error) {
	var ids []string
	if err := tx.Model(&lotteryRecordModel{}).Distinct().Pluck("candidate_id", &ids).Error; err != nil {
		return nil, err
	}
	winners := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		winners[id] = struct{}{}
	}
	return winners, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "event-voting/voting-lottery",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("voting repository operation failed", fields...)
	return domainerrors.StorageFailure(err)
}

type candidateModel struct {
	CandidateID string    `gorm:"column:candidate_id;primaryKey"`
	Name        string    `gorm:"column:name"`
	PhotoPath   string    `gorm:"column:photo_path"`
	Description string    `gorm:"column:description"`
	Votes       int       `gorm:"column:votes"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func candidateModelFromEntity(candidate entities.Candidate) candidateModel {
	return candidateModel{
		CandidateID: strings.TrimSpace(candidate.CandidateID),
		Name:        candidate.Name,
		PhotoPath:   candidate.PhotoPath,
		Description: candidate.Description,
		Votes:       candidate.Votes,
		CreatedAt:   candidate.CreatedAt.UTC(),
		UpdatedAt:   candidate.UpdatedAt.UTC(),
	}
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.CandidateID,
		Name:        m.Name,
		PhotoPath:   m.PhotoPath,
		Description: m.Description,
		Votes:       m.Votes,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type voteModel struct {
	VoteID            string    `gorm:"column:vote_id;primaryKey"`
	CandidateID       string    `gorm:"column:candidate_id"`
	VoterIP           string    `gorm:"column:voter_ip"`
	DeviceFingerprint string    `gorm:"column:device_fingerprint"`
	UserAgent         string    `gorm:"column:user_agent"`
	VotedAt           time.Time `gorm:"column:voted_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	return voteModel{
		VoteID:            vote.VoteID,
		CandidateID:       vote.CandidateID,
		VoterIP:           vote.VoterIP,
		DeviceFingerprint: vote.DeviceFingerprint,
		UserAgent:         vote.UserAgent,
		VotedAt:           vote.VotedAt.UTC(),
	}
}

// voteView is a vote joined with its candidate's current name.
type voteView struct {
	voteModel
	CandidateName string `gorm:"column:candidate_name"`
}

func (m voteView) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:            m.VoteID,
		CandidateID:       m.CandidateID,
		CandidateName:     m.CandidateName,
		VoterIP:           m.VoterIP,
		DeviceFingerprint: m.DeviceFingerprint,
		UserAgent:         m.UserAgent,
		VotedAt:           m.VotedAt.UTC(),
	}
}

type lotteryRecordModel struct {
	RecordID      string    `gorm:"column:record_id;primaryKey"`
	CandidateID   string    `gorm:"column:candidate_id"`
	CandidateName string    `gorm:"column:candidate_name"`
	PhotoPath     string    `gorm:"column:photo_path"`
	Round         int       `gorm:"column:round"`
	PrizeName     string    `gorm:"column:prize_name"`
	DrawnAt       time.Time `gorm:"column:drawn_at"`
}

func (lotteryRecordModel) TableName() string {
	return "lottery_records"
}

func (m lotteryRecordModel) toEntity() entities.LotteryRecord {
	return entities.LotteryRecord{
		RecordID:      m.RecordID,
		CandidateID:   m.CandidateID,
		CandidateName: m.CandidateName,
		PhotoPath:     m.PhotoPath,
		Round:         m.Round,
		PrizeName:     m.PrizeName,
		DrawnAt:       m.DrawnAt.UTC(),
	}
}

type voteConfigModel struct {
	ConfigKey       string    `gorm:"column:config_key;primaryKey"`
	VoteName        string    `gorm:"column:vote_name"`
	MaxVotesPerUser int       `gorm:"column:max_votes_per_user"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (voteConfigModel) TableName() string {
	return "vote_config"
}

func voteConfigModelFromEntity(config entities.VoteConfig) voteConfigModel {
	return voteConfigModel{
		ConfigKey:       singletonKey,
		VoteName:        config.VoteName,
		MaxVotesPerUser: config.MaxVotesPerUser,
		CreatedAt:       config.CreatedAt.UTC(),
		UpdatedAt:       config.UpdatedAt.UTC(),
	}
}

func (m voteConfigModel) toEntity() entities.VoteConfig {
	return entities.VoteConfig{
		VoteName:        m.VoteName,
		MaxVotesPerUser: m.MaxVotesPerUser,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type lotterySettingsModel struct {
	SettingsKey     string    `gorm:"column:settings_key;primaryKey"`
	Count           int       `gorm:"column:count"`
	PrizeName       string    `gorm:"column:prize_name"`
	ExcludeWinners  bool      `gorm:"column:exclude_winners"`
	Rounds          int       `gorm:"column:rounds"`
	CompletedRounds int       `gorm:"column:completed_rounds"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (lotterySettingsModel) TableName() string {
	return "lottery_settings"
}

func lotterySettingsModelFromEntity(settings entities.LotterySettings) lotterySettingsModel {
	return lotterySettingsModel{
		SettingsKey:     singletonKey,
		Count:           settings.Count,
		PrizeName:       settings.PrizeName,
		ExcludeWinners:  settings.ExcludeWinners,
		Rounds:          settings.Rounds,
		CompletedRounds: settings.CompletedRounds,
		UpdatedAt:       settings.UpdatedAt.UTC(),
	}
}

func (m lotterySettingsModel) toEntity() entities.LotterySettings {
	return entities.LotterySettings{
		Count:           m.Count,
		PrizeName:       m.PrizeName,
		ExcludeWinners:  m.ExcludeWinners,
		Rounds:          m.Rounds,
		CompletedRounds: m.CompletedRounds,
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func toCandidateEntities(rows []candidateModel) []entities.Candidate {
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func toVoteEntities(rows []voteView) []entities.Vote {
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func toLotteryRecordEntities(rows []lotteryRecordModel) []entities.LotteryRecord {
	items := make([]entities.LotteryRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

var _ ports.CandidateRepository = (*Repository)(nil)
var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.LotteryRepository = (*Repository)(nil)
var _ ports.ConfigRepository = (*Repository)(nil)
