package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"lanvote/contexts/event-voting/voting-lottery/application/commands"
	"lanvote/contexts/event-voting/voting-lottery/application/queries"
	"lanvote/contexts/event-voting/voting-lottery/application/workers"
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	"lanvote/contexts/event-voting/voting-lottery/ports"
	httptransport "lanvote/contexts/event-voting/voting-lottery/transport/http"

	"github.com/dustin/go-humanize"
)

type Handler struct {
	Candidates     commands.CandidateUseCase
	CandidateReads queries.CandidateQueries
	Votes          commands.VoteUseCase
	Voters         queries.VoterQueries
	Statistics     queries.StatisticsUseCase
	Config         commands.ConfigUseCase
	Lottery        commands.LotteryUseCase
	LotteryReads   queries.LotteryQueries
	Reconciler     workers.CounterReconciler
	Clock          ports.Clock
	Logger         *slog.Logger
}

func (h Handler) ListCandidatesHandler(ctx context.Context) (httptransport.CandidateListResponse, error) {
	items, err := h.CandidateReads.ListCandidates(ctx)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	return httptransport.CandidateListResponse{Items: mapCandidates(items)}, nil
}

func (h Handler) GetCandidateHandler(ctx context.Context, candidateID string) (httptransport.CandidateResponse, error) {
	candidate, err := h.CandidateReads.GetCandidate(ctx, candidateID)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) CreateCandidateHandler(
	ctx context.Context,
	req httptransport.CreateCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Candidates.CreateCandidate(ctx, commands.CreateCandidateCommand{
		Name:        req.Name,
		PhotoPath:   req.PhotoPath,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) UpdateCandidateHandler(
	ctx context.Context,
	candidateID string,
	req httptransport.UpdateCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Candidates.UpdateCandidate(ctx, commands.UpdateCandidateCommand{
		CandidateID: candidateID,
		Name:        req.Name,
		PhotoPath:   req.PhotoPath,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) DeleteCandidateHandler(ctx context.Context, candidateID string) error {
	return h.Candidates.DeleteCandidate(ctx, candidateID)
}

func (h Handler) SubmitVoteHandler(
	ctx context.Context,
	voterIP string,
	userAgent string,
	req httptransport.SubmitVoteRequest,
) (httptransport.SubmitVoteResponse, error) {
	result, err := h.Votes.SubmitVote(ctx, commands.SubmitVoteCommand{
		CandidateID: req.CandidateID,
		VoterIP:     voterIP,
		Fingerprint: req.DeviceFingerprint,
		UserAgent:   userAgent,
	})
	if err != nil {
		return httptransport.SubmitVoteResponse{}, err
	}
	return httptransport.SubmitVoteResponse{
		VoteID:          result.Vote.VoteID,
		Candidate:       mapCandidate(result.Candidate),
		VoteCount:       result.VoterVoteCount,
		MaxVotesPerUser: result.MaxVotesPerUser,
		RemainingVotes:  remaining(result.MaxVotesPerUser, result.VoterVoteCount),
		VotedAt:         result.Vote.VotedAt,
	}, nil
}

func (h Handler) VoterStatusHandler(
	ctx context.Context,
	voterIP string,
	fingerprint string,
) (httptransport.VoterStatusResponse, error) {
	status, err := h.Voters.VoterStatus(ctx, voterIP, fingerprint)
	if err != nil {
		return httptransport.VoterStatusResponse{}, err
	}
	return httptransport.VoterStatusResponse{
		HasVoted:        status.HasVoted,
		VoteCount:       status.VoteCount,
		MaxVotesPerUser: status.MaxVotesPerUser,
		RemainingVotes:  remaining(status.MaxVotesPerUser, status.VoteCount),
	}, nil
}

func (h Handler) MyVotesHandler(
	ctx context.Context,
	voterIP string,
	fingerprint string,
) (httptransport.MyVotesResponse, error) {
	votes, err := h.Voters.MyVotes(ctx, voterIP, fingerprint)
	if err != nil {
		return httptransport.MyVotesResponse{}, err
	}
	return httptransport.MyVotesResponse{
		CandidateNames: votes.CandidateNames,
		VoteCount:      votes.VoteCount,
	}, nil
}

func (h Handler) RecentVotesHandler(ctx context.Context, limit int) (httptransport.RecentVotesResponse, error) {
	votes, err := h.Voters.RecentVotes(ctx, limit)
	if err != nil {
		return httptransport.RecentVotesResponse{}, err
	}
	now := h.now()
	items := make([]httptransport.RecentVoteItem, 0, len(votes))
	for _, vote := range votes {
		items = append(items, httptransport.RecentVoteItem{
			VoteID:        vote.VoteID,
			CandidateID:   vote.CandidateID,
			CandidateName: vote.CandidateName,
			VoterIP:       vote.VoterIP,
			VotedAt:       vote.VotedAt,
			VotedAgo:      humanize.RelTime(vote.VotedAt, now, "ago", "from now"),
		})
	}
	return httptransport.RecentVotesResponse{Items: items}, nil
}

func (h Handler) StatisticsHandler(ctx context.Context) (httptransport.StatisticsResponse, error) {
	stats, err := h.Statistics.Statistics(ctx)
	if err != nil {
		return httptransport.StatisticsResponse{}, err
	}
	resp := httptransport.StatisticsResponse{
		TotalVotes:               stats.TotalVotes,
		TotalCandidates:          stats.TotalCandidates,
		UniqueVoters:             stats.UniqueVoters,
		AverageVotesPerCandidate: stats.AverageVotesPerCandidate,
		MaxVotesPerUser:          stats.MaxVotesPerUser,
		EstimatedVoters:          stats.EstimatedVoters,
		CompletionRateEstimate:   stats.CompletionRateEstimate,
		CompletionRateIsEstimate: true,
		Candidates:               mapCandidates(stats.Candidates),
	}
	if stats.TopCandidate != nil {
		top := mapCandidate(*stats.TopCandidate)
		resp.TopCandidate = &top
	}
	return resp, nil
}

func (h Handler) ResetVotesHandler(ctx context.Context) error {
	return h.Votes.ResetVotes(ctx)
}

func (h Handler) GetConfigHandler(ctx context.Context) (httptransport.VoteConfigResponse, error) {
	config, err := h.Config.GetConfig(ctx)
	if err != nil {
		return httptransport.VoteConfigResponse{}, err
	}
	return mapConfig(config), nil
}

func (h Handler) UpdateConfigHandler(
	ctx context.Context,
	req httptransport.UpdateVoteConfigRequest,
) (httptransport.VoteConfigResponse, error) {
	config, err := h.Config.UpdateConfig(ctx, commands.UpdateConfigCommand{
		VoteName:        req.VoteName,
		MaxVotesPerUser: req.MaxVotesPerUser,
	})
	if err != nil {
		return httptransport.VoteConfigResponse{}, err
	}
	return mapConfig(config), nil
}

// DrawHandler falls back to the saved lottery settings when the request
// leaves exclude_prior_winners unset.
func (h Handler) DrawHandler(ctx context.Context, req httptransport.DrawRequest) (httptransport.DrawResponse, error) {
	exclude, err := h.resolveExclude(ctx, req.ExcludePriorWinners)
	if err != nil {
		return httptransport.DrawResponse{}, err
	}
	result, err := h.Lottery.Draw(ctx, commands.DrawCommand{
		Count:               req.Count,
		PrizeName:           req.PrizeName,
		ExcludePriorWinners: exclude,
	})
	if err != nil {
		return httptransport.DrawResponse{}, err
	}
	return httptransport.DrawResponse{
		Round:     result.Round,
		PrizeName: result.PrizeName,
		Winners:   mapCandidates(result.Winners),
		DrawnAt:   result.DrawnAt,
	}, nil
}

func (h Handler) AvailableCountHandler(
	ctx context.Context,
	excludePriorWinners *bool,
) (httptransport.AvailableCountResponse, error) {
	exclude, err := h.resolveExclude(ctx, excludePriorWinners)
	if err != nil {
		return httptransport.AvailableCountResponse{}, err
	}
	available, err := h.LotteryReads.AvailableCount(ctx, exclude)
	if err != nil {
		return httptransport.AvailableCountResponse{}, err
	}
	return httptransport.AvailableCountResponse{
		ExcludePriorWinners: exclude,
		Available:           available,
	}, nil
}

func (h Handler) LotteryHistoryHandler(ctx context.Context) (httptransport.LotteryHistoryResponse, error) {
	records, err := h.LotteryReads.History(ctx)
	if err != nil {
		return httptransport.LotteryHistoryResponse{}, err
	}
	return httptransport.LotteryHistoryResponse{Items: mapRecords(records)}, nil
}

func (h Handler) LotteryRoundHandler(ctx context.Context, round int) (httptransport.LotteryHistoryResponse, error) {
	records, err := h.LotteryReads.Round(ctx, round)
	if err != nil {
		return httptransport.LotteryHistoryResponse{}, err
	}
	return httptransport.LotteryHistoryResponse{Items: mapRecords(records)}, nil
}

func (h Handler) ResetLotteryHandler(ctx context.Context) error {
	return h.Lottery.ResetLottery(ctx)
}

func (h Handler) GetLotterySettingsHandler(ctx context.Context) (httptransport.LotterySettingsResponse, error) {
	settings, err := h.LotteryReads.Settings(ctx)
	if err != nil {
		return httptransport.LotterySettingsResponse{}, err
	}
	return mapSettings(settings), nil
}

func (h Handler) SaveLotterySettingsHandler(
	ctx context.Context,
	req httptransport.LotterySettingsRequest,
) (httptransport.LotterySettingsResponse, error) {
	settings, err := h.Lottery.SaveSettings(ctx, commands.SaveLotterySettingsCommand{
		Count:          req.Count,
		PrizeName:      req.PrizeName,
		ExcludeWinners: req.ExcludeWinners,
		Rounds:         req.Rounds,
	})
	if err != nil {
		return httptransport.LotterySettingsResponse{}, err
	}
	return mapSettings(settings), nil
}

func (h Handler) ReconcileCountersHandler(ctx context.Context) (httptransport.ReconcileResponse, error) {
	repaired, err := h.Reconciler.RunOnce(ctx)
	if err != nil {
		return httptransport.ReconcileResponse{}, err
	}
	return httptransport.ReconcileResponse{Repaired: repaired}, nil
}

func (h Handler) resolveExclude(ctx context.Context, requested *bool) (bool, error) {
	if requested != nil {
		return *requested, nil
	}
	settings, err := h.LotteryReads.Settings(ctx)
	if err != nil {
		return false, err
	}
	return settings.ExcludeWinners, nil
}

func (h Handler) now() time.Time {
	if h.Clock != nil {
		return h.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func remaining(limit int, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}

func mapCandidate(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		CandidateID: candidate.CandidateID,
		Name:        candidate.Name,
		PhotoURL:    candidate.PhotoURL(),
		Description: candidate.Description,
		Votes:       candidate.Votes,
		CreatedAt:   candidate.CreatedAt,
		UpdatedAt:   candidate.UpdatedAt,
	}
}

func mapCandidates(items []entities.Candidate) []httptransport.CandidateResponse {
	mapped := make([]httptransport.CandidateResponse, 0, len(items))
	for _, item := range items {
		mapped = append(mapped, mapCandidate(item))
	}
	return mapped
}

func mapRecords(records []entities.LotteryRecord) []httptransport.LotteryRecordResponse {
	items := make([]httptransport.LotteryRecordResponse, 0, len(records))
	for _, record := range records {
		photo := entities.Candidate{PhotoPath: record.PhotoPath}
		items = append(items, httptransport.LotteryRecordResponse{
			RecordID:      record.RecordID,
			CandidateID:   record.CandidateID,
			CandidateName: record.CandidateName,
			PhotoURL:      photo.PhotoURL(),
			Round:         record.Round,
			PrizeName:     record.PrizeName,
			DrawnAt:       record.DrawnAt,
		})
	}
	return items
}

func mapConfig(config entities.VoteConfig) httptransport.VoteConfigResponse {
	return httptransport.VoteConfigResponse{
		VoteName:        config.VoteName,
		MaxVotesPerUser: config.EffectiveMaxVotes(),
		UpdatedAt:       config.UpdatedAt,
	}
}

func mapSettings(settings entities.LotterySettings) httptransport.LotterySettingsResponse {
	return httptransport.LotterySettingsResponse{
		Count:           settings.Count,
		PrizeName:       settings.PrizeName,
		ExcludeWinners:  settings.ExcludeWinners,
		Rounds:          settings.Rounds,
		CompletedRounds: settings.CompletedRounds,
	}
}
