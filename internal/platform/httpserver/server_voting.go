package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	votingerrors "lanvote/contexts/event-voting/voting-lottery/domain/errors"
	votinghttp "lanvote/contexts/event-voting/voting-lottery/transport/http"
)

const defaultRecentVotesLimit = 20

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.ListCandidatesHandler(r.Context())
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.GetCandidateHandler(r.Context(), r.PathValue("candidate_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.CreateCandidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.CreateCandidateHandler(r.Context(), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.UpdateCandidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.UpdateCandidateHandler(r.Context(), r.PathValue("candidate_id"), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	if err := s.voting.Handler.DeleteCandidateHandler(r.Context(), r.PathValue("candidate_id")); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.SubmitVoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.SubmitVoteHandler(
		r.Context(),
		s.resolveClientIP(r),
		r.UserAgent(),
		req,
	)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleVoterStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.VoterStatusHandler(r.Context(), s.resolveClientIP(r), deviceFingerprint(r))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMyVotes(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.MyVotesHandler(r.Context(), s.resolveClientIP(r), deviceFingerprint(r))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecentVotes(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentVotesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeVotingError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	resp, err := s.voting.Handler.RecentVotesHandler(r.Context(), limit)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.StatisticsHandler(r.Context())
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetVotes(w http.ResponseWriter, r *http.Request) {
	if err := s.voting.Handler.ResetVotesHandler(r.Context()); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReconcileCounters(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.ReconcileCountersHandler(r.Context())
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.GetConfigHandler(r.Context())
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.UpdateVoteConfigRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.UpdateConfigHandler(r.Context(), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func deviceFingerprint(r *http.Request) string {
	if value := strings.TrimSpace(r.URL.Query().Get("device_fingerprint")); value != "" {
		return value
	}
	return strings.TrimSpace(r.Header.Get("X-Device-Fingerprint"))
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	kind := votingerrors.KindOf(err)
	switch kind {
	case votingerrors.KindNotFound:
		writeVotingError(w, http.StatusNotFound, string(kind), err.Error())
	case votingerrors.KindConflict:
		writeVotingError(w, http.StatusConflict, string(kind), err.Error())
	case votingerrors.KindLimitExceeded:
		resp := votinghttp.ErrorResponse{Code: string(kind), Message: err.Error()}
		var capErr *votingerrors.VoteCapError
		if errors.As(err, &capErr) {
			resp.MaxVotesPerUser = capErr.Cap
			resp.VoteCount = capErr.Count
		}
		writeJSON(w, http.StatusTooManyRequests, resp)
	case votingerrors.KindEmptyPool:
		writeVotingError(w, http.StatusUnprocessableEntity, string(kind), err.Error())
	case votingerrors.KindInsufficientPool:
		resp := votinghttp.ErrorResponse{Code: string(kind), Message: err.Error()}
		var poolErr *votingerrors.InsufficientPoolError
		if errors.As(err, &poolErr) {
			resp.Requested = poolErr.Requested
			resp.Available = poolErr.Available
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case votingerrors.KindValidation:
		writeVotingError(w, http.StatusBadRequest, string(kind), err.Error())
	case votingerrors.KindStorage:
		writeVotingError(w, http.StatusServiceUnavailable, string(kind), "storage temporarily unavailable")
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
