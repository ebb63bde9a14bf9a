package httpserver

import (
	"net/http"
	"strconv"

	votinghttp "lanvote/contexts/event-voting/voting-lottery/transport/http"
)

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.DrawRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.DrawHandler(r.Context(), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAvailableCount(w http.ResponseWriter, r *http.Request) {
	var exclude *bool
	if raw := r.URL.Query().Get("exclude_prior_winners"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeVotingError(w, http.StatusBadRequest, "invalid_exclude_prior_winners", "exclude_prior_winners must be a boolean")
			return
		}
		exclude = &parsed
	}
	resp, err := s.voting.Handler.AvailableCountHandler(r.Context(), exclude)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLotteryHistory(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.LotteryHistoryHandler(r.Context())
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLotteryRound(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(r.PathValue("round"))
	if err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_round", "round must be an integer")
		return
	}
	resp, err := s.voting.Handler.LotteryRoundHandler(r.Context(), round)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetLottery(w http.ResponseWriter, r *http.Request) {
	if err := s.voting.Handler.ResetLotteryHandler(r.Context()); err != nil {
		writeVotingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetLotterySettings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.GetLotterySettingsHandler(r.Context())
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveLotterySettings(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.LotterySettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.SaveLotterySettingsHandler(r.Context(), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
