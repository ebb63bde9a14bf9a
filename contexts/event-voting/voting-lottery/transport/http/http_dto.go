package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Set for limit_exceeded.
	MaxVotesPerUser int `json:"max_votes_per_user,omitempty"`
	VoteCount       int `json:"vote_count,omitempty"`
	// Set for insufficient_pool.
	Requested int `json:"requested,omitempty"`
	Available int `json:"available,omitempty"`
}

type CandidateResponse struct {
	CandidateID string    `json:"candidate_id"`
	Name        string    `json:"name"`
	PhotoURL    string    `json:"photo_url"`
	Description string    `json:"description"`
	Votes       int       `json:"votes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CandidateListResponse struct {
	Items []CandidateResponse `json:"items"`
}

type CreateCandidateRequest struct {
	Name        string `json:"name"`
	PhotoPath   string `json:"photo_path"`
	Description string `json:"description"`
}

type UpdateCandidateRequest struct {
	Name        *string `json:"name,omitempty"`
	PhotoPath   *string `json:"photo_path,omitempty"`
	Description *string `json:"description,omitempty"`
}

type SubmitVoteRequest struct {
	CandidateID       string `json:"candidate_id"`
	DeviceFingerprint string `json:"device_fingerprint,omitempty"`
}

type SubmitVoteResponse struct {
	VoteID          string            `json:"vote_id"`
	Candidate       CandidateResponse `json:"candidate"`
	VoteCount       int               `json:"vote_count"`
	MaxVotesPerUser int               `json:"max_votes_per_user"`
	RemainingVotes  int               `json:"remaining_votes"`
	VotedAt         time.Time         `json:"voted_at"`
}

type VoterStatusResponse struct {
	HasVoted        bool `json:"has_voted"`
	VoteCount       int  `json:"vote_count"`
	MaxVotesPerUser int  `json:"max_votes_per_user"`
	RemainingVotes  int  `json:"remaining_votes"`
}

type MyVotesResponse struct {
	CandidateNames []string `json:"candidate_names"`
	VoteCount      int      `json:"vote_count"`
}

type RecentVoteItem struct {
	VoteID        string    `json:"vote_id"`
	CandidateID   string    `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	VoterIP       string    `json:"voter_ip"`
	VotedAt       time.Time `json:"voted_at"`
	VotedAgo      string    `json:"voted_ago"`
}

type RecentVotesResponse struct {
	Items []RecentVoteItem `json:"items"`
}

type StatisticsResponse struct {
	TotalVotes               int                 `json:"total_votes"`
	TotalCandidates          int                 `json:"total_candidates"`
	UniqueVoters             int                 `json:"unique_voters"`
	AverageVotesPerCandidate float64             `json:"average_votes_per_candidate"`
	MaxVotesPerUser          int                 `json:"max_votes_per_user"`
	EstimatedVoters          int                 `json:"estimated_voters"`
	CompletionRateEstimate   float64             `json:"completion_rate_estimate"`
	CompletionRateIsEstimate bool                `json:"completion_rate_is_estimate"`
	TopCandidate             *CandidateResponse  `json:"top_candidate"`
	Candidates               []CandidateResponse `json:"candidates"`
}

type VoteConfigResponse struct {
	VoteName        string    `json:"vote_name"`
	MaxVotesPerUser int       `json:"max_votes_per_user"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UpdateVoteConfigRequest struct {
	VoteName        *string `json:"vote_name,omitempty"`
	MaxVotesPerUser *int    `json:"max_votes_per_user,omitempty"`
}

type DrawRequest struct {
	Count               int    `json:"count"`
	PrizeName           string `json:"prize_name"`
	ExcludePriorWinners *bool  `json:"exclude_prior_winners,omitempty"`
}

type DrawResponse struct {
	Round     int                 `json:"round"`
	PrizeName string              `json:"prize_name"`
	Winners   []CandidateResponse `json:"winners"`
	DrawnAt   time.Time           `json:"drawn_at"`
}

type AvailableCountResponse struct {
	ExcludePriorWinners bool `json:"exclude_prior_winners"`
	Available           int  `json:"available"`
}

type LotteryRecordResponse struct {
	RecordID      string    `json:"record_id"`
	CandidateID   string    `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	PhotoURL      string    `json:"photo_url"`
	Round         int       `json:"round"`
	PrizeName     string    `json:"prize_name"`
	DrawnAt       time.Time `json:"drawn_at"`
}

type LotteryHistoryResponse struct {
	Items []LotteryRecordResponse `json:"items"`
}

type LotterySettingsRequest struct {
	Count          int    `json:"count"`
	PrizeName      string `json:"prize_name"`
	ExcludeWinners bool   `json:"exclude_winners"`
	Rounds         int    `json:"rounds"`
}

type LotterySettingsResponse struct {
	Count           int    `json:"count"`
	PrizeName       string `json:"prize_name"`
	ExcludeWinners  bool   `json:"exclude_winners"`
	Rounds          int    `json:"rounds"`
	CompletedRounds int    `json:"completed_rounds"`
}

type ReconcileResponse struct {
	Repaired int `json:"repaired"`
}
