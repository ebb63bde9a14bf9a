package entities

import (
	"fmt"
	"strings"
	"time"
)

type Vote struct {
	VoteID            string
	CandidateID       string
	CandidateName     string
	VoterIP           string
	DeviceFingerprint string
	UserAgent         string
	VotedAt           time.Time
}

func (v Vote) Identity() VoterIdentity {
	return VoterIdentity{IP: v.VoterIP, Fingerprint: v.DeviceFingerprint}
}

// VoterIdentity is the (ip, fingerprint) tuple used for de-duplication and the
// per-voter cap. An absent fingerprint is the empty string.
type VoterIdentity struct {
	IP          string
	Fingerprint string
}

func NewVoterIdentity(ip string, fingerprint string) VoterIdentity {
	return VoterIdentity{
		IP:          strings.TrimSpace(ip),
		Fingerprint: strings.TrimSpace(fingerprint),
	}
}

func (id VoterIdentity) HasFingerprint() bool {
	return id.Fingerprint != ""
}

// IdentityMode decides how a probe identity is compared against stored votes.
type IdentityMode string

const (
	// IdentityModeIPFallback matches by IP alone when the probe carries no
	// fingerprint, and by the full tuple otherwise. Voters behind one NAT
	// without fingerprints share a single identity in this mode.
	IdentityModeIPFallback IdentityMode = "ip_fallback"
	// IdentityModeExact always compares the full tuple; the empty fingerprint is
	// a distinct value, so a fingerprint-less probe never matches votes that
	// were cast with one.
	IdentityModeExact IdentityMode = "exact"
)

func ParseIdentityMode(raw string) (IdentityMode, error) {
	switch IdentityMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", IdentityModeIPFallback:
		return IdentityModeIPFallback, nil
	case IdentityModeExact:
		return IdentityModeExact, nil
	default:
		return "", fmt.Errorf("unknown voter identity mode %q", raw)
	}
}

func (m IdentityMode) OrDefault() IdentityMode {
	if m == "" {
		return IdentityModeIPFallback
	}
	return m
}

// Matches reports whether a stored identity belongs to the probe identity.
func (m IdentityMode) Matches(stored VoterIdentity, probe VoterIdentity) bool {
	if stored.IP != probe.IP {
		return false
	}
	if !m.MatchesFingerprint(probe) {
		return true
	}
	return stored.Fingerprint == probe.Fingerprint
}

// MatchesFingerprint reports whether the mode compares fingerprints for the
// given probe. Storage adapters use it to decide whether to filter on the
// fingerprint column.
func (m IdentityMode) MatchesFingerprint(probe VoterIdentity) bool {
	return !(m.OrDefault() == IdentityModeIPFallback && !probe.HasFingerprint())
}

type VoteTally struct {
	TotalVotes   int
	UniqueVoters int
}

type VoteStatistics struct {
	TotalVotes               int
	TotalCandidates          int
	UniqueVoters             int
	AverageVotesPerCandidate float64
	MaxVotesPerUser          int
	EstimatedVoters          int
	CompletionRateEstimate   float64
	Candidates               []Candidate
	TopCandidate             *Candidate
}

type VoterStatus struct {
	HasVoted        bool
	VoteCount       int
	MaxVotesPerUser int
}

type VoterVotes struct {
	CandidateNames []string
	VoteCount      int
}

// CounterDrift records a candidate whose cached counter disagreed with the
// ledger before reconciliation.
type CounterDrift struct {
	CandidateID string
	Cached      int
	Actual      int
}
