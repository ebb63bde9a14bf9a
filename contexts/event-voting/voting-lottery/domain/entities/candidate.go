package entities

import (
	"sort"
	"strings"
	"time"
)

const photoURLPrefix = "/uploads/photos/"

type Candidate struct {
	CandidateID string
	Name        string
	PhotoPath   string
	Description string
	Votes       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PhotoURL resolves the stored photo reference into the path served under
// /uploads/photos. Absolute URLs and unrelated absolute paths are kept as-is.
func (c Candidate) PhotoURL() string {
	path := strings.TrimSpace(c.PhotoPath)
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "/uploads/"):
		if strings.Contains(path, "/photos/") {
			return path
		}
		return photoURLPrefix + strings.TrimPrefix(path, "/uploads/")
	case strings.HasPrefix(path, "uploads/"):
		return "/" + path
	case strings.HasPrefix(path, "/"):
		return path
	default:
		return photoURLPrefix + path
	}
}

// SortCandidatesByVotes orders by votes desc; ties fall back to name, then id,
// so the leader is stable across storage backends.
func SortCandidatesByVotes(items []Candidate) {
	sortCandidates(items, func(a, b Candidate) bool {
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.CandidateID < b.CandidateID
	})
}

// SortCandidatesByCreation is the listing order used for registry reads and
// broadcast snapshots.
func SortCandidatesByCreation(items []Candidate) {
	sortCandidates(items, func(a, b Candidate) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CandidateID < b.CandidateID
	})
}

func sortCandidates(items []Candidate, less func(a, b Candidate) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}
