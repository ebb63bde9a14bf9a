package entities

import (
	"sort"
	"time"
)

const DefaultPrizeName = "幸运奖"

type LotteryRecord struct {
	RecordID      string
	CandidateID   string
	CandidateName string
	PhotoPath     string
	Round         int
	PrizeName     string
	DrawnAt       time.Time
}

type DrawResult struct {
	Round     int
	PrizeName string
	Winners   []Candidate
	DrawnAt   time.Time
}

// LotterySettings are the admin's saved draw presets.
type LotterySettings struct {
	Count           int
	PrizeName       string
	ExcludeWinners  bool
	Rounds          int
	CompletedRounds int
	UpdatedAt       time.Time
}

func DefaultLotterySettings() LotterySettings {
	return LotterySettings{
		Count:          1,
		PrizeName:      DefaultPrizeName,
		ExcludeWinners: true,
		Rounds:         1,
	}
}

// SortLotteryHistory orders records by round desc, then drawn_at desc.
func SortLotteryHistory(items []LotteryRecord) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Round != items[j].Round {
			return items[i].Round > items[j].Round
		}
		if !items[i].DrawnAt.Equal(items[j].DrawnAt) {
			return items[i].DrawnAt.After(items[j].DrawnAt)
		}
		return items[i].RecordID < items[j].RecordID
	})
}
