package events

import "time"

const (
	TopicVoteUpdate    = "vote_update"
	TopicLotteryResult = "lottery_result"
)

// Envelope is the shape pushed to live screens.
type Envelope struct {
	EventID       string    `json:"event_id"`
	Topic         string    `json:"topic"`
	SourceService string    `json:"source_service"`
	OccurredAtUTC time.Time `json:"occurred_at_utc"`
	Payload       any       `json:"payload"`
}
