package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lanvote/internal/shared/events"
)

const sseKeepAliveInterval = 25 * time.Second

var streamTopics = map[string]bool{
	events.TopicVoteUpdate:    true,
	events.TopicLotteryResult: true,
}

// handleEvents streams broadcast envelopes as server-sent events.
// Without a topic query parameter every topic is streamed.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.broker == nil {
		writeVotingError(w, http.StatusServiceUnavailable, "broadcast_unavailable", "live updates are not enabled")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeVotingError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming is not supported")
		return
	}

	topics := r.URL.Query()["topic"]
	if len(topics) == 0 {
		topics = []string{events.TopicVoteUpdate, events.TopicLotteryResult}
	}
	for _, topic := range topics {
		if !streamTopics[topic] {
			writeVotingError(w, http.StatusBadRequest, "invalid_topic", fmt.Sprintf("unknown topic %q", topic))
			return
		}
	}

	ctx := r.Context()
	stream := s.broker.Subscribe(ctx, topics...)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.logger.Debug("event stream opened",
		"event", "http_event_stream_opened",
		"module", moduleName,
		"layer", "transport",
		"topics", topics,
	)

	keepAlive := time.NewTicker(sseKeepAliveInterval)
	defer keepAlive.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case envelope, open := <-stream:
			if !open {
				return
			}
			data, err := json.Marshal(envelope)
			if err != nil {
				s.logger.Error("event encode failed",
					"event", "http_event_encode_failed",
					"module", moduleName,
					"layer", "transport",
					"topic", envelope.Topic,
					"error", err.Error(),
				)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", envelope.EventID, envelope.Topic, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
