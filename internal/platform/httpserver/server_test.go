package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	votinglottery "lanvote/contexts/event-voting/voting-lottery"
	"lanvote/contexts/event-voting/voting-lottery/domain/entities"
	votinghttp "lanvote/contexts/event-voting/voting-lottery/transport/http"
	adminauth "lanvote/contexts/identity-access/admin-auth"
	adminhttp "lanvote/contexts/identity-access/admin-auth/transport/http"
	"lanvote/internal/platform/messaging"
	"lanvote/internal/shared/events"
)

type testServer struct {
	*Server
}

func newTestServer(t *testing.T, trustProxyHeaders bool) testServer {
	t.Helper()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seed := []entities.Candidate{
		{CandidateID: "cand-alice", Name: "Alice", CreatedAt: base, UpdatedAt: base},
		{CandidateID: "cand-bob", Name: "Bob", CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)},
	}
	broker := messaging.NewBroker("lanvote-test", 16, slog.Default())
	voting := votinglottery.NewInMemoryModule(seed, broker, slog.Default())
	admin := adminauth.NewInMemoryModule([]byte("server-test-secret"), time.Hour, slog.Default())
	if _, err := admin.EnsureAdmin.EnsureDefaultAdmin(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return testServer{Server: New(voting, admin, broker, slog.Default(), ":0", trustProxyHeaders)}
}

func (s testServer) do(method string, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.RemoteAddr = "192.168.1.20:51000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func (s testServer) login(t *testing.T) map[string]string {
	t.Helper()
	rr := s.do(http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"admin123"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp adminhttp.LoginResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + resp.Token}
}

func TestListCandidatesIsPublic(t *testing.T) {
	server := newTestServer(t, false)
	rr := server.do(http.MethodGet, "/api/v1/candidates", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp votinghttp.CandidateListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].Name != "Alice" {
		t.Fatalf("unexpected candidates: %+v", resp.Items)
	}
}

func TestGetUnknownCandidateReturns404(t *testing.T) {
	server := newTestServer(t, false)
	rr := server.do(http.MethodGet, "/api/v1/candidates/missing", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSubmitVoteThenDuplicateIsConflict(t *testing.T) {
	server := newTestServer(t, false)
	body := `{"candidate_id":"cand-alice"}`

	first := server.do(http.MethodPost, "/api/v1/votes", body, nil)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", first.Code, first.Body.String())
	}
	var resp votinghttp.SubmitVoteResponse
	if err := json.Unmarshal(first.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Candidate.Votes != 1 || resp.VoteCount != 1 {
		t.Fatalf("unexpected vote response: %+v", resp)
	}

	second := server.do(http.MethodPost, "/api/v1/votes", body, nil)
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", second.Code, second.Body.String())
	}
}

func TestSubmitVoteOverCapReturns429WithDetails(t *testing.T) {
	server := newTestServer(t, false)
	headers := server.login(t)
	if rr := server.do(http.MethodPut, "/api/v1/admin/config", `{"max_votes_per_user":1}`, headers); rr.Code != http.StatusOK {
		t.Fatalf("set cap: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	if rr := server.do(http.MethodPost, "/api/v1/votes", `{"candidate_id":"cand-alice"}`, nil); rr.Code != http.StatusCreated {
		t.Fatalf("first vote: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr := server.do(http.MethodPost, "/api/v1/votes", `{"candidate_id":"cand-bob"}`, nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp votinghttp.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "limit_exceeded" || resp.MaxVotesPerUser != 1 || resp.VoteCount != 1 {
		t.Fatalf("unexpected error body: %+v", resp)
	}
}

func TestSubmitVoteRejectsMalformedJSON(t *testing.T) {
	server := newTestServer(t, false)
	rr := server.do(http.MethodPost, "/api/v1/votes", `{"candidate_id":`, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProxyHeadersIgnoredUnlessTrusted(t *testing.T) {
	for _, trusted := range []bool{false, true} {
		server := newTestServer(t, trusted)
		headers := map[string]string{"X-Forwarded-For": "10.0.0.9, 172.16.0.1"}
		if rr := server.do(http.MethodPost, "/api/v1/votes", `{"candidate_id":"cand-alice"}`, headers); rr.Code != http.StatusCreated {
			t.Fatalf("vote: expected 201, got %d body=%s", rr.Code, rr.Body.String())
		}
		recent := server.do(http.MethodGet, "/api/v1/votes/recent?limit=1", "", nil)
		var resp votinghttp.RecentVotesResponse
		if err := json.Unmarshal(recent.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		want := "192.168.1.20"
		if trusted {
			want = "10.0.0.9"
		}
		if len(resp.Items) != 1 || resp.Items[0].VoterIP != want {
			t.Fatalf("trusted=%v: expected voter ip %s, got %+v", trusted, want, resp.Items)
		}
	}
}

func TestVoterStatusUsesFingerprintQuery(t *testing.T) {
	server := newTestServer(t, false)
	if rr := server.do(http.MethodPost, "/api/v1/votes", `{"candidate_id":"cand-alice","device_fingerprint":"fp-1"}`, nil); rr.Code != http.StatusCreated {
		t.Fatalf("vote: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr := server.do(http.MethodGet, "/api/v1/votes/status?device_fingerprint=fp-1", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp votinghttp.VoterStatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.HasVoted || resp.VoteCount != 1 {
		t.Fatalf("unexpected status: %+v", resp)
	}
}

func TestRecentVotesRejectsBadLimit(t *testing.T) {
	server := newTestServer(t, false)
	rr := server.do(http.MethodGet, "/api/v1/votes/recent?limit=zero", "", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLotteryRoundRejectsNonNumericRound(t *testing.T) {
	server := newTestServer(t, false)
	rr := server.do(http.MethodGet, "/api/v1/lottery/rounds/first", "", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestStatisticsIsPublic(t *testing.T) {
	server := newTestServer(t, false)
	rr := server.do(http.MethodGet, "/api/v1/statistics", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"total_candidates":2`) {
		t.Fatalf("unexpected statistics body: %s", rr.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, false)
	rr := server.do(http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestEventStreamDeliversVoteUpdates(t *testing.T) {
	server := newTestServer(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?topic=vote_update", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		server.mux.ServeHTTP(rr, req)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for server.broker.SubscriberCount(events.TopicVoteUpdate) == 0 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := server.broker.Notify(context.Background(), events.TopicVoteUpdate, map[string]int{"total": 1}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rr.Body.String()
	if !strings.Contains(body, "event: vote_update") || !strings.Contains(body, `"total":1`) {
		t.Fatalf("unexpected stream body: %q", body)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
}

func TestEventStreamRejectsUnknownTopic(t *testing.T) {
	server := newTestServer(t, false)
	rr := server.do(http.MethodGet, "/api/v1/events?topic=gossip", "", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}
