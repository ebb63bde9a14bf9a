package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	votinghttp "lanvote/contexts/event-voting/voting-lottery/transport/http"
)

func TestAdminRoutesRequireBearerToken(t *testing.T) {
	server := newTestServer(t, false)
	routes := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/api/v1/admin/candidates", `{"name":"Carol"}`},
		{http.MethodPatch, "/api/v1/admin/candidates/cand-alice", `{"name":"Alicia"}`},
		{http.MethodDelete, "/api/v1/admin/candidates/cand-alice", ""},
		{http.MethodPost, "/api/v1/admin/votes/reset", ""},
		{http.MethodPost, "/api/v1/admin/counters/reconcile", ""},
		{http.MethodPut, "/api/v1/admin/config", `{"max_votes_per_user":2}`},
		{http.MethodPost, "/api/v1/admin/lottery/draw", `{"count":1,"prize_name":"Mug"}`},
		{http.MethodGet, "/api/v1/admin/lottery/available", ""},
		{http.MethodPost, "/api/v1/admin/lottery/reset", ""},
		{http.MethodPut, "/api/v1/admin/lottery/settings", `{"count":1,"prize_name":"Mug","rounds":1}`},
		{http.MethodPost, "/api/v1/admin/password", `{}`},
		{http.MethodGet, "/api/v1/admin/me", ""},
	}
	for _, route := range routes {
		for _, headers := range []map[string]string{
			nil,
			{"Authorization": "Basic abc"},
			{"Authorization": "Bearer not-a-token"},
		} {
			rr := server.do(route.method, route.target, route.body, headers)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("%s %s with %v: expected 401, got %d body=%s", route.method, route.target, headers, rr.Code, rr.Body.String())
			}
		}
	}
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	server := newTestServer(t, false)
	rr := server.do(http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"nope"}`, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAdminWhoAmI(t *testing.T) {
	server := newTestServer(t, false)
	rr := server.do(http.MethodGet, "/api/v1/admin/me", "", server.login(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Body.String() != "{\"username\":\"admin\"}\n" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}

func TestAdminChangePasswordValidation(t *testing.T) {
	server := newTestServer(t, false)
	headers := server.login(t)

	rr := server.do(http.MethodPost, "/api/v1/admin/password", `{"current_password":"admin123","new_password":"abc","confirm_password":"abc"}`, headers)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = server.do(http.MethodPost, "/api/v1/admin/password", `{"current_password":"admin123","new_password":"secret99","confirm_password":"secret99"}`, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = server.do(http.MethodPost, "/api/v1/admin/login", `{"username":"admin","password":"secret99"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected login with new password, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAdminCandidateLifecycle(t *testing.T) {
	server := newTestServer(t, false)
	headers := server.login(t)

	rr := server.do(http.MethodPost, "/api/v1/admin/candidates", `{"name":"Carol","description":"Team C"}`, headers)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created votinghttp.CandidateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if rr := server.do(http.MethodPost, "/api/v1/admin/candidates", `{"name":"Carol"}`, headers); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := server.do(http.MethodPost, "/api/v1/admin/candidates", `{"name":"   "}`, headers); rr.Code != http.StatusBadRequest {
		t.Fatalf("blank: expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := server.do(http.MethodPatch, "/api/v1/admin/candidates/"+created.CandidateID, `{"description":"Team Carol"}`, headers); rr.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := server.do(http.MethodDelete, "/api/v1/admin/candidates/"+created.CandidateID, "", headers); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := server.do(http.MethodDelete, "/api/v1/admin/candidates/"+created.CandidateID, "", headers); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAdminDrawMapsPoolErrors(t *testing.T) {
	server := newTestServer(t, false)
	headers := server.login(t)

	rr := server.do(http.MethodPost, "/api/v1/admin/lottery/draw", `{"count":3,"prize_name":"Mug"}`, headers)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("insufficient pool: expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}
	var errResp votinghttp.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != "insufficient_pool" || errResp.Requested != 3 || errResp.Available != 2 {
		t.Fatalf("unexpected error body: %+v", errResp)
	}

	rr = server.do(http.MethodPost, "/api/v1/admin/lottery/draw", `{"count":2,"prize_name":"Mug","exclude_prior_winners":true}`, headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("draw: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var draw votinghttp.DrawResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &draw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if draw.Round != 1 || len(draw.Winners) != 2 {
		t.Fatalf("unexpected draw: %+v", draw)
	}

	rr = server.do(http.MethodGet, "/api/v1/admin/lottery/available?exclude_prior_winners=true", "", headers)
	if rr.Code != http.StatusOK {
		t.Fatalf("available: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var available votinghttp.AvailableCountResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &available); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if available.Available != 0 || !available.ExcludePriorWinners {
		t.Fatalf("expected an exhausted pool, got %+v", available)
	}

	rr = server.do(http.MethodPost, "/api/v1/admin/lottery/draw", `{"count":1,"prize_name":"Mug","exclude_prior_winners":true}`, headers)
	if rr.Code != http.StatusUnprocessableEntity || !json.Valid(rr.Body.Bytes()) {
		t.Fatalf("empty pool: expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &errResp); err != nil || errResp.Code != "empty_pool" {
		t.Fatalf("expected empty_pool, got %+v err=%v", errResp, err)
	}

	history := server.do(http.MethodGet, "/api/v1/lottery/rounds/1", "", nil)
	if history.Code != http.StatusOK {
		t.Fatalf("round: expected 200, got %d body=%s", history.Code, history.Body.String())
	}
}
