package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	proposalledger "parkpulse/contexts/governance/proposal-ledger"
	"parkpulse/internal/platform/identity"
)

const testAdminAccount = "0.0.2"

func newTestServer() *Server {
	module := proposalledger.NewInMemoryModule(identity.NewNormalizer(), testAdminAccount, nil)
	return New(module, nil, ":0")
}

func createTestProposal(t *testing.T, server *Server) uint64 {
	t.Helper()
	body := fmt.Sprintf(`{
		"park_name": "Riverside Commons",
		"park_id": "park-001",
		"voting_deadline": %q
	}`, time.Now().Add(48*time.Hour).UTC().Format(time.RFC3339))

	req := httptest.NewRequest(http.MethodPost, "/api/contract/create-proposal", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-Id", "0.0.1001")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create proposal: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		ProposalID uint64 `json:"proposal_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if resp.ProposalID == 0 {
		t.Fatalf("expected allocated proposal id, got 0")
	}
	return resp.ProposalID
}

func TestCreateProposalRequiresAccountHeader(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/contract/create-proposal", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPrivilegedRoutesRejectNonAdministrator(t *testing.T) {
	server := newTestServer()
	proposalID := createTestProposal(t, server)

	routes := []struct {
		path string
		body string
	}{
		{"/api/contract/close-proposal", fmt.Sprintf(`{"proposal_id":%d}`, proposalID)},
		{"/api/contract/force-close", fmt.Sprintf(`{"proposal_id":%d,"status":"declined"}`, proposalID)},
		{"/api/contract/set-funding-goal", fmt.Sprintf(`{"proposal_id":%d,"goal":100}`, proposalID)},
		{"/api/contract/withdraw-funds", fmt.Sprintf(`{"proposal_id":%d,"recipient":"0.0.1001"}`, proposalID)},
	}
	for _, route := range routes {
		req := httptest.NewRequest(http.MethodPost, route.path, bytes.NewReader([]byte(route.body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Account-Id", "0.0.9999")

		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d body=%s", route.path, rr.Code, rr.Body.String())
		}
	}
}

func TestGetUnknownProposalReturnsNotFound(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/contract/proposal/42", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestListProposalsRejectsUnknownStatus(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/contract/proposals?status=pending", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestVoteThenDoubleVoteConflicts(t *testing.T) {
	server := newTestServer()
	proposalID := createTestProposal(t, server)
	body := fmt.Sprintf(`{"proposal_id":%d,"support":true}`, proposalID)

	first := httptest.NewRequest(http.MethodPost, "/api/contract/vote", bytes.NewReader([]byte(body)))
	first.Header.Set("Content-Type", "application/json")
	first.Header.Set("X-Account-Id", "0.0.5005")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, first)
	if rr.Code != http.StatusOK {
		t.Fatalf("first vote: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	second := httptest.NewRequest(http.MethodPost, "/api/contract/vote", bytes.NewReader([]byte(body)))
	second.Header.Set("Content-Type", "application/json")
	second.Header.Set("X-Account-Id", "0.0.5005")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, second)
	if rr.Code != http.StatusConflict {
		t.Fatalf("double vote: expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCloseProposalBeforeDeadlineConflicts(t *testing.T) {
	server := newTestServer()
	proposalID := createTestProposal(t, server)
	body := fmt.Sprintf(`{"proposal_id":%d}`, proposalID)

	req := httptest.NewRequest(http.MethodPost, "/api/contract/close-proposal", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-Id", testAdminAccount)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestVoteRejectsMalformedAccount(t *testing.T) {
	server := newTestServer()
	proposalID := createTestProposal(t, server)
	body := fmt.Sprintf(`{"proposal_id":%d,"support":true}`, proposalID)

	req := httptest.NewRequest(http.MethodPost, "/api/contract/vote", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-Id", "not-an-account")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestContractInfoReportsAdminAndTotals(t *testing.T) {
	server := newTestServer()
	createTestProposal(t, server)

	req := httptest.NewRequest(http.MethodGet, "/api/contract/info", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		AdminAccount   string `json:"admin_account"`
		TotalProposals uint64 `json:"total_proposals"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode info response: %v", err)
	}
	if resp.AdminAccount != testAdminAccount {
		t.Fatalf("admin account: got %q want %q", resp.AdminAccount, testAdminAccount)
	}
	if resp.TotalProposals != 1 {
		t.Fatalf("total proposals: got %d want 1", resp.TotalProposals)
	}
}
