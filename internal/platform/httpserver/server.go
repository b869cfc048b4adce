package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	proposalledger "parkpulse/contexts/governance/proposal-ledger"
	ledgererrors "parkpulse/contexts/governance/proposal-ledger/domain/errors"
	ledgerhttp "parkpulse/contexts/governance/proposal-ledger/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "parkpulse/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	governance proposalledger.Module
}

func New(governance proposalledger.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		governance: governance,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/contract/info", s.handleContractInfo)

	s.mux.HandleFunc("POST /api/contract/create-proposal", s.handleCreateProposal)
	s.mux.HandleFunc("GET /api/contract/proposal/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("GET /api/contract/proposals", s.handleListProposals)
	s.mux.HandleFunc("GET /api/contract/proposals/{status}", s.handleListProposalsByPath)

	s.mux.HandleFunc("POST /api/contract/vote", s.handleCastVote)
	s.mux.HandleFunc("GET /api/contract/has-voted/{proposal_id}/{account}", s.handleHasVoted)
	s.mux.HandleFunc("GET /api/contract/vote/{proposal_id}/{account}", s.handleGetVote)

	s.mux.HandleFunc("POST /api/contract/close-proposal", s.handleCloseProposal)
	s.mux.HandleFunc("POST /api/contract/force-close", s.handleForceClose)

	s.mux.HandleFunc("POST /api/contract/set-funding-goal", s.handleSetFundingGoal)
	s.mux.HandleFunc("POST /api/contract/donate", s.handleDonate)
	s.mux.HandleFunc("POST /api/contract/withdraw-funds", s.handleWithdraw)
	s.mux.HandleFunc("GET /api/contract/donation-progress/{proposal_id}", s.handleDonationProgress)
	s.mux.HandleFunc("GET /api/contract/donations/{proposal_id}", s.handleDonations)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleContractInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.ContractInfoHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	creator, ok := requireAccount(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.CreateProposalHandler(r.Context(), creator, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := parseProposalID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.GetProposalHandler(r.Context(), proposalID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	s.listProposals(w, r, r.URL.Query().Get("status"))
}

func (s *Server) handleListProposalsByPath(w http.ResponseWriter, r *http.Request) {
	s.listProposals(w, r, r.PathValue("status"))
}

func (s *Server) listProposals(w http.ResponseWriter, r *http.Request, status string) {
	resp, err := s.governance.Handler.ListProposalsHandler(r.Context(), status)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := requireAccount(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.CastVoteHandler(r.Context(), voter, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := parseProposalID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.HasVotedHandler(r.Context(), proposalID, r.PathValue("account"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVote(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := parseProposalID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.GetVoteHandler(r.Context(), proposalID, r.PathValue("account"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAccount(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.CloseProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.CloseProposalHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleForceClose(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAccount(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.ForceCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.ForceCloseHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetFundingGoal(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAccount(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.SetFundingGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.SetFundingGoalHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDonate(w http.ResponseWriter, r *http.Request) {
	donor, ok := requireAccount(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.DonateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.DonateHandler(r.Context(), donor, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireAccount(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.WithdrawHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDonationProgress(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := parseProposalID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.DonationProgressHandler(r.Context(), proposalID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDonations(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := parseProposalID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.DonationsHandler(r.Context(), proposalID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	account := strings.TrimSpace(r.Header.Get("X-Account-Id"))
	if account == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_account", "X-Account-Id header is required")
		return "", false
	}
	return account, true
}

func parseProposalID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.PathValue("proposal_id")
	proposalID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || proposalID == 0 {
		writeLedgerError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal_id must be a positive integer")
		return 0, false
	}
	return proposalID, true
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrInvalidProposalInput),
		errors.Is(err, ledgererrors.ErrDeadlineNotFuture),
		errors.Is(err, ledgererrors.ErrInvalidAmount),
		errors.Is(err, ledgererrors.ErrInvalidStatusFilter),
		errors.Is(err, ledgererrors.ErrInvalidIdentity):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrProposalNotFound):
		writeLedgerError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrNotAdministrator):
		writeLedgerError(w, http.StatusForbidden, "not_administrator", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyVoted):
		writeLedgerError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, ledgererrors.ErrProposalNotActive),
		errors.Is(err, ledgererrors.ErrProposalNotOpen),
		errors.Is(err, ledgererrors.ErrVotingClosed),
		errors.Is(err, ledgererrors.ErrVotingStillOpen),
		errors.Is(err, ledgererrors.ErrProposalResolved),
		errors.Is(err, ledgererrors.ErrFundingDisabled),
		errors.Is(err, ledgererrors.ErrNothingToWithdraw),
		errors.Is(err, ledgererrors.ErrConflict):
		writeLedgerError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, ledgererrors.ErrTransferFailed):
		writeLedgerError(w, http.StatusBadGateway, "transfer_failed", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
