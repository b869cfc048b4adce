package errors

import "errors"

// Grouped by the rejection taxonomy the transport layer maps to status codes.
var (
	// invalid input: rejected before any mutation
	ErrInvalidProposalInput = errors.New("invalid proposal input")
	ErrDeadlineNotFuture    = errors.New("voting deadline must be in the future")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidStatusFilter  = errors.New("invalid proposal status filter")
	ErrInvalidIdentity      = errors.New("invalid account identity")

	// not found
	ErrProposalNotFound = errors.New("proposal not found")

	// unauthorized
	ErrNotAdministrator = errors.New("caller is not the administrator")

	// invalid state: operation not valid for the current proposal status
	ErrProposalNotActive = errors.New("proposal is not active")
	ErrProposalNotOpen   = errors.New("proposal is not open for funding")
	ErrAlreadyVoted      = errors.New("identity has already voted on this proposal")
	ErrVotingClosed      = errors.New("voting deadline has passed")
	ErrVotingStillOpen   = errors.New("voting deadline has not passed yet")
	ErrProposalResolved  = errors.New("proposal is already resolved")
	ErrFundingDisabled   = errors.New("fundraising is not enabled for this proposal")
	ErrNothingToWithdraw = errors.New("no funds available to withdraw")

	// transfer failure: recoverable, escrow balance stays intact
	ErrTransferFailed = errors.New("external value transfer failed")

	ErrConflict = errors.New("ledger write conflict")
)
