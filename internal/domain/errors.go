package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrMarketNotFound      = errors.New("market_not_found")
	ErrParticipantNotFound = errors.New("participant_not_found")
	ErrProposalNotFound    = errors.New("proposal_not_found")

	// ErrInitiatorGone marks a match whose initiator left the market before
	// the counter-proposal arrived. The match is abandoned, never fatal.
	ErrInitiatorGone = errors.New("initiator_gone")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
