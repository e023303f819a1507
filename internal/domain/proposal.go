package domain

import "time"

// ProposalState represents the lifecycle state of a trade proposal.
type ProposalState string

const (
	ProposalStatePending   ProposalState = "pending"
	ProposalStateCompleted ProposalState = "completed"
	ProposalStateExpired   ProposalState = "expired"
)

// Proposal represents a trade offer submitted by a participant. It stays
// pending until a fuzzy-matching counter-proposal from a different
// participant completes it, or its expiry timer removes it.
type Proposal struct {
	ProposalID  string
	Terms       Terms
	InitiatorID int64
	// InitiatorIdentity is captured at submission so an expiry reject
	// reaches the original submitter even after id reuse.
	InitiatorIdentity string

	Seq            uint64 // submission order within the market
	State          ProposalState
	CreatedAt      time.Time
	CompletedAt    *time.Time
	CounterpartyID int64 // participant that completed the trade, 0 while pending
}
