package domain

// MessageKind classifies messages delivered to a participant.
type MessageKind string

const (
	MessageStatus MessageKind = "status" // join confirmation with the assigned record
	MessageAccept MessageKind = "accept" // trade completed, sent to both sides
	MessageReject MessageKind = "reject" // proposal expired unmatched
)
