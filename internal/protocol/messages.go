package protocol

// HELLO (client → server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Market          string `json:"market"`
	Name            string `json:"name,omitempty"`
}

// TRADE (client → server)
type TradeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Terms           map[string]any `json:"terms"`
}

// ParticipantInfo is the participant record echoed in STATUS messages.
type ParticipantInfo struct {
	ID       int64  `json:"id"`
	Identity string `json:"identity"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
}

// STATUS (server → client)
type StatusMsg struct {
	Type        string          `json:"type"`
	Market      string          `json:"market"`
	Participant ParticipantInfo `json:"participant"`
}

// ACCEPT (server → client)
type AcceptMsg struct {
	Type   string         `json:"type"`
	Market string         `json:"market"`
	Terms  map[string]any `json:"terms"`
}

// REJECT (server → client)
type RejectMsg struct {
	Type   string         `json:"type"`
	Market string         `json:"market"`
	Terms  map[string]any `json:"terms"`
}

// ERROR (server → client)
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
