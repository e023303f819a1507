package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello  = "HELLO"  // client → server: join a market
	TypeTrade  = "TRADE"  // client → server: submit a proposal
	TypeStatus = "STATUS" // server → client: assigned participant record
	TypeAccept = "ACCEPT" // server → client: trade completed
	TypeReject = "REJECT" // server → client: proposal expired unmatched
	TypeError  = "ERROR"  // server → client: request failed
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
