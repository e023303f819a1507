package ws

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/efreitasn/openoutcry/internal/domain"
	"github.com/efreitasn/openoutcry/internal/engine"
	"github.com/efreitasn/openoutcry/internal/protocol"
)

var errUnknownPayload = errors.New("unknown message payload")

// client is one live connection's send side.
type client struct {
	market string
	out    chan []byte
}

// ConnTable maps transport identities to live connections and implements
// engine.Messenger. Sends to unknown identities (departed participants) and
// to clients with a full out channel are dropped; the engine never blocks
// on delivery.
type ConnTable struct {
	mu    sync.RWMutex
	conns map[string]client
}

// NewConnTable creates an empty ConnTable.
func NewConnTable() *ConnTable {
	return &ConnTable{
		conns: make(map[string]client),
	}
}

func (t *ConnTable) register(identity, market string, out chan []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conns[identity] = client{market: market, out: out}
}

func (t *ConnTable) unregister(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.conns, identity)
}

// Send delivers a typed message to the participant with the given identity.
func (t *ConnTable) Send(identity string, kind domain.MessageKind, payload any) {
	t.mu.RLock()
	c, ok := t.conns[identity]
	t.mu.RUnlock()
	if !ok {
		return
	}

	b, err := encodeMessage(c.market, kind, payload)
	if err != nil {
		return
	}

	select {
	case c.out <- b:
	default:
		// Slow consumer; drop rather than block the engine.
	}
}

// encodeMessage builds the wire frame for one engine message.
func encodeMessage(market string, kind domain.MessageKind, payload any) ([]byte, error) {
	switch kind {
	case domain.MessageStatus:
		sp, ok := payload.(engine.StatusPayload)
		if !ok {
			return nil, errUnknownPayload
		}
		return json.Marshal(protocol.StatusMsg{
			Type:   protocol.TypeStatus,
			Market: market,
			Participant: protocol.ParticipantInfo{
				ID:       sp.ID,
				Identity: sp.Identity,
				Name:     sp.Name,
				Role:     string(sp.Role),
			},
		})
	case domain.MessageAccept:
		terms, ok := payload.(domain.Terms)
		if !ok {
			return nil, errUnknownPayload
		}
		return json.Marshal(protocol.AcceptMsg{
			Type:   protocol.TypeAccept,
			Market: market,
			Terms:  terms,
		})
	case domain.MessageReject:
		terms, ok := payload.(domain.Terms)
		if !ok {
			return nil, errUnknownPayload
		}
		return json.Marshal(protocol.RejectMsg{
			Type:   protocol.TypeReject,
			Market: market,
			Terms:  terms,
		})
	}
	return nil, errUnknownPayload
}
