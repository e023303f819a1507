package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/efreitasn/openoutcry/internal/domain"
	"github.com/efreitasn/openoutcry/internal/engine"
	"github.com/efreitasn/openoutcry/internal/protocol"
)

const outQueueSize = 32

// Server upgrades HTTP requests to websocket sessions. Each connection
// handshakes with a HELLO naming the market, joins as a participant, sends
// TRADE frames, and leaves on disconnect.
type Server struct {
	markets *engine.Manager
	table   *ConnTable
	logger  *slog.Logger

	upgrader websocket.Upgrader
}

// NewServer creates a websocket server over the given markets. The table
// must be the same ConnTable the sessions use as their Messenger.
func NewServer(markets *engine.Manager, table *ConnTable, logger *slog.Logger) *Server {
	return &Server{
		markets: markets,
		table:   table,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // classroom default
		},
	}
}

// Handler returns the http handler for the websocket endpoint.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		session, name := s.handshake(conn)
		if session == nil {
			return
		}

		identity := uuid.New().String()
		out := make(chan []byte, outQueueSize)
		s.table.register(identity, session.ID(), out)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		session.Join(identity, name)

		// Reader loop.
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				continue
			}
			if base.Type != protocol.TypeTrade {
				continue
			}
			var trade protocol.TradeMsg
			if err := json.Unmarshal(msg, &trade); err != nil {
				continue
			}
			if trade.ProtocolVersion != protocol.Version || len(trade.Terms) == 0 {
				continue
			}
			if err := session.Trade(identity, domain.Terms(trade.Terms)); err != nil {
				s.sendError(out, "trade_failed", err.Error())
			}
		}

		// Cleanup.
		session.Leave(identity)
		s.table.unregister(identity)
	}
}

// handshake reads the HELLO frame and resolves the market session.
// A nil session means the handshake failed and the connection was closed.
func (s *Server) handshake(conn *websocket.Conn) (*engine.Session, string) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	_ = conn.SetReadDeadline(time.Time{})
	if err != nil {
		return nil, ""
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		s.closePolicy(conn, "expected HELLO")
		return nil, ""
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil, ""
	}
	if hello.ProtocolVersion != protocol.Version {
		s.closePolicy(conn, "bad protocol_version")
		return nil, ""
	}

	session, err := s.markets.Get(hello.Market)
	if err != nil {
		s.closePolicy(conn, "unknown market")
		return nil, ""
	}
	return session, hello.Name
}

func (s *Server) closePolicy(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(time.Second),
	)
}

// sendError queues an ERROR frame, dropping it if the client is slow.
func (s *Server) sendError(out chan []byte, code, message string) {
	b, err := json.Marshal(protocol.ErrorMsg{
		Type:    protocol.TypeError,
		Code:    code,
		Message: message,
	})
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}
