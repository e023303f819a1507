package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/openoutcry/internal/domain"
	"github.com/efreitasn/openoutcry/internal/service"
)

// MarketHandler handles HTTP requests for the read-only market endpoints.
type MarketHandler struct {
	marketSvc *service.MarketService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc *service.MarketService) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc}
}

// marketResponse is the JSON shape of one market summary.
type marketResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TradeTimeoutMs int64  `json:"trade_timeout_ms"`
	Participants   int    `json:"participants"`
	Buyers         int    `json:"buyers"`
	Sellers        int    `json:"sellers"`
	PendingCount   int    `json:"pending_count"`
	CompletedCount int    `json:"completed_count"`
}

// marketListResponse is the JSON response for GET /markets.
type marketListResponse struct {
	Markets []marketResponse `json:"markets"`
}

// participantResponse is a single participant in the listing.
type participantResponse struct {
	ID       int64  `json:"id"`
	Identity string `json:"identity"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

// participantListResponse is the JSON response for
// GET /markets/{market_id}/participants.
type participantListResponse struct {
	Participants []participantResponse `json:"participants"`
}

// tradeResponse is a single completed trade in the listing.
type tradeResponse struct {
	ProposalID     string         `json:"proposal_id"`
	Terms          map[string]any `json:"terms"`
	InitiatorID    int64          `json:"initiator_id"`
	CounterpartyID int64          `json:"counterparty_id"`
	CreatedAt      string         `json:"created_at"`
	CompletedAt    string         `json:"completed_at"`
}

// tradeListResponse is the JSON response for GET /markets/{market_id}/trades.
type tradeListResponse struct {
	Trades []tradeResponse `json:"trades"`
}

const timeLayout = "2006-01-02T15:04:05Z"

// List handles GET /markets.
func (h *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries := h.marketSvc.List()

	markets := make([]marketResponse, len(summaries))
	for i, s := range summaries {
		markets[i] = toMarketResponse(s)
	}
	WriteJSON(w, http.StatusOK, marketListResponse{Markets: markets})
}

// Get handles GET /markets/{market_id}.
func (h *MarketHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.marketSvc.Get(chi.URLParam(r, "market_id"))
	if err != nil {
		mapMarketError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toMarketResponse(summary))
}

// ListParticipants handles GET /markets/{market_id}/participants.
func (h *MarketHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.marketSvc.Participants(chi.URLParam(r, "market_id"))
	if err != nil {
		mapMarketError(w, err)
		return
	}

	result := make([]participantResponse, len(participants))
	for i, p := range participants {
		result[i] = participantResponse{
			ID:       p.ID,
			Identity: p.Identity,
			Name:     p.Name,
			Role:     string(p.Role),
			JoinedAt: p.JoinedAt.UTC().Format(timeLayout),
		}
	}
	WriteJSON(w, http.StatusOK, participantListResponse{Participants: result})
}

// ListTrades handles GET /markets/{market_id}/trades.
func (h *MarketHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.marketSvc.Trades(chi.URLParam(r, "market_id"))
	if err != nil {
		mapMarketError(w, err)
		return
	}

	result := make([]tradeResponse, len(trades))
	for i, t := range trades {
		resp := tradeResponse{
			ProposalID:     t.ProposalID,
			Terms:          t.Terms,
			InitiatorID:    t.InitiatorID,
			CounterpartyID: t.CounterpartyID,
			CreatedAt:      t.CreatedAt.UTC().Format(timeLayout),
		}
		if t.CompletedAt != nil {
			resp.CompletedAt = t.CompletedAt.UTC().Format(timeLayout)
		}
		result[i] = resp
	}
	WriteJSON(w, http.StatusOK, tradeListResponse{Trades: result})
}

func toMarketResponse(s service.MarketSummary) marketResponse {
	return marketResponse{
		ID:             s.ID,
		Name:           s.Name,
		TradeTimeoutMs: s.TradeTimeout.Milliseconds(),
		Participants:   s.Participants,
		Buyers:         s.Buyers,
		Sellers:        s.Sellers,
		PendingCount:   s.PendingCount,
		CompletedCount: s.CompletedCount,
	}
}

// mapMarketError maps domain errors to HTTP responses for market endpoints.
func mapMarketError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrMarketNotFound):
		WriteError(w, http.StatusNotFound, "market_not_found", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
