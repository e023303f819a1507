package service

import (
	"regexp"
	"time"

	"github.com/efreitasn/openoutcry/internal/domain"
	"github.com/efreitasn/openoutcry/internal/engine"
)

var marketIDRegex = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// MarketSummary is the read model for one market.
type MarketSummary struct {
	ID             string
	Name           string
	TradeTimeout   time.Duration
	Participants   int
	Buyers         int
	Sellers        int
	PendingCount   int
	CompletedCount int
}

// MarketService exposes read-only views over the running markets for the
// instructor dashboard.
type MarketService struct {
	markets *engine.Manager
}

// NewMarketService creates a new MarketService.
func NewMarketService(markets *engine.Manager) *MarketService {
	return &MarketService{markets: markets}
}

// List returns summaries for all markets, ordered by market id.
func (s *MarketService) List() []MarketSummary {
	sessions := s.markets.List()
	result := make([]MarketSummary, len(sessions))
	for i, sess := range sessions {
		result[i] = summarize(sess)
	}
	return result
}

// Get returns the summary for one market.
func (s *MarketService) Get(id string) (MarketSummary, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return MarketSummary{}, err
	}
	return summarize(sess), nil
}

// Participants returns a market's participants in join order.
func (s *MarketService) Participants(id string) ([]*domain.Participant, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return sess.Participants(), nil
}

// Trades returns a market's completed trades in completion order.
func (s *MarketService) Trades(id string) ([]*domain.Proposal, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return sess.CompletedTrades(), nil
}

func (s *MarketService) lookup(id string) (*engine.Session, error) {
	if !marketIDRegex.MatchString(id) {
		return nil, &domain.ValidationError{
			Message: "market id must match ^[a-z0-9_-]{1,64}$",
		}
	}
	return s.markets.Get(id)
}

func summarize(sess *engine.Session) MarketSummary {
	roles := sess.Roles()
	return MarketSummary{
		ID:             sess.ID(),
		Name:           sess.Name(),
		TradeTimeout:   sess.TradeTimeout(),
		Participants:   roles.Buyers + roles.Sellers,
		Buyers:         roles.Buyers,
		Sellers:        roles.Sellers,
		PendingCount:   len(sess.PendingProposals()),
		CompletedCount: len(sess.CompletedTrades()),
	}
}
