package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/efreitasn/openoutcry/internal/domain"
	"github.com/efreitasn/openoutcry/internal/store"
)

// Messenger delivers typed messages to participants addressed by transport
// identity. Delivery is fire-and-forget and must not block: sends to a
// departed or slow participant are dropped.
type Messenger interface {
	Send(identity string, kind domain.MessageKind, payload any)
}

// StatusPayload echoes the assigned participant record to a joiner.
type StatusPayload struct {
	ID       int64       `json:"id"`
	Identity string      `json:"identity"`
	Name     string      `json:"name,omitempty"`
	Role     domain.Role `json:"role"`
}

// Session is the matching engine for one market. It owns the market's
// participant registry and proposal store and runs the proposal state
// machine: pending → completed on a fuzzy-matching counter-proposal from a
// different participant, pending → expired when the trade timeout fires
// first.
//
// All mutations of one session (Join, Leave, Trade, expiry) serialize on a
// single mutex; the match-vs-self-match-vs-new-pending decision needs a
// consistent read of both the registry and the store. Messages are
// dispatched after the lock is released.
type Session struct {
	id           string
	name         string
	participants *store.ParticipantRegistry
	proposals    *store.ProposalStore
	messenger    Messenger
	tradeTimeout time.Duration
	logger       *slog.Logger
	mu           sync.Mutex
}

// NewSession creates a session for the given market.
func NewSession(
	id string,
	name string,
	tradeTimeout time.Duration,
	matcher *domain.TermsMatcher,
	messenger Messenger,
	logger *slog.Logger,
) *Session {
	return &Session{
		id:           id,
		name:         name,
		participants: store.NewParticipantRegistry(),
		proposals:    store.NewProposalStore(matcher),
		messenger:    messenger,
		tradeTimeout: tradeTimeout,
		logger:       logger,
	}
}

// ID returns the market id.
func (s *Session) ID() string {
	return s.id
}

// Name returns the market display name.
func (s *Session) Name() string {
	return s.name
}

// TradeTimeout returns the expiry duration applied to new proposals.
func (s *Session) TradeTimeout() time.Duration {
	return s.tradeTimeout
}

// Join registers a new participant. The id is one more than the id of the
// most recently added participant (1 when the market is empty), and the
// role keeps buyer and seller counts within one of each other: seller iff
// buyers currently outnumber sellers, buyer otherwise. The joiner receives
// a status message echoing the assigned record.
func (s *Session) Join(identity, name string) *domain.Participant {
	s.mu.Lock()

	var id int64 = 1
	if last := s.participants.Last(); last != nil {
		id = last.ID + 1
	}

	p := &domain.Participant{
		ID:       id,
		Identity: identity,
		Name:     name,
		Role:     s.participants.Roles().NextRole(),
		JoinedAt: time.Now(),
	}
	s.participants.Add(p)

	s.mu.Unlock()

	s.messenger.Send(identity, domain.MessageStatus, StatusPayload{
		ID:       p.ID,
		Identity: p.Identity,
		Name:     p.Name,
		Role:     p.Role,
	})
	return p
}

// Leave removes the participant with the given identity. Unknown identities
// are a no-op, so repeated leaves are safe. Pending proposals authored by
// the departed participant are left in place: they can still be matched by
// a third party (and are then abandoned at notification time) or expire on
// their own timer.
func (s *Session) Leave(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.participants.RemoveByIdentity(identity)
}

// Trade processes a proposal submitted by the participant with the given
// identity.
//
// With no fuzzy-matching pending proposal, the terms become a new pending
// proposal with a one-shot expiry timer. With a pending match from the same
// participant, the submission is a duplicate and silently absorbed. With a
// pending match from a different participant, both sides receive an accept
// message and the proposal moves to the completed list.
//
// If the pending match's initiator has left the market, the match is
// abandoned: the proposal stays pending, nothing is sent, and
// domain.ErrInitiatorGone is returned.
func (s *Session) Trade(identity string, terms domain.Terms) error {
	s.mu.Lock()

	submitter, err := s.participants.GetByIdentity(identity)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	pending := s.proposals.FuzzyFind(terms)
	if pending == nil {
		p := s.proposals.Add(terms, submitter.ID, submitter.Identity)
		// One-shot timer keyed to this proposal instance. Never cancelled:
		// the fire handler re-checks state under the session lock.
		time.AfterFunc(s.tradeTimeout, func() {
			s.expire(p)
		})
		s.mu.Unlock()
		return nil
	}

	initiator, err := s.participants.GetByID(pending.InitiatorID)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("abandoned match: initiator left before completion",
			slog.String("market", s.id),
			slog.String("proposal_id", pending.ProposalID),
			slog.Int64("initiator_id", pending.InitiatorID),
			slog.Int64("submitter_id", submitter.ID),
		)
		return domain.ErrInitiatorGone
	}

	// A participant re-submitting its own still-pending proposal is a
	// duplicate and can safely be ignored.
	if initiator.ID == submitter.ID {
		s.mu.Unlock()
		return nil
	}

	if err := s.proposals.Promote(pending, submitter.ID); err != nil {
		s.mu.Unlock()
		return err
	}

	s.mu.Unlock()

	s.messenger.Send(submitter.Identity, domain.MessageAccept, terms)
	s.messenger.Send(initiator.Identity, domain.MessageAccept, terms)
	return nil
}

// expire runs when a proposal's timer fires. A proposal that already left
// the pending state has been matched in the meantime; the firing is then a
// no-op. Otherwise the proposal is removed and the original submitter
// receives a reject message carrying the original terms.
func (s *Session) expire(p *domain.Proposal) {
	s.mu.Lock()

	if p.State != domain.ProposalStatePending {
		s.mu.Unlock()
		return
	}
	if err := s.proposals.Remove(p); err != nil {
		s.mu.Unlock()
		return
	}
	p.State = domain.ProposalStateExpired

	s.mu.Unlock()

	s.messenger.Send(p.InitiatorIdentity, domain.MessageReject, p.Terms)
}

// Participants returns the market's participants in join order.
func (s *Session) Participants() []*domain.Participant {
	return s.participants.List()
}

// Roles returns the market's buyer/seller occupancy.
func (s *Session) Roles() domain.RoleCount {
	return s.participants.Roles()
}

// PendingProposals returns the pending proposals in submission order.
func (s *Session) PendingProposals() []*domain.Proposal {
	return s.proposals.Pending()
}

// CompletedTrades returns the completed proposals in completion order.
func (s *Session) CompletedTrades() []*domain.Proposal {
	return s.proposals.Completed()
}
