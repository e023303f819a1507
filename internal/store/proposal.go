package store

import (
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"

	"github.com/efreitasn/openoutcry/internal/domain"
)

// proposalLess orders pending proposals by submission sequence, so FuzzyFind
// always scans in the order proposals arrived.
func proposalLess(a, b *domain.Proposal) bool {
	return a.Seq < b.Seq
}

// ProposalStore holds the pending and completed trade proposals of one
// market. The pending set is a B-tree ordered by submission sequence with a
// secondary index by proposal id for O(log n) removal; completed proposals
// are an append-only chronological list.
//
// The fuzzy-equality predicate is fixed at construction, keeping the
// matching criterion explicit and testable.
type ProposalStore struct {
	matcher   *domain.TermsMatcher
	mu        sync.RWMutex
	seq       uint64
	pending   *btree.BTreeG[*domain.Proposal]
	index     map[string]*domain.Proposal // proposal_id → pending proposal
	completed []*domain.Proposal
}

// NewProposalStore creates an empty ProposalStore using the given matcher.
func NewProposalStore(matcher *domain.TermsMatcher) *ProposalStore {
	const degree = 32
	return &ProposalStore{
		matcher: matcher,
		pending: btree.NewG[*domain.Proposal](degree, proposalLess),
		index:   make(map[string]*domain.Proposal),
	}
}

// Add creates a new pending proposal for the given terms and stores it.
func (s *ProposalStore) Add(terms domain.Terms, initiatorID int64, initiatorIdentity string) *domain.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	p := &domain.Proposal{
		ProposalID:        uuid.New().String(),
		Terms:             terms.Clone(),
		InitiatorID:       initiatorID,
		InitiatorIdentity: initiatorIdentity,
		Seq:               s.seq,
		State:             domain.ProposalStatePending,
		CreatedAt:         time.Now(),
	}
	s.pending.ReplaceOrInsert(p)
	s.index[p.ProposalID] = p
	return p
}

// FuzzyFind returns the first pending proposal whose terms match the given
// terms under the store's matcher, in submission order, or nil when none
// matches.
func (s *ProposalStore) FuzzyFind(terms domain.Terms) *domain.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *domain.Proposal
	s.pending.Ascend(func(p *domain.Proposal) bool {
		if s.matcher.Match(p.Terms, terms) {
			found = p
			return false
		}
		return true
	})
	return found
}

// Get retrieves a pending proposal by id. It returns
// domain.ErrProposalNotFound if the proposal is not pending.
func (s *ProposalStore) Get(id string) (*domain.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.index[id]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	return p, nil
}

// Remove deletes a pending proposal without completing it. It returns
// domain.ErrProposalNotFound if the proposal is not pending.
func (s *ProposalStore) Remove(p *domain.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[p.ProposalID]; !ok {
		return domain.ErrProposalNotFound
	}
	delete(s.index, p.ProposalID)
	s.pending.Delete(p)
	return nil
}

// Promote moves a pending proposal into the completed list, recording the
// counterparty that triggered completion. The proposal keeps its original
// CreatedAt and InitiatorID. It returns domain.ErrProposalNotFound if the
// proposal is not pending.
func (s *ProposalStore) Promote(p *domain.Proposal, counterpartyID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[p.ProposalID]; !ok {
		return domain.ErrProposalNotFound
	}
	delete(s.index, p.ProposalID)
	s.pending.Delete(p)

	now := time.Now()
	p.State = domain.ProposalStateCompleted
	p.CompletedAt = &now
	p.CounterpartyID = counterpartyID
	s.completed = append(s.completed, p)
	return nil
}

// PendingCount returns the number of pending proposals.
func (s *ProposalStore) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending.Len()
}

// Pending returns the pending proposals in submission order.
func (s *ProposalStore) Pending() []*domain.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Proposal, 0, s.pending.Len())
	s.pending.Ascend(func(p *domain.Proposal) bool {
		result = append(result, p)
		return true
	})
	return result
}

// Completed returns the completed proposals in completion order.
// The returned slice is a copy; the proposals are shared.
func (s *ProposalStore) Completed() []*domain.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Proposal, len(s.completed))
	copy(result, s.completed)
	return result
}
