package store

import (
	"sync"

	"github.com/efreitasn/openoutcry/internal/domain"
)

// ParticipantRegistry is a thread-safe, insertion-ordered registry of the
// participants in one market, with secondary indexes by transport identity
// and by numeric id. Role occupancy is maintained incrementally on
// add/remove instead of being recomputed by grouping.
type ParticipantRegistry struct {
	mu         sync.RWMutex
	ordered    []*domain.Participant
	byIdentity map[string]*domain.Participant
	byID       map[int64]*domain.Participant
	roles      domain.RoleCount
}

// NewParticipantRegistry creates an empty ParticipantRegistry.
func NewParticipantRegistry() *ParticipantRegistry {
	return &ParticipantRegistry{
		byIdentity: make(map[string]*domain.Participant),
		byID:       make(map[int64]*domain.Participant),
	}
}

// Add appends a participant to the registry and updates both indexes.
func (r *ParticipantRegistry) Add(p *domain.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ordered = append(r.ordered, p)
	r.byIdentity[p.Identity] = p
	r.byID[p.ID] = p
	r.roles = r.roles.Add(p.Role)
}

// Last returns the most recently added participant still present, or nil
// when the registry is empty. The next joiner's id is Last().ID + 1; after
// out-of-order removals this is not necessarily the numerically largest id.
func (r *ParticipantRegistry) Last() *domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.ordered) == 0 {
		return nil
	}
	return r.ordered[len(r.ordered)-1]
}

// GetByIdentity retrieves a participant by transport identity. It returns
// domain.ErrParticipantNotFound if no such participant exists.
func (r *ParticipantRegistry) GetByIdentity(identity string) (*domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byIdentity[identity]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	return p, nil
}

// GetByID retrieves a participant by numeric id. It returns
// domain.ErrParticipantNotFound if no such participant exists.
func (r *ParticipantRegistry) GetByID(id int64) (*domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	return p, nil
}

// RemoveByIdentity removes a participant by transport identity. It returns
// the removed participant, or false if no such participant exists.
func (r *ParticipantRegistry) RemoveByIdentity(identity string) (*domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byIdentity[identity]
	if !ok {
		return nil, false
	}

	delete(r.byIdentity, identity)
	delete(r.byID, p.ID)
	for i, q := range r.ordered {
		if q == p {
			r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
			break
		}
	}
	r.roles = r.roles.Sub(p.Role)
	return p, true
}

// Roles returns the current buyer/seller occupancy.
func (r *ParticipantRegistry) Roles() domain.RoleCount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles
}

// Count returns the number of registered participants.
func (r *ParticipantRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}

// List returns the participants in join order.
// The returned slice is a copy; the participants are shared.
func (r *ParticipantRegistry) List() []*domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Participant, len(r.ordered))
	copy(result, r.ordered)
	return result
}
