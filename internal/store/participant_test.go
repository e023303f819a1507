package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/efreitasn/openoutcry/internal/domain"
)

func newParticipant(id int64, identity string, role domain.Role) *domain.Participant {
	return &domain.Participant{
		ID:       id,
		Identity: identity,
		Role:     role,
		JoinedAt: time.Now(),
	}
}

func TestParticipantRegistry_AddAndLookup(t *testing.T) {
	r := NewParticipantRegistry()
	p := newParticipant(1, "conn-a", domain.RoleBuyer)
	r.Add(p)

	byIdentity, err := r.GetByIdentity("conn-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byIdentity != p {
		t.Error("GetByIdentity returned a different participant")
	}

	byID, err := r.GetByID(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID != p {
		t.Error("GetByID returned a different participant")
	}
}

func TestParticipantRegistry_LookupMissing(t *testing.T) {
	r := NewParticipantRegistry()

	if _, err := r.GetByIdentity("nope"); err != domain.ErrParticipantNotFound {
		t.Errorf("expected ErrParticipantNotFound, got %v", err)
	}
	if _, err := r.GetByID(42); err != domain.ErrParticipantNotFound {
		t.Errorf("expected ErrParticipantNotFound, got %v", err)
	}
}

func TestParticipantRegistry_LastTracksInsertionOrder(t *testing.T) {
	r := NewParticipantRegistry()
	if r.Last() != nil {
		t.Fatal("expected nil Last() on empty registry")
	}

	r.Add(newParticipant(1, "a", domain.RoleBuyer))
	r.Add(newParticipant(2, "b", domain.RoleSeller))
	r.Add(newParticipant(3, "c", domain.RoleBuyer))

	if got := r.Last().ID; got != 3 {
		t.Fatalf("expected last id 3, got %d", got)
	}

	// Removing the most recent participant exposes the previous one,
	// regardless of numeric ordering.
	r.RemoveByIdentity("c")
	if got := r.Last().ID; got != 2 {
		t.Fatalf("expected last id 2 after removal, got %d", got)
	}

	// Removing from the middle leaves the tail untouched.
	r.Add(newParticipant(3, "d", domain.RoleBuyer))
	r.RemoveByIdentity("a")
	if got := r.Last().ID; got != 3 {
		t.Fatalf("expected last id 3, got %d", got)
	}
}

func TestParticipantRegistry_RemoveIsIdempotent(t *testing.T) {
	r := NewParticipantRegistry()
	r.Add(newParticipant(1, "a", domain.RoleBuyer))

	if _, ok := r.RemoveByIdentity("a"); !ok {
		t.Fatal("expected first removal to succeed")
	}
	if _, ok := r.RemoveByIdentity("a"); ok {
		t.Fatal("expected second removal to be a no-op")
	}
	if r.Count() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Count())
	}
}

func TestParticipantRegistry_RoleCountsMaintained(t *testing.T) {
	r := NewParticipantRegistry()
	r.Add(newParticipant(1, "a", domain.RoleBuyer))
	r.Add(newParticipant(2, "b", domain.RoleSeller))
	r.Add(newParticipant(3, "c", domain.RoleBuyer))

	roles := r.Roles()
	if roles.Buyers != 2 || roles.Sellers != 1 {
		t.Fatalf("expected 2/1, got %d/%d", roles.Buyers, roles.Sellers)
	}

	r.RemoveByIdentity("b")
	roles = r.Roles()
	if roles.Buyers != 2 || roles.Sellers != 0 {
		t.Fatalf("expected 2/0 after removal, got %d/%d", roles.Buyers, roles.Sellers)
	}
}

func TestParticipantRegistry_ListIsJoinOrderedCopy(t *testing.T) {
	r := NewParticipantRegistry()
	for i := 1; i <= 5; i++ {
		r.Add(newParticipant(int64(i), fmt.Sprintf("p%d", i), domain.RoleBuyer))
	}

	list := r.List()
	for i, p := range list {
		if p.ID != int64(i+1) {
			t.Fatalf("expected join order, got id %d at index %d", p.ID, i)
		}
	}

	list[0] = nil // mutating the copy must not affect the registry
	if r.List()[0] == nil {
		t.Fatal("List returned the internal slice")
	}
}
