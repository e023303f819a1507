package domain

import "time"

// Role is the side of the market a participant trades on.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Participant represents a connected member of a market session.
type Participant struct {
	ID       int64
	Identity string // opaque session identifier assigned by the transport
	Name     string
	Role     Role
	JoinedAt time.Time
}

// RoleCount tracks buyer and seller occupancy for one market.
type RoleCount struct {
	Buyers  int
	Sellers int
}

// NextRole returns the role assigned to the next joiner. Sellers are only
// assigned while buyers outnumber them, so the two populations stay within
// one of each other and the first joiner is always a buyer.
func (c RoleCount) NextRole() Role {
	if c.Buyers > c.Sellers {
		return RoleSeller
	}
	return RoleBuyer
}

// Add returns the count with one more participant of the given role.
func (c RoleCount) Add(r Role) RoleCount {
	if r == RoleSeller {
		c.Sellers++
	} else {
		c.Buyers++
	}
	return c
}

// Sub returns the count with one fewer participant of the given role.
func (c RoleCount) Sub(r Role) RoleCount {
	if r == RoleSeller {
		c.Sellers--
	} else {
		c.Buyers--
	}
	return c
}
