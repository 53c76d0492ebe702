package domain

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Authority is a coarse permission tag derived from a role.
type Authority string

const (
	AuthorityUser  Authority = "ROLE_USER"
	AuthorityAdmin Authority = "ROLE_ADMIN"
)

// ParseRole maps a stored role string to a Role, defaulting to USER
// for anything unrecognized so a corrupt row never escalates privileges.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// AuthoritiesFor expands a role into the authorities it grants.
// ADMIN implies USER's authority.
func AuthoritiesFor(role Role) []Authority {
	if role == RoleAdmin {
		return []Authority{AuthorityAdmin, AuthorityUser}
	}
	return []Authority{AuthorityUser}
}

// User represents an account. Active=false means soft-deleted: the row
// stays for referential history but the account can no longer log in
// or be looked up by ordinary reads.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
