package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleGuest    Role = "guest"
	RoleUploader Role = "uploader"
	RoleAdmin    Role = "admin"
)

// Roles lists every valid role in ascending rank order.
var Roles = []Role{RoleGuest, RoleUploader, RoleAdmin}

// ParseRole rejects unknown role strings at the boundary so the rest of the
// code only ever sees one of the closed set of variants.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleGuest, RoleUploader, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Rank returns the ordinal used for hierarchy comparisons. Unknown variants
// rank below every real role and never satisfy a minimum.
func (r Role) Rank() int {
	switch r {
	case RoleGuest:
		return 0
	case RoleUploader:
		return 1
	case RoleAdmin:
		return 2
	}
	return -1
}

type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	Role         Role
	ContentCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type InviteToken struct {
	ID        string
	Token     string
	UserID    string
	Username  string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
