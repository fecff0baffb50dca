package models

import "time"

// Role is a member's standing inside a band.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleLeader Role = "leader"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleLeader:
		return true
	}
	return false
}

// CanAdminister reports whether r grants administrative actions on a band.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin || r == RoleLeader
}

type Band struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// BandMember is the (band, user, role) triple.
type BandMember struct {
	BandID   string    `json:"bandId"`
	UserID   string    `json:"userId"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Member is a band member joined with the user's public fields.
type Member struct {
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}
