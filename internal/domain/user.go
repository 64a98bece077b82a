package domain

import (
	"strings"
	"time"
)

// Role is the kind of account acting on the marketplace.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
)

// ParseRole normalizes s. "exporter" is accepted as a buyer alias.
func ParseRole(s string) (Role, bool) {
	switch r := strings.ToLower(strings.TrimSpace(s)); r {
	case string(RoleFarmer), string(RoleBuyer), string(RoleAdmin):
		return Role(r), true
	case "exporter":
		return RoleBuyer, true
	}
	return "", false
}

// User is a registered farmer, buyer or administrator.
type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone,omitempty"`
	Role            Role      `json:"role"`
	Region          Region    `json:"region,omitempty"`
	ExperienceYears int       `json:"experience_years,omitempty"`
	Rating          float64   `json:"rating,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Identity is the authenticated caller of a single request.
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// IsZero reports whether no caller is attached.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}
