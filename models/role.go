package models

import "strings"

// Role is the externally asserted role of a connected identity
type Role string

// Roles understood by the relay
const (
	RoleUser      Role = "user"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// ParseRole normalizes a handshake role. An empty role is treated as a plain user.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleUser, true
	case RoleUser, RoleVolunteer, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}
