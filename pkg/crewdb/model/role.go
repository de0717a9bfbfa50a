package model

import "fmt"

// Role is a ranked privilege level within a team. Lower values carry
// more privilege: an owner outranks an admin, an admin outranks a
// member, and so on.
type Role int

const (
	RoleOwner Role = iota
	RoleAdmin
	RoleMember
	RoleViewer
)

// Valid returns true if r is one of the defined roles.
func (r Role) Valid() bool {
	return r >= RoleOwner && r <= RoleViewer
}

// AtLeast returns true if r holds at least as much privilege as other.
func (r Role) AtLeast(other Role) bool {
	return r <= other
}

// CanManageTeam returns true for roles allowed to administer a team
// (invite, change roles, update team fields).
func (r Role) CanManageTeam() bool {
	return r.AtLeast(RoleAdmin)
}

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	case RoleViewer:
		return "viewer"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole converts a role name into its Role value.
func ParseRole(name string) (Role, error) {
	switch name {
	case "owner":
		return RoleOwner, nil
	case "admin":
		return RoleAdmin, nil
	case "member":
		return RoleMember, nil
	case "viewer":
		return RoleViewer, nil
	default:
		return RoleViewer, fmt.Errorf("unknown role: %s", name)
	}
}
