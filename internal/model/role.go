package model

import "fmt"

// Role is the per-group authority of a member. The set is closed: owner, admin, member.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleAdmin, RoleMember:
		return r, nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))

	return err == nil
}

// CanManage reports whether the role may issue and deactivate invites and add members.
func (r Role) CanManage() bool {
	switch r {
	case RoleOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) IsOwner() bool {
	return r == RoleOwner
}

func (r Role) String() string {
	return string(r)
}
