package user

import "slices"

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Role        Role
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEngineer Role = "engineer"
	RoleClient   Role = "client"
	RoleViewer   Role = "viewer"
)

// Roles is a set of roles granted access to an operation.
type Roles []Role

func RolesOf(names []string) Roles {
	roles := make(Roles, 0, len(names))
	for _, name := range names {
		roles = append(roles, Role(name))
	}
	return roles
}

func (r Roles) Allows(role Role) bool {
	return slices.Contains(r, role)
}
