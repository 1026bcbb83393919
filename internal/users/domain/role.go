package domain

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DefaultRole is assigned when a user is created without one.
const DefaultRole = RoleAdmin

// Roles lists every accepted role.
var Roles = []Role{RoleAdmin, RoleUser}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}
