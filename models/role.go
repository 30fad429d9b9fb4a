package models

// Role is the closed set of dispatch roles. The empty role is a valid
// state for freshly created accounts that have not been assigned yet.
type Role string

// Enumerated roles
const (
	RoleNone       Role = ""
	RoleOfficer    Role = "officer"
	RoleSergeant   Role = "sergeant"
	RoleDispatcher Role = "dispatcher"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the enumerated roles
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleOfficer, RoleSergeant, RoleDispatcher, RoleAdmin:
		return true
	}
	return false
}
