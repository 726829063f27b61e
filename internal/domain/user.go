package domain

// Role enumerates what a person does in the helpdesk.
type Role string

const (
	RoleUser           Role = "user"
	RoleAdmin          Role = "admin"
	RoleSupervisor     Role = "supervisor"
	RoleAgent          Role = "agent"
	RoleDepartmentHead Role = "department_head"
)

// Roles lists every known role.
var Roles = []Role{RoleUser, RoleAdmin, RoleSupervisor, RoleAgent, RoleDepartmentHead}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Availability is the agent work state. It is only meaningful for agents.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
)

// User is a directory entry. EmployeeID is the externally assigned identifier
// used by every workflow lookup; ID is the internal surrogate key.
type User struct {
	ID           int64
	EmployeeID   int64
	FullName     string
	Phone        string
	Email        string
	Department   string
	Designation  string
	PasswordHash string
	Role         Role
	Availability Availability
}
