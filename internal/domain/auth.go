package domain

// Capability names an action a principal may be allowed to perform.
type Capability string

const (
	CapFileTicket   Capability = "ticket:file"
	CapReadTickets  Capability = "ticket:read"
	CapRouteTickets Capability = "ticket:route"
	CapWorkTickets  Capability = "ticket:work"
	CapManage       Capability = "ticket:manage"
)

var roleCapabilities = map[Role][]Capability{
	RoleUser:           {CapFileTicket, CapReadTickets},
	RoleAgent:          {CapFileTicket, CapReadTickets, CapWorkTickets},
	RoleSupervisor:     {CapFileTicket, CapReadTickets, CapRouteTickets},
	RoleDepartmentHead: {CapFileTicket, CapReadTickets, CapRouteTickets},
	RoleAdmin:          {CapFileTicket, CapReadTickets, CapRouteTickets, CapWorkTickets, CapManage},
}

// Principal is the authenticated caller as carried by the session token.
type Principal struct {
	ID         int64
	Email      string
	EmployeeID int64
	Role       Role
}

// Can reports whether the principal's role grants capability.
func (p Principal) Can(capability Capability) bool {
	for _, c := range roleCapabilities[p.Role] {
		if c == capability {
			return true
		}
	}
	return false
}
