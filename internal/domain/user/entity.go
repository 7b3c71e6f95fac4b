package user

import "strings"

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleManager     Role = "MANAGER"
	RoleSalesman    Role = "SALESMAN" // Only role with commission on payroll
	RoleClerk       Role = "CLERK"
	RoleDeliveryman Role = "DELIVERYMAN"
	RoleDirector    Role = "DIRECTOR"
	RoleCEO         Role = "CEO"
)

// ParseRole normalises a role claim. Unknown roles are kept verbatim so that
// they fail every role check instead of being mapped to a default.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// IsSales reports whether the role earns commission.
func (r Role) IsSales() bool {
	return r == RoleSalesman
}

// Identity is the authenticated caller as seen by the portal.
type Identity struct {
	UserID     string
	EmployeeID string
	Role       Role
}

// IsSales checks if the caller belongs to the sales role
func (i Identity) IsSales() bool {
	return i.Role.IsSales()
}

// Key identifies the caller's engines in memory. The employee record is
// part of it so that relinking a login to another employee never reuses a
// draft that writes to the old one.
func (i Identity) Key() string {
	if i.UserID == "" {
		return i.EmployeeID
	}
	return i.UserID + "/" + i.EmployeeID
}
