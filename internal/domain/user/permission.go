package user

import "slices"

type Permission string

const (
	PermissionLeaveCreate    Permission = "leave.create"
	PermissionPayrollViewOwn Permission = "payroll.view_own"
	PermissionPayrollEdit    Permission = "payroll.edit"
)

// Every portal role may request leave and edit its own salary statement.
// Commission visibility follows the role itself, see Role.IsSales.
var employeePermissions = []Permission{
	PermissionLeaveCreate,
	PermissionPayrollViewOwn,
	PermissionPayrollEdit,
}

var rolePermissions = map[Role][]Permission{
	RoleAdmin:       employeePermissions,
	RoleManager:     employeePermissions,
	RoleSalesman:    employeePermissions,
	RoleClerk:       employeePermissions,
	RoleDeliveryman: employeePermissions,
	RoleDirector:    employeePermissions,
	RoleCEO:         employeePermissions,
}

// IsKnown reports whether the role is one of the portal roles
func (r Role) IsKnown() bool {
	_, ok := rolePermissions[r]
	return ok
}

func (r Role) Can(permission Permission) bool {
	return slices.Contains(rolePermissions[r], permission)
}
