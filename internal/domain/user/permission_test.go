package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Can(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager, RoleSalesman, RoleClerk, RoleDeliveryman, RoleDirector, RoleCEO} {
		assert.True(t, role.IsKnown(), role)
		assert.True(t, role.Can(PermissionLeaveCreate), role)
		assert.True(t, role.Can(PermissionPayrollEdit), role)
	}

	intern := ParseRole(" intern ")
	assert.False(t, intern.IsKnown())
	assert.False(t, intern.Can(PermissionPayrollViewOwn))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleSalesman, ParseRole(" salesman"))
	assert.True(t, ParseRole("SALESMAN").IsSales())
	assert.False(t, ParseRole("clerk").IsSales())
}
