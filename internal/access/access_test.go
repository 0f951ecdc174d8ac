package access

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/token"
	"github.com/stretchr/testify/assert"
)

func claimsFor(sub string, scope domain.Scope, managed ...string) *token.Claims {
	return &token.Claims{
		Permissions:      domain.Permissions{Scope: scope, ManagedEmployeeIDs: managed},
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
	}
}

func TestIsManager(t *testing.T) {
	assert.True(t, IsManager(claimsFor("m1", domain.ScopeManager)))
	assert.False(t, IsManager(claimsFor("e1", domain.ScopeSelf)))
	assert.False(t, IsManager(claimsFor("e1", "")))
	assert.False(t, IsManager(nil))
}

func TestAccessibleEmployeeIDs(t *testing.T) {
	tests := []struct {
		name   string
		claims *token.Claims
		want   []string
	}{
		{"nil claims", nil, []string{}},
		{"self scope ignores managed ids", claimsFor("e1", domain.ScopeSelf, "e2"), []string{"e1"}},
		{"manager gets reports", claimsFor("m1", domain.ScopeManager, "e1", "e2"), []string{"m1", "e1", "e2"}},
		{"duplicates and blanks removed", claimsFor("m1", domain.ScopeManager, "e1", "", "m1", "e1"), []string{"m1", "e1"}},
		{"missing subject", claimsFor("", domain.ScopeManager, "e1"), []string{"e1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AccessibleEmployeeIDs(tt.claims))
		})
	}
}

func TestCanAccess(t *testing.T) {
	manager := claimsFor("m1", domain.ScopeManager, "e1")
	employee := claimsFor("e1", domain.ScopeSelf)

	assert.True(t, CanAccess(manager, "m1"))
	assert.True(t, CanAccess(manager, "e1"))
	assert.False(t, CanAccess(manager, "e2"))
	assert.False(t, CanAccess(manager, ""))

	assert.True(t, CanAccess(employee, "e1"))
	assert.False(t, CanAccess(employee, "m1"))
	assert.False(t, CanAccess(nil, "e1"))
}

func TestBuildPermissions(t *testing.T) {
	manager := &domain.Employee{ID: "m1", IsManager: true}
	perms := BuildPermissions(manager, []string{"e1", "m1", "e2", "e1", ""})
	assert.Equal(t, domain.ScopeManager, perms.Scope)
	assert.Equal(t, []string{"e1", "e2"}, perms.ManagedEmployeeIDs)

	perms = BuildPermissions(manager, nil)
	assert.Equal(t, domain.ScopeManager, perms.Scope)
	assert.Empty(t, perms.ManagedEmployeeIDs)

	employee := &domain.Employee{ID: "e1"}
	perms = BuildPermissions(employee, []string{"e2"})
	assert.Equal(t, domain.ScopeSelf, perms.Scope)
	assert.Empty(t, perms.ManagedEmployeeIDs)
}

func TestInferLegacyScope(t *testing.T) {
	tests := []struct {
		name        string
		role        string
		nullManager bool
		want        bool
	}{
		{"manager role", "Store Manager", false, true},
		{"supervisor role", "shift supervisor", false, true},
		{"lead role", "Team Lead", false, true},
		{"null manager", "Barista", true, true},
		{"missing or set manager", "Barista", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferLegacyScope(tt.role, tt.nullManager))
		})
	}
}
