// Package access derives what a session may touch from its decoded claims.
// Every function is pure so handlers and middleware agree on the same rules.
package access

import (
	"regexp"
	"slices"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/token"
)

func IsManager(claims *token.Claims) bool {
	return claims != nil && claims.Permissions.Scope == domain.ScopeManager
}

// AccessibleEmployeeIDs returns the subject followed by, for managers, each managed id once.
func AccessibleEmployeeIDs(claims *token.Claims) []string {
	if claims == nil {
		return []string{}
	}

	ids := make([]string, 0, 1+len(claims.Permissions.ManagedEmployeeIDs))
	seen := make(map[string]bool)
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	add(claims.Subject)
	if IsManager(claims) {
		for _, id := range claims.Permissions.ManagedEmployeeIDs {
			add(id)
		}
	}
	return ids
}

func CanAccess(claims *token.Claims, employeeID string) bool {
	if employeeID == "" {
		return false
	}
	return slices.Contains(AccessibleEmployeeIDs(claims), employeeID)
}

// BuildPermissions computes the session scope from the stored manager flag.
// reportIDs are the employees linked to this manager; the employee's own id is dropped.
func BuildPermissions(employee *domain.Employee, reportIDs []string) domain.Permissions {
	if !employee.IsManager {
		return domain.Permissions{Scope: domain.ScopeSelf, ManagedEmployeeIDs: []string{}}
	}

	managed := make([]string, 0, len(reportIDs))
	for _, id := range reportIDs {
		if id != "" && id != employee.ID && !slices.Contains(managed, id) {
			managed = append(managed, id)
		}
	}
	return domain.Permissions{Scope: domain.ScopeManager, ManagedEmployeeIDs: managed}
}

var managerRole = regexp.MustCompile(`(?i)manager|supervisor|lead`)

// InferLegacyScope reproduces how manager scope was guessed before it was stored:
// a manager-like role label, or a managerId explicitly stored as null.
// A record that never carried managerId is not a manager.
// It only runs from the backfill-scope maintenance operation.
func InferLegacyScope(role string, nullManager bool) bool {
	if managerRole.MatchString(role) {
		return true
	}
	return nullManager
}
