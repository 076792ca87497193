package rbac

import (
	"testing"

	"github.com/nexerp/authgate/internal/core/domain"
)

func userWithRoles(codes ...domain.RoleCode) *domain.User {
	u := &domain.User{ID: 1, Username: "test"}
	for _, c := range codes {
		u.Roles = append(u.Roles, domain.Role{Code: c})
	}
	return u
}

func TestResolveRoles_FiltersUnknownCodes(t *testing.T) {
	u := userWithRoles(domain.RoleEmployee, domain.RoleCode("SUPERADMIN"), domain.RoleManager)

	set := ResolveRoles(u)
	if len(set) != 2 {
		t.Fatalf("expected 2 resolved roles, got %d: %v", len(set), set.Codes())
	}
	if !set.Has(domain.RoleEmployee) || !set.Has(domain.RoleManager) {
		t.Fatalf("known roles missing from %v", set.Codes())
	}
	if set.Has(domain.RoleCode("SUPERADMIN")) {
		t.Fatalf("unknown role must not resolve")
	}
}

func TestResolveRoles_NilUser(t *testing.T) {
	if set := ResolveRoles(nil); len(set) != 0 {
		t.Fatalf("expected empty set for nil user, got %v", set.Codes())
	}
}

func TestHasRole(t *testing.T) {
	u := userWithRoles(domain.RoleAccountant)
	if !HasRole(u, domain.RoleAccountant) {
		t.Fatalf("expected accountant role")
	}
	if HasRole(u, domain.RoleManager) {
		t.Fatalf("did not expect manager role")
	}
}

func TestHasAnyRole(t *testing.T) {
	u := userWithRoles(domain.RoleEmployee)

	if !HasAnyRole(u, []domain.RoleCode{domain.RoleEmployee, domain.RoleManager}) {
		t.Fatalf("one matching role should satisfy any-of")
	}
	if HasAnyRole(u, []domain.RoleCode{domain.RoleManager, domain.RoleAccountant}) {
		t.Fatalf("no matching role should fail any-of")
	}

	// Empty requirement list means no role required.
	if !HasAnyRole(u, nil) {
		t.Fatalf("empty requirement list should always be satisfied")
	}
	if !HasAnyRole(nil, nil) {
		t.Fatalf("empty requirement list should hold even for nil user")
	}
}

func TestHasAllRoles(t *testing.T) {
	u := userWithRoles(domain.RoleEmployee, domain.RoleDepartmentHead)

	if !HasAllRoles(u, []domain.RoleCode{domain.RoleEmployee, domain.RoleDepartmentHead}) {
		t.Fatalf("expected all-of to hold")
	}
	if HasAllRoles(u, []domain.RoleCode{domain.RoleEmployee, domain.RoleManager}) {
		t.Fatalf("missing role should fail all-of")
	}
	if !HasAllRoles(u, nil) {
		t.Fatalf("all-of is vacuously true for empty list")
	}
}

func TestUnknownRoleNeverGrantsAccess(t *testing.T) {
	u := userWithRoles(domain.RoleCode("SUPERADMIN"))
	if HasAnyRole(u, []domain.RoleCode{domain.RoleManager}) {
		t.Fatalf("unrecognized role must not satisfy a known-role gate")
	}
}
