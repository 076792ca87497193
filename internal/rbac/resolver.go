// Package rbac resolves a user's role assignments against the closed role
// enumeration and evaluates required-role predicates for the guards.
package rbac

import (
	"github.com/rs/zerolog"

	"github.com/nexerp/authgate/internal/core/domain"
)

// RoleSet is the resolved projection of a user's role codes.
type RoleSet map[domain.RoleCode]struct{}

// Has reports membership.
func (s RoleSet) Has(code domain.RoleCode) bool {
	_, ok := s[code]
	return ok
}

// Codes returns the set as a slice, in no particular order.
func (s RoleSet) Codes() []domain.RoleCode {
	out := make([]domain.RoleCode, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	return out
}

// ResolveRoles projects the user's role assignments onto the known role
// codes. Unknown codes are dropped: a role the backend introduced ahead of
// this service grants no capability here, it never causes a failure.
func ResolveRoles(u *domain.User) RoleSet {
	return ResolveRolesWith(zerolog.Nop(), u)
}

// ResolveRolesWith is ResolveRoles with unknown codes logged at debug, so
// backend/frontend enum drift stays visible in the logs.
func ResolveRolesWith(log zerolog.Logger, u *domain.User) RoleSet {
	set := make(RoleSet)
	if u == nil {
		return set
	}
	for _, r := range u.Roles {
		if !r.Code.IsKnown() {
			log.Debug().
				Str("role_code", string(r.Code)).
				Str("username", u.Username).
				Msg("dropping unrecognized role code")
			continue
		}
		set[r.Code] = struct{}{}
	}
	return set
}

// HasRole reports whether the user holds the given role.
func HasRole(u *domain.User, code domain.RoleCode) bool {
	return ResolveRoles(u).Has(code)
}

// HasAnyRole reports whether the user holds at least one of the required
// roles. An empty requirement list means no role is required: always true.
func HasAnyRole(u *domain.User, codes []domain.RoleCode) bool {
	if len(codes) == 0 {
		return true
	}
	set := ResolveRoles(u)
	for _, c := range codes {
		if set.Has(c) {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether the user holds every required role.
// Vacuously true for an empty list.
func HasAllRoles(u *domain.User, codes []domain.RoleCode) bool {
	set := ResolveRoles(u)
	for _, c := range codes {
		if !set.Has(c) {
			return false
		}
	}
	return true
}
