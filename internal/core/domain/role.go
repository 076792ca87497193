package domain

// RoleCode identifies a permission class. The set of codes is closed: values
// arriving from the backend that are not listed here grant nothing.
type RoleCode string

const (
	RoleManager        RoleCode = "MANAGER"
	RoleContentAdmin   RoleCode = "CONTENT_ADMIN"
	RoleEmployee       RoleCode = "EMPLOYEE"
	RoleAccountant     RoleCode = "ACCOUNTANT"
	RoleDepartmentHead RoleCode = "DEPARTMENT_HEAD"
)

var knownRoles = map[RoleCode]struct{}{
	RoleManager:        {},
	RoleContentAdmin:   {},
	RoleEmployee:       {},
	RoleAccountant:     {},
	RoleDepartmentHead: {},
}

// IsKnown reports whether the code belongs to the closed enumeration.
func (r RoleCode) IsKnown() bool {
	_, ok := knownRoles[r]
	return ok
}

func (r RoleCode) String() string { return string(r) }

// Role is reference data carried by value on a User: a stale copy of the
// code + label pair is acceptable between syncs.
type Role struct {
	ID   int64    `json:"id,omitempty"`
	Code RoleCode `json:"code"`
	Name string   `json:"name,omitempty"`
}
