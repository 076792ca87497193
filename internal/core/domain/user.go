package domain

import "time"

// User models an authenticated actor in the ERP.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name,omitempty"`
	Email        string    `json:"email,omitempty"`
	EmployeeCode string    `json:"employee_code,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch carries the profile fields that may change mid-session.
// Nil fields are left untouched by Apply.
type UserPatch struct {
	FullName     *string `json:"full_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Roles        []Role  `json:"roles,omitempty"`
}

// Apply shallow-merges the patch into a copy of u and returns the copy.
func (p UserPatch) Apply(u User) User {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.EmployeeCode != nil {
		u.EmployeeCode = *p.EmployeeCode
	}
	if p.Roles != nil {
		u.Roles = append([]Role(nil), p.Roles...)
	}
	return u
}

// Clone returns a deep copy so callers can hand out the user without
// sharing the roles slice.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append([]Role(nil), u.Roles...)
	return &c
}
