package model

import (
	"slices"
	"time"
)

// Role is a user's authorization role.
type Role string

const (
	RoleComercial   Role = "comercial"
	RoleSuprimentos Role = "suprimentos"
	RoleDiretoria   Role = "diretoria"
	RoleCliente     Role = "cliente"
	RoleAdmin       Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleComercial, RoleSuprimentos, RoleDiretoria, RoleCliente, RoleAdmin:
		return true
	}
	return false
}

// RoleGroup is a set of roles allowed to perform an operation.
type RoleGroup []Role

// Role groups used to gate API operations. Admin is in every group.
var (
	GroupComercial   = RoleGroup{RoleComercial, RoleAdmin}
	GroupSuprimentos = RoleGroup{RoleSuprimentos, RoleAdmin}
	GroupDiretoria   = RoleGroup{RoleDiretoria, RoleAdmin}
	GroupAdmin       = RoleGroup{RoleAdmin}
)

// Allows reports whether r belongs to the group.
func (g RoleGroup) Allows(r Role) bool {
	return slices.Contains(g, r)
}

// User is an application account.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        *string    `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// NewUser is the input for registering an account.
type NewUser struct {
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	Password string  `json:"password"`
	Role     Role    `json:"role"`
}
