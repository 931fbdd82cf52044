package model

import (
	"rentfy/shared/constant"
	"rentfy/shared/model"
	"slices"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID         = "id"
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldPhone      = "phone"
	FieldRole       = "role"
	FieldIsVerified = "is_verified"
	FieldActive     = "active"
	FieldLastLogin  = "last_login"
)

type User struct {
	ID         string     `db:"id"`
	Name       string     `db:"name"`
	Email      string     `db:"email"`
	Password   string     `db:"password"`
	Phone      *string    `db:"phone"`
	Role       string     `db:"role"`
	IsVerified bool       `db:"is_verified"`
	Active     bool       `db:"active"`
	LastLogin  *time.Time `db:"last_login"`
	model.Metadata
}

// Roles accepted at registration; ADMIN accounts are provisioned out of band.
var Roles = []string{constant.RoleGuest, constant.RoleHost}

func IsRegistrableRole(role string) bool {
	return slices.Contains(Roles, role)
}
