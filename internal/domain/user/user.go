// Package user defines accounts, roles, and their persistence contract.
package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Well-known role ids, seeded by the schema migration.
const (
	RoleAdmin    int64 = 1
	RoleCustomer int64 = 2
	RoleContent  int64 = 3
)

var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registration hits a duplicate email or
	// username.
	ErrEmailTaken = errors.New("email or username already taken")
)

// User is a registered account. The password hash never serializes: it is
// excluded from every JSON response.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int64     `json:"roleId"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
}

// Role is a named permission group with a fixed id.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Repository defines persistence operations for users and roles.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetByLogin resolves a user by email or username.
	GetByLogin(ctx context.Context, login string) (*User, error)
	CreateRole(ctx context.Context, role *Role) error
}
