// Package auth provides cashier authentication. The authenticated user id is
// also the cart owner id used across the register operations.
package auth

import (
	"context"
	"time"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
)

// Roles. A small shop needs exactly two.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// User is a register account.
type User struct {
	ID           id.ID     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks user invariants.
func (u *User) Validate(ctx context.Context) error {
	if u.Username == "" {
		return apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	if u.Role != RoleAdmin && u.Role != RoleCashier {
		return apperror.NewValidation("invalid role").WithDetail("field", "role")
	}
	return nil
}

// Repository defines persistence for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, userID id.ID) (*User, error)
}
