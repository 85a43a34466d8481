package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

func ToRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidInput
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role

	CreatedAt time.Time
}

// Identity is the verified caller, resolved by the transport layer and
// passed explicitly into every service operation.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
