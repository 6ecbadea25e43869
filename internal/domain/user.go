package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("role[%s] is not valid", s)
	}
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID     uuid.UUID
	Email  string
	Name   string
	Role   Role
	Avatar string

	CreatedAt   time.Time
	LastLoginAt time.Time
}
