package models

import "time"

// user roles
const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
)

// User is user entity
type User struct {
	ID           uint64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Phone        string
	Address      string
	CreatedAt    time.Time
}

// TokenPayload is payload of authorization token
type TokenPayload struct {
	ID     string
	UserID uint64
	Role   string
}
