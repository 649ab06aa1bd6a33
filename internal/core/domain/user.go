package domain

import (
	"errors"
	"time"
)

// UserStatus is the account state an administrator can toggle.
type UserStatus string

const (
	UserActive UserStatus = "active"
	UserBanned UserStatus = "banned"
)

var ErrUserNotFound = errors.New("user not found")
var ErrInvalidUserStatus = errors.New("invalid user status")
var ErrForbidden = errors.New("access forbidden")

// User models a customer or administrator account. Storage mapping lives in
// the mongo adapter.
type User struct {
	ID        string     `json:"id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	IsAdmin   bool       `json:"isAdmin"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Identity is the authenticated caller as supplied by the auth middleware.
type Identity struct {
	UserID  string
	Email   string
	IsAdmin bool
}
