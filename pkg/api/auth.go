package api

import "time"

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned by the login endpoint. User may be absent on
// older backends, in which case clients fetch it from /auth/me/.
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user,omitempty"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

// User is the compact account representation.
type User struct {
	ID        uint     `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	UserType  UserType `json:"user_type"`
	IsActive  bool     `json:"is_active"`
}

// UserDetail is what /auth/me/ returns.
type UserDetail struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	UserType   UserType  `json:"user_type"`
	FullName   string    `json:"full_name"`
	DateJoined time.Time `json:"date_joined"`
}

// Compact drops the detail-only fields.
func (u UserDetail) Compact() User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  u.UserType,
		IsActive:  true,
	}
}

// ErrorResponse covers both payload shapes the backend emits.
type ErrorResponse struct {
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}
