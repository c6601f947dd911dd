package model

import (
	"net/mail"
	"strings"
)

// UserRole represents the role of a user.
type UserRole string

const (
	// RoleAdmin may use the admin panel.
	RoleAdmin UserRole = "admin"
	// RoleEditor is reserved for a non-owner author account.
	RoleEditor UserRole = "editor"
)

// User is the account returned by login and embedded as a blog post author.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both fields are present and the email is well formed.
func (c Credentials) Validate() error {
	var v validator
	if strings.TrimSpace(c.Email) == "" {
		v.add("email", "Email is required.")
	} else if _, err := mail.ParseAddress(c.Email); err != nil {
		v.add("email", "Invalid email address.")
	}
	if c.Password == "" {
		v.add("password", "Password is required.")
	}
	return v.err("Invalid credentials")
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
