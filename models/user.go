package models

import "time"

// User represents an account in the system
// Password is stored hashed (bcrypt) and never leaves the service in JSON.
// Tokens and the avatar live in their own columns and are read separately.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Age       int       `json:"age" db:"age"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateUserRequest represents the registration body
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"` // Plaintext; hashed by the service
	Age      *int   `json:"age,omitempty"`
}

// UpdateUserRequest represents a PATCH /users/profile body
// Nil fields are left untouched
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

// LoginRequest for POST /users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by registration and login
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UserUpdateFields lists the keys accepted by PATCH /users/profile
var UserUpdateFields = []string{"name", "email", "password", "age"}
