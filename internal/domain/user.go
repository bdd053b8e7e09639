package domain

import "time" // Timestamps

// UserRole determines access level
type UserRole string

// Supported roles
const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User Model
type User struct {
	ID           string    `json:"id"`            // Unique identifier
	FirstName    string    `json:"first_name"`    // First name
	LastName     string    `json:"last_name"`     // Last name
	Email        string    `json:"email"`         // Unique email, lowercased
	Phone        string    `json:"phone"`         // Contact number
	Role         UserRole  `json:"role"`          // customer or admin
	RegisteredAt time.Time `json:"registered_at"` // When the account was created
	LastLoginAt  time.Time `json:"last_login_at"` // Most recent successful login
}
