package api

import (
	"net/http" // HTTP status codes

	"realestate_system/internal/domain" // Domain models
	"realestate_system/internal/user"   // User directory

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"` // First name must be provided
	LastName  string `json:"last_name" binding:"required"`  // Last name must be provided
	Email     string `json:"email" binding:"required"`      // Email must be provided
	Phone     string `json:"phone"`                         // Contact number, optional
	Password  string `json:"password" binding:"required"`   // Password must be provided
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the session token back to the caller
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates a new customer account
func RegisterHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Register through the user directory; it validates and hashes
		id, err := users.Register(domain.User{
			FirstName: req.FirstName, // First name
			LastName:  req.LastName,  // Last name
			Email:     req.Email,     // Email, lowercased by the directory
			Phone:     req.Phone,     // Contact number
		}, req.Password)
		if err != nil {
			respondError(c, err) // Map kind to status
			return
		}
		// Return the new user id
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user_id": id})
	}
}

// LoginHandler authenticates a user and returns a session token
func LoginHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Authenticate through the user directory
		token, err := users.Login(req.Email, req.Password)
		if err != nil {
			respondError(c, err) // Invalid credentials or locked account
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// LogoutHandler invalidates the caller's session token
func LogoutHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, exists := c.Get("sessionToken") // Set by the JWT middleware
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		users.Logout(token.(string)) // Blacklist the token
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
