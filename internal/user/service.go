package user

import (
	"strings" // Lowercased emails
	"sync"    // Store synchronization
	"time"    // Registration and login timestamps

	"realestate_system/internal/domain" // Domain models
	"realestate_system/internal/utils"  // JWT helpers

	"github.com/google/uuid"     // User id generation
	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// maxLoginAttempts locks an account after this many consecutive failures
const maxLoginAttempts = 3

// Service is the user directory: it owns identity records, credentials
// and session tokens.
type Service struct {
	mu            sync.Mutex
	users         map[string]domain.User
	credentials   map[string]string   // User id -> bcrypt hash
	emailToID     map[string]string   // Lowercased email -> user id
	sessions      map[string]string   // Active token -> user id
	blacklist     map[string]struct{} // Logged-out tokens
	loginAttempts map[string]int      // Email -> consecutive failures
	jwtSecret     string
}

// NewService creates an empty user directory signing tokens with secret
func NewService(jwtSecret string) *Service {
	return &Service{
		users:         make(map[string]domain.User),
		credentials:   make(map[string]string),
		emailToID:     make(map[string]string),
		sessions:      make(map[string]string),
		blacklist:     make(map[string]struct{}),
		loginAttempts: make(map[string]int),
		jwtSecret:     jwtSecret,
	}
}

// Register validates and stores a new user, returning its id
func (s *Service) Register(u domain.User, password string) (string, error) {
	if u.FirstName == "" || u.LastName == "" || !isValidEmail(u.Email) {
		return "", domain.NewError(domain.KindValidation, "invalid user data")
	}
	if !isValidPassword(password) {
		return "", domain.NewError(domain.KindValidation, "password must be 8-15 characters")
	}
	if u.Role == "" {
		u.Role = domain.RoleCustomer // Default role
	}
	// Hash the password before storing
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.WrapError(domain.KindValidation, "failed to hash password", err)
	}
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(u.Email)
	u.RegisteredAt = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	// Reject duplicate emails
	if _, exists := s.emailToID[u.Email]; exists {
		return "", domain.NewError(domain.KindDuplicate, "email already registered")
	}
	s.users[u.ID] = u
	s.credentials[u.ID] = string(hash)
	s.emailToID[u.Email] = u.ID
	return u.ID, nil
}

// Login authenticates a user and returns a session token
func (s *Service) Login(email, password string) (string, error) {
	email = strings.ToLower(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	// Reject temporarily locked accounts before checking credentials
	if s.loginAttempts[email] >= maxLoginAttempts {
		return "", domain.NewError(domain.KindUnauthorized, "account is temporarily locked")
	}
	id, ok := s.emailToID[email]
	if !ok {
		s.loginAttempts[email]++
		return "", domain.NewError(domain.KindUnauthorized, "invalid credentials")
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(s.credentials[id]), []byte(password)); err != nil {
		s.loginAttempts[email]++
		return "", domain.NewError(domain.KindUnauthorized, "invalid credentials")
	}
	delete(s.loginAttempts, email) // Reset on success
	// Generate and track the session token
	token, err := utils.GenerateJWT(id, s.jwtSecret)
	if err != nil {
		return "", domain.WrapError(domain.KindUnauthorized, "failed to generate token", err)
	}
	s.sessions[token] = id
	u := s.users[id]
	u.LastLoginAt = time.Now()
	s.users[id] = u
	logrus.WithField("user_id", id).Info("User logged in")
	return token, nil
}

// Logout invalidates a session token
func (s *Service) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	s.blacklist[token] = struct{}{}
}

// ValidateSessionToken reports whether a token belongs to a live session
func (s *Service) ValidateSessionToken(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	_, blacklisted := s.blacklist[token]
	_, active := s.sessions[token]
	s.mu.Unlock()
	if blacklisted || !active {
		return false
	}
	// The signature and expiry check catches tokens that outlived their claims
	_, err := utils.ParseJWT(token, s.jwtSecret)
	return err == nil
}

// GetUser returns a user by id
func (s *Service) GetUser(id string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.NewError(domain.KindNotFound, "user not found: "+id)
	}
	return u, nil
}

// isValidEmail is a light structural check; full validation is the mail system's job
func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".")
}

// isValidPassword checks if the password length is between 8 and 15 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 15
}
