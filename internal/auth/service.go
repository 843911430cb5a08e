package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/fkhayef/attendly/internal/database"
	"github.com/fkhayef/attendly/internal/security"
	"github.com/fkhayef/attendly/internal/user"
)

// Common errors
var (
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong password,
	// so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("username, email and password are required")
)

// UserStore abstracts the credential store for the auth service
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string, role user.Role) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Service handles authentication business logic
type Service struct {
	users  UserStore
	tokens *TokenManager
}

// NewService creates a new auth service
func NewService(users UserStore, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Signup registers a new user and issues a token for the fresh account
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	role := req.Role
	if role == "" {
		role = user.RoleMember
	}
	if !role.Valid() {
		return nil, ErrMissingFields
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, username, email, hash, role)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{Token: token, Role: created.Role}, nil
}

// Signin authenticates an email/password pair and issues a token
func (s *Service) Signin(ctx context.Context, req *SigninRequest) (*TokenResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{Token: token, Role: u.Role}, nil
}

// Verify validates a bearer token and returns its claims
func (s *Service) Verify(tokenString string) (*Claims, error) {
	return s.tokens.Verify(tokenString)
}
