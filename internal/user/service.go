package user

import (
	"context"
	"errors"
	"strings"

	"github.com/fkhayef/attendly/internal/database"
	"github.com/fkhayef/attendly/internal/security"
)

// Common errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already in use")
	ErrInvalidInput = errors.New("username, email and password are required")
	ErrInvalidRole  = errors.New("role must be admin or member")
)

// Store abstracts user persistence for the service
type Store interface {
	Create(ctx context.Context, username, email, passwordHash string, role Role) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateByEmail(ctx context.Context, email string, req *UpdateUserRequest) (*User, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// Service handles user business logic
type Service struct {
	repo Store
}

// NewService creates a new user service with repository dependency injected
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Create registers a new user with a hashed password. The role defaults to
// member when the request leaves it empty.
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	role := req.Role
	if role == "" {
		role = RoleMember
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, username, email, hash, role)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return created, nil
}

// GetByEmail retrieves a user by email
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List retrieves all users
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// UpdateByEmail modifies a user's username or role
func (s *Service) UpdateByEmail(ctx context.Context, email string, req *UpdateUserRequest) (*User, error) {
	if req.Role != nil && !req.Role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.repo.UpdateByEmail(ctx, email, req)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeleteByEmail removes a user
func (s *Service) DeleteByEmail(ctx context.Context, email string) error {
	return s.repo.DeleteByEmail(ctx, email)
}
