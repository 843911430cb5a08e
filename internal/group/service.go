package group

import (
	"context"
	"errors"
	"strings"

	"github.com/fkhayef/attendly/internal/database"
	"github.com/fkhayef/attendly/internal/user"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrNameRequired  = errors.New("group name is required")
	ErrNameTaken     = errors.New("a group with this name already exists")
)

// Store abstracts group persistence for the service
type Store interface {
	Create(ctx context.Context, name, description string, ownerID int64) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	List(ctx context.Context) ([]*Group, error)
	AddMember(ctx context.Context, groupID, userID int64) error
	GetMembers(ctx context.Context, groupID int64) ([]*Member, error)
	MemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

// UserDirectory resolves user identities for membership checks
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Service handles group business logic
type Service struct {
	repo  Store
	users UserDirectory
}

// NewService creates a new group service
func NewService(repo Store, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// Create creates a new group owned by the caller
func (s *Service) Create(ctx context.Context, ownerID int64, req *CreateGroupRequest) (*Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	created, err := s.repo.Create(ctx, name, req.Description, ownerID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	return created, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// List retrieves all groups with owner identity resolved
func (s *Service) List(ctx context.Context) ([]*Group, error) {
	return s.repo.List(ctx)
}

// AddMember adds a user to a group. Adding a user who is already a member
// is an idempotent no-op, the safer contract for retrying clients.
func (s *Service) AddMember(ctx context.Context, groupID, userID int64) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	return s.repo.AddMember(ctx, groupID, userID)
}

// GetMembers retrieves all members of a group
func (s *Service) GetMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	return s.repo.GetMembers(ctx, groupID)
}
