package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/attendly/internal/group"
	"github.com/fkhayef/attendly/internal/user"
)

// Common errors
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupUnresolved  = errors.New("session group or members could not be resolved")
	ErrNotGroupOwner    = errors.New("only the group owner can create sessions for it")
	ErrNotGroupMember   = errors.New("you are not part of this group")
	ErrSessionExpired   = errors.New("session has expired")
	ErrAlreadyMarked    = errors.New("attendance already marked for this session")
	ErrExpiryNotFuture  = errors.New("expiry time must be in the future")
	ErrNoSessions       = errors.New("no sessions found")
	ErrMissingSessionID = errors.New("sessionId or joinCode is required")
	ErrUserNotFound     = errors.New("user not found")
)

// Store abstracts session and attendance persistence for the service
type Store interface {
	Create(ctx context.Context, groupID int64, joinCode string, createdBy int64, expiryTime time.Time) (*Session, error)
	GetByID(ctx context.Context, id int64) (*Session, error)
	GetByJoinCode(ctx context.Context, joinCode string) (*Session, error)
	ListByCreator(ctx context.Context, createdBy int64) ([]*Session, error)
	MarkAttendance(ctx context.Context, sessionID, userID int64) (bool, error)
	Attendees(ctx context.Context, sessionID int64) ([]*Attendee, error)
	SessionsForUser(ctx context.Context, userID int64) ([]*UserSession, error)
	GroupSummary(ctx context.Context, groupID int64) ([]*SessionSummary, error)
}

// GroupDirectory resolves groups and their member sets
type GroupDirectory interface {
	GetByID(ctx context.Context, id int64) (*group.Group, error)
	MemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

// UserDirectory resolves user identities
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Service manages the attendance session lifecycle
type Service struct {
	repo   Store
	groups GroupDirectory
	users  UserDirectory
	now    func() time.Time
}

// NewService creates a new session service
func NewService(repo Store, groups GroupDirectory, users UserDirectory) *Service {
	return &Service{
		repo:   repo,
		groups: groups,
		users:  users,
		now:    time.Now,
	}
}

// Create creates an attendance session for a group the caller owns. The join
// code is a fresh random UUID; 128 random bits make collisions negligible,
// and the unique index would reject one anyway.
func (s *Service) Create(ctx context.Context, creatorID int64, groupID int64, expiryTime time.Time) (*Session, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	if g.OwnerID != creatorID {
		return nil, ErrNotGroupOwner
	}

	if !expiryTime.After(s.now()) {
		return nil, ErrExpiryNotFuture
	}

	return s.repo.Create(ctx, groupID, uuid.New().String(), creatorID, expiryTime)
}

// ListByCreator retrieves the sessions created by the caller, newest first
func (s *Service) ListByCreator(ctx context.Context, creatorID int64) ([]*Session, error) {
	sessions, err := s.repo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}
	return sessions, nil
}

// GetByID retrieves a session by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Session, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Mark runs the eligibility pipeline and appends the caller to the session's
// attendee set. The checks run in a fixed order and short-circuit on the
// first failure:
//
//	session exists -> group resolves -> caller is a member ->
//	session not expired -> not already marked
//
// Membership is checked before expiry, so a non-member marking an expired
// session is told they are not a member. The final insert is conditional at
// the storage layer; a concurrent duplicate observes ErrAlreadyMarked.
func (s *Service) Mark(ctx context.Context, userID int64, req *MarkAttendanceRequest) (*Session, error) {
	session, err := s.resolveSession(ctx, req)
	if err != nil {
		return nil, err
	}

	g, err := s.groups.GetByID(ctx, session.GroupID)
	if err != nil || g == nil {
		return nil, ErrGroupUnresolved
	}
	memberIDs, err := s.groups.MemberIDs(ctx, session.GroupID)
	if err != nil {
		return nil, ErrGroupUnresolved
	}

	if !containsID(memberIDs, userID) {
		return nil, ErrNotGroupMember
	}

	if session.Expired(s.now()) {
		return nil, ErrSessionExpired
	}

	inserted, err := s.repo.MarkAttendance(ctx, session.ID, userID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrAlreadyMarked
	}

	return session, nil
}

func (s *Service) resolveSession(ctx context.Context, req *MarkAttendanceRequest) (*Session, error) {
	var (
		session *Session
		err     error
	)
	switch {
	case req.SessionID != 0:
		session, err = s.repo.GetByID(ctx, req.SessionID)
	case req.JoinCode != "":
		session, err = s.repo.GetByJoinCode(ctx, req.JoinCode)
	default:
		return nil, ErrMissingSessionID
	}
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Attendees retrieves the resolved attendee identities for a session
func (s *Service) Attendees(ctx context.Context, sessionID int64) ([]*Attendee, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	return s.repo.Attendees(ctx, sessionID)
}

// SessionsForUser retrieves the sessions a user attended, newest first
func (s *Service) SessionsForUser(ctx context.Context, userID int64) ([]*UserSession, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return s.repo.SessionsForUser(ctx, userID)
}

// GroupSummary retrieves per-session attendee counts for a group. A group
// with no sessions yields an empty result, not an error.
func (s *Service) GroupSummary(ctx context.Context, groupID int64) ([]*SessionSummary, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	return s.repo.GroupSummary(ctx, groupID)
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
