package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository handles session and attendance data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new session repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new session into the database
func (r *Repository) Create(ctx context.Context, groupID int64, joinCode string, createdBy int64, expiryTime time.Time) (*Session, error) {
	query := `
		INSERT INTO sessions (group_id, join_code, created_by, expiry_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, join_code, created_by, created_at, expiry_time
	`

	session := &Session{}
	err := r.db.QueryRowContext(ctx, query, groupID, joinCode, createdBy, expiryTime).Scan(
		&session.ID,
		&session.GroupID,
		&session.JoinCode,
		&session.CreatedBy,
		&session.CreatedAt,
		&session.ExpiryTime,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetByID retrieves a session by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Session, error) {
	query := `
		SELECT id, group_id, join_code, created_by, created_at, expiry_time
		FROM sessions
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByJoinCode retrieves a session by its join code
func (r *Repository) GetByJoinCode(ctx context.Context, joinCode string) (*Session, error) {
	query := `
		SELECT id, group_id, join_code, created_by, created_at, expiry_time
		FROM sessions
		WHERE join_code = $1
	`
	return r.getOne(ctx, query, joinCode)
}

func (r *Repository) getOne(ctx context.Context, query string, arg interface{}) (*Session, error) {
	session := &Session{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&session.ID,
		&session.GroupID,
		&session.JoinCode,
		&session.CreatedBy,
		&session.CreatedAt,
		&session.ExpiryTime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// ListByCreator retrieves all sessions created by a user, newest first,
// with the group name joined in
func (r *Repository) ListByCreator(ctx context.Context, createdBy int64) ([]*Session, error) {
	query := `
		SELECT s.id, s.group_id, s.join_code, s.created_by, s.created_at, s.expiry_time, g.name
		FROM sessions s
		JOIN groups g ON s.group_id = g.id
		WHERE s.created_by = $1
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session := &Session{}
		if err := rows.Scan(
			&session.ID,
			&session.GroupID,
			&session.JoinCode,
			&session.CreatedBy,
			&session.CreatedAt,
			&session.ExpiryTime,
			&session.GroupName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// MarkAttendance appends a user to a session's attendee set. The insert is
// conditional on the composite primary key, so of two concurrent attempts
// for the same (session, user) pair exactly one reports inserted=true.
func (r *Repository) MarkAttendance(ctx context.Context, sessionID, userID int64) (bool, error) {
	query := `
		INSERT INTO attendance (session_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (session_id, user_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, sessionID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to mark attendance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Attendees retrieves the resolved identities that marked a session
func (r *Repository) Attendees(ctx context.Context, sessionID int64) ([]*Attendee, error) {
	query := `
		SELECT a.user_id, u.username, u.email, a.marked_at
		FROM attendance a
		JOIN users u ON a.user_id = u.id
		WHERE a.session_id = $1
		ORDER BY a.marked_at
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendees: %w", err)
	}
	defer rows.Close()

	var attendees []*Attendee
	for rows.Next() {
		attendee := &Attendee{}
		if err := rows.Scan(
			&attendee.UserID,
			&attendee.Username,
			&attendee.Email,
			&attendee.MarkedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		attendees = append(attendees, attendee)
	}

	return attendees, rows.Err()
}

// SessionsForUser retrieves the sessions a user attended, newest first
func (r *Repository) SessionsForUser(ctx context.Context, userID int64) ([]*UserSession, error) {
	query := `
		SELECT s.id, s.group_id, g.name, s.expiry_time, s.created_at, a.marked_at
		FROM attendance a
		JOIN sessions s ON a.session_id = s.id
		JOIN groups g ON s.group_id = g.id
		WHERE a.user_id = $1
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*UserSession
	for rows.Next() {
		us := &UserSession{}
		if err := rows.Scan(
			&us.SessionID,
			&us.GroupID,
			&us.GroupName,
			&us.ExpiryTime,
			&us.CreatedAt,
			&us.MarkedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user session: %w", err)
		}
		sessions = append(sessions, us)
	}

	return sessions, rows.Err()
}

// GroupSummary retrieves per-session attendee counts for a group, newest first
func (r *Repository) GroupSummary(ctx context.Context, groupID int64) ([]*SessionSummary, error) {
	query := `
		SELECT s.id, s.created_at, s.expiry_time, COUNT(a.user_id)
		FROM sessions s
		LEFT JOIN attendance a ON a.session_id = s.id
		WHERE s.group_id = $1
		GROUP BY s.id, s.created_at, s.expiry_time
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group summary: %w", err)
	}
	defer rows.Close()

	var summaries []*SessionSummary
	for rows.Next() {
		summary := &SessionSummary{}
		if err := rows.Scan(
			&summary.SessionID,
			&summary.CreatedAt,
			&summary.ExpiryTime,
			&summary.AttendeeCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}
