package session

import "time"

// Session represents an attendance session scoped to a group. A session has
// no stored status: it is Active until ExpiryTime and Expired afterwards,
// always computed against the clock at request time.
type Session struct {
	ID         int64     `json:"id"`
	GroupID    int64     `json:"group_id"`
	JoinCode   string    `json:"join_code"`
	CreatedBy  int64     `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiryTime time.Time `json:"expiry_time"`

	// Populated from JOIN
	GroupName string `json:"group_name,omitempty"`
}

// Expired reports whether the session is past its expiry at the given instant
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiryTime)
}

// Attendee is a resolved identity that marked attendance in a session
type Attendee struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	MarkedAt time.Time `json:"marked_at"`
}

// UserSession is a session a given user attended, with its group resolved
type UserSession struct {
	SessionID  int64     `json:"session_id"`
	GroupID    int64     `json:"group_id"`
	GroupName  string    `json:"group_name"`
	ExpiryTime time.Time `json:"expiry_time"`
	CreatedAt  time.Time `json:"created_at"`
	MarkedAt   time.Time `json:"marked_at"`
}

// SessionSummary is the per-session attendee count for group-level reporting
type SessionSummary struct {
	SessionID     int64     `json:"session_id"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiryTime    time.Time `json:"expiry_time"`
	AttendeeCount int64     `json:"attendee_count"`
}
