package session

// CreateSessionRequest represents the request to create an attendance session
type CreateSessionRequest struct {
	GroupID    int64  `json:"groupId" validate:"required"`
	ExpiryTime string `json:"expiryTime" validate:"required"` // RFC 3339
}

// MarkAttendanceRequest identifies the session being marked, either by ID or
// by the join code scanned from the QR code
type MarkAttendanceRequest struct {
	SessionID int64  `json:"sessionId,omitempty"`
	JoinCode  string `json:"joinCode,omitempty"`
}

// SessionResponse represents the response for a session
type SessionResponse struct {
	ID         int64  `json:"id"`
	GroupID    int64  `json:"group_id"`
	GroupName  string `json:"group_name,omitempty"`
	JoinCode   string `json:"join_code"`
	CreatedBy  int64  `json:"created_by"`
	CreatedAt  string `json:"created_at"`
	ExpiryTime string `json:"expiry_time"`
}

// MarkAttendanceResponse confirms a successful mark
type MarkAttendanceResponse struct {
	Message    string `json:"message"`
	ExpiryTime string `json:"expiryTime"`
}

// ToResponse converts a Session model to a SessionResponse DTO
func (s *Session) ToResponse() *SessionResponse {
	return &SessionResponse{
		ID:         s.ID,
		GroupID:    s.GroupID,
		GroupName:  s.GroupName,
		JoinCode:   s.JoinCode,
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt.Format("2006-01-02T15:04:05Z"),
		ExpiryTime: s.ExpiryTime.Format("2006-01-02T15:04:05Z"),
	}
}
