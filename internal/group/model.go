package group

import "time"

// Group represents a named collection of members owned by an admin
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Populated from JOIN
	OwnerUsername string `json:"owner_username,omitempty"`
	OwnerEmail    string `json:"owner_email,omitempty"`
}

// Member represents a user's membership in a group
type Member struct {
	GroupID int64     `json:"group_id"`
	UserID  int64     `json:"user_id"`
	AddedAt time.Time `json:"added_at"`

	// Populated from JOIN
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}
