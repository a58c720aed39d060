package domain

import "time"

// Session is issued only after a successful code verification and is bound to
// the verified identifier. It carries two deadlines: ExpiresAt is the hard
// lifetime cap, InactiveAt the inactivity deadline. Activity (a refresh)
// pushes InactiveAt forward but never past ExpiresAt.
type Session struct {
	SessionID    string    `json:"id" dynamodbav:"session_id"`
	UserID       string    `json:"user_id" dynamodbav:"user_id"`
	Identifier   string    `json:"identifier" dynamodbav:"identifier"`
	Enable       bool      `json:"enable" dynamodbav:"enable"`
	RefreshToken     string    `json:"-" dynamodbav:"refresh_token"`
	ExpiresAt    int64     `json:"expires_at" dynamodbav:"expires_at"`
	InactiveAt   int64     `json:"inactive_at" dynamodbav:"inactive_at"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
	User         *User     `json:"user,omitempty" dynamodbav:"-"`
}

// Live reports whether the session is usable at the given instant.
func (s *Session) Live(now time.Time) bool {
	ts := now.Unix()
	return s.Enable && ts < s.ExpiresAt && ts < s.InactiveAt
}
