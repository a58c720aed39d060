package domain

import "fmt"

// Side identifies one of the two tally counters.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide validates a side submitted by a client.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideLeft, SideRight:
		return Side(s), nil
	}
	return "", fmt.Errorf("side must be %q or %q: %w", SideLeft, SideRight, ErrValidation)
}

// Scoreboard is the per-user pair of tally counters.
// PK: slug ("user-" + user id). Counters never go below zero.
type Scoreboard struct {
	Slug      string `json:"slug" dynamodbav:"slug"`
	Left      int64  `json:"left" dynamodbav:"left"`
	Right     int64  `json:"right" dynamodbav:"right"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt int64  `json:"updated_at" dynamodbav:"updated_at"`
}

// ScoreboardSlug derives the storage key for a user's scoreboard.
func ScoreboardSlug(userID string) string {
	return "user-" + userID
}
