package domain

import "time"

// User is created on an identifier's first successful verification.
// The identifier (email address or E.164 phone number) is unique per user.
type User struct {
	UserID     string    `json:"id" dynamodbav:"user_id"`
	Identifier string    `json:"identifier" dynamodbav:"identifier"`
	Channel    Channel   `json:"channel" dynamodbav:"channel"` // channel used on first sign-in
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}
