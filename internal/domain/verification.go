package domain

// PendingVerification is the single active sign-in code for an identifier.
// PK: identifier. Issuing a new code overwrites the prior record; there is
// never more than one live code per identifier.
// ExpiresAt is a Unix timestamp also used as the DynamoDB TTL attribute.
type PendingVerification struct {
	Identifier string  `json:"identifier" dynamodbav:"identifier"`
	Channel    Channel `json:"channel" dynamodbav:"channel"`
	Code       string  `json:"code" dynamodbav:"code"`
	IssuedAt   int64   `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt  int64   `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// ConsumeOutcome is the result of checking a submitted code against the
// active PendingVerification for an identifier.
type ConsumeOutcome int

const (
	// ConsumeMatched: the code matched and the record was invalidated.
	// A repeat consume with the same code observes ConsumeNotFound.
	ConsumeMatched ConsumeOutcome = iota
	// ConsumeMismatched: wrong code; the record remains valid until expiry.
	ConsumeMismatched
	// ConsumeExpired: the record outlived its TTL and was invalidated.
	ConsumeExpired
	// ConsumeNotFound: no active record for the identifier.
	ConsumeNotFound
)

func (o ConsumeOutcome) String() string {
	switch o {
	case ConsumeMatched:
		return "matched"
	case ConsumeMismatched:
		return "mismatched"
	case ConsumeExpired:
		return "expired"
	default:
		return "not_found"
	}
}
