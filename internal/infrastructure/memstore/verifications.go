// Package memstore holds in-memory implementations of the verification-store
// contract. The DynamoDB-backed store relies on conditional writes for its
// atomicity; this one uses a single mutex and an injected clock, which makes
// the TTL and single-use properties directly testable without a backend.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/theom/scoreboard-api/internal/domain"
)

// VerificationStore keeps the single active code per identifier in a map.
type VerificationStore struct {
	mu    sync.Mutex
	items map[string]domain.PendingVerification
	now   func() time.Time
}

// NewVerificationStore creates a store reading time from now; pass time.Now
// outside of tests.
func NewVerificationStore(now func() time.Time) *VerificationStore {
	if now == nil {
		now = time.Now
	}
	return &VerificationStore{
		items: make(map[string]domain.PendingVerification),
		now:   now,
	}
}

// Put unconditionally replaces any existing record for the identifier.
// Last writer wins; a code issued earlier is invalidated even if its
// delivery is still in flight.
func (s *VerificationStore) Put(_ context.Context, v *domain.PendingVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[v.Identifier] = *v
	return nil
}

// Consume checks submittedCode against the active record. The whole
// check-then-act sequence runs under the lock, so a code can never be
// matched twice and an expired record is never matched.
func (s *VerificationStore) Consume(_ context.Context, identifier, submittedCode string) (domain.ConsumeOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[identifier]
	if !ok {
		return domain.ConsumeNotFound, nil
	}
	if s.now().Unix() > v.ExpiresAt {
		delete(s.items, identifier)
		return domain.ConsumeExpired, nil
	}
	if v.Code != submittedCode {
		return domain.ConsumeMismatched, nil
	}
	delete(s.items, identifier)
	return domain.ConsumeMatched, nil
}

// Delete removes the active record, if any. Cleanup only.
func (s *VerificationStore) Delete(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, identifier)
	return nil
}
