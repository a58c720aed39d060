package session

import (
	"context"
	"fmt"
	"time"

	"github.com/theom/scoreboard-api/internal/domain"
	"github.com/theom/scoreboard-api/internal/pkg/id"
	pkgtoken "github.com/theom/scoreboard-api/internal/pkg/token"
)

// SessionRepository is the session storage contract this service needs.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newInactiveAt int64) error
}

// UserGetter resolves a user for attaching to session responses.
type UserGetter interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// JWTSigner signs bearer tokens.
type JWTSigner interface {
	Sign(userID, identifier, sessionID string) (string, error)
}

// Issued is the result of establishing a session.
type Issued struct {
	Bearer       string
	RefreshToken string
	Session      *domain.Session
}

// Service issues and manages identifier-bound sessions. A session may only
// ever be created through Create, which the auth flow calls strictly after a
// successful code verification.
type Service interface {
	Create(ctx context.Context, u *domain.User) (*Issued, error)
	GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (bearer, newRefreshToken string, err error)
	Destroy(ctx context.Context, sessionID string) error
}

type ServiceDeps struct {
	SessionRepo SessionRepository
	UserRepo    UserGetter
	JWTProvider JWTSigner
	Lifetime    time.Duration // total session lifetime, also the inactivity window
	Now         func() time.Time
}

type service struct {
	sessionRepo SessionRepository
	userRepo    UserGetter
	jwtProvider JWTSigner
	lifetime    time.Duration
	now         func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		sessionRepo: deps.SessionRepo,
		userRepo:    deps.UserRepo,
		jwtProvider: deps.JWTProvider,
		lifetime:    deps.Lifetime,
		now:         now,
	}
}

func (s *service) Create(ctx context.Context, u *domain.User) (*Issued, error) {
	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	deadline := now.Add(s.lifetime).Unix()
	sess := &domain.Session{
		SessionID:    id.New(),
		UserID:       u.UserID,
		Identifier:   u.Identifier,
		Enable:       true,
		RefreshToken: refreshToken,
		// Both windows start at the full lifetime; activity pushes
		// InactiveAt forward but never past ExpiresAt.
		ExpiresAt:  deadline,
		InactiveAt: deadline,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Identifier, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return &Issued{Bearer: bearer, RefreshToken: refreshToken, Session: sess}, nil
}

func (s *service) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Live(s.now()) {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	if u, err := s.userRepo.Get(ctx, sess.UserID); err == nil {
		sess.User = u
	}
	return sess, nil
}

// Refresh rotates the opaque token and extends the inactivity deadline,
// capped by the session's total lifetime.
func (s *service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	sess, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", err
	}
	if !sess.Live(s.now()) {
		return "", "", fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	newToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return "", "", err
	}
	newInactiveAt := s.now().Add(s.lifetime).Unix()
	if newInactiveAt > sess.ExpiresAt {
		newInactiveAt = sess.ExpiresAt
	}
	if err := s.sessionRepo.RotateRefreshToken(ctx, sess.SessionID, newToken, newInactiveAt); err != nil {
		return "", "", err
	}
	bearer, err := s.jwtProvider.Sign(sess.UserID, sess.Identifier, sess.SessionID)
	if err != nil {
		return "", "", err
	}
	return bearer, newToken, nil
}

func (s *service) Destroy(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Update(ctx, sessionID, map[string]interface{}{"enable": false})
}
