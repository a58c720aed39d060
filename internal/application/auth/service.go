package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theom/scoreboard-api/internal/application/session"
	"github.com/theom/scoreboard-api/internal/domain"
	"github.com/theom/scoreboard-api/internal/pkg/id"
	"github.com/theom/scoreboard-api/internal/pkg/otp"
)

// VerificationStore holds pending codes between request and verify.
type VerificationStore interface {
	Put(ctx context.Context, v *domain.PendingVerification) error
	Consume(ctx context.Context, identifier, code string) (domain.ConsumeOutcome, error)
}

// UserStore is the user persistence contract the sign-in flow needs.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

// CodeSender delivers a verification code over one channel.
type CodeSender interface {
	Send(ctx context.Context, identifier, code string) error
}

// SessionIssuer establishes a session once a code has been verified.
type SessionIssuer interface {
	Create(ctx context.Context, u *domain.User) (*session.Issued, error)
}

// Service drives the code-based sign-in flow: request a code over a
// delivery channel, then trade the code for a session.
type Service interface {
	RequestCode(ctx context.Context, identifier string, channel domain.Channel) error
	Resend(ctx context.Context, identifier string, channel domain.Channel) error
	VerifyCode(ctx context.Context, identifier, code string) (*session.Issued, error)
}

type ServiceDeps struct {
	Store          VerificationStore
	Users          UserStore
	Sessions       SessionIssuer
	EmailSender    CodeSender
	WhatsAppSender CodeSender
	CodeTTL        time.Duration
	Now            func() time.Time
	GenerateCode   func() (string, error)
}

type service struct {
	store          VerificationStore
	users          UserStore
	sessions       SessionIssuer
	emailSender    CodeSender
	whatsappSender CodeSender
	codeTTL        time.Duration
	now            func() time.Time
	generateCode   func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	generate := deps.GenerateCode
	if generate == nil {
		generate = otp.Generate
	}
	return &service{
		store:          deps.Store,
		users:          deps.Users,
		sessions:       deps.Sessions,
		emailSender:    deps.EmailSender,
		whatsappSender: deps.WhatsAppSender,
		codeTTL:        deps.CodeTTL,
		now:            now,
		generateCode:   generate,
	}
}

// RequestCode validates the identifier, stores a fresh code and delivers it.
// Validation failures short-circuit before anything is generated or sent.
// Requesting again for the same identifier replaces the previous code, so at
// most one code is live per identifier at any time.
func (s *service) RequestCode(ctx context.Context, identifier string, channel domain.Channel) error {
	if err := domain.ValidateIdentifier(identifier, channel); err != nil {
		return err
	}
	code, err := s.generateCode()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	v := &domain.PendingVerification{
		Identifier: identifier,
		Channel:    channel,
		Code:       code,
		IssuedAt:   now.Unix(),
		ExpiresAt:  now.Add(s.codeTTL).Unix(),
	}
	if err := s.store.Put(ctx, v); err != nil {
		return err
	}
	if err := s.senderFor(channel).Send(ctx, identifier, code); err != nil {
		return err
	}
	return nil
}

func (s *service) Resend(ctx context.Context, identifier string, channel domain.Channel) error {
	return s.RequestCode(ctx, identifier, channel)
}

// VerifyCode consumes the pending code exactly once. A match signs the user
// in, creating the account on first sign-in. A wrong guess burns nothing; the
// stored code stays valid until it matches or expires.
func (s *service) VerifyCode(ctx context.Context, identifier, code string) (*session.Issued, error) {
	if !otp.Valid(code) {
		return nil, fmt.Errorf("please enter the complete 4-digit code: %w", domain.ErrValidation)
	}
	outcome, err := s.store.Consume(ctx, identifier, code)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case domain.ConsumeMatched:
		// fall through to sign-in
	case domain.ConsumeMismatched:
		return nil, domain.ErrCodeMismatch
	default:
		// Expired and never-requested are indistinguishable to the
		// caller; both ask for a fresh code.
		return nil, domain.ErrCodeExpired
	}

	u, err := s.users.GetByIdentifier(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		now := s.now().UTC()
		u = &domain.User{
			UserID:     id.New(),
			Identifier: identifier,
			Channel:    channelOf(identifier),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.users.Put(ctx, u); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return s.sessions.Create(ctx, u)
}

func (s *service) senderFor(channel domain.Channel) CodeSender {
	if channel == domain.ChannelWhatsApp {
		return s.whatsappSender
	}
	return s.emailSender
}

func channelOf(identifier string) domain.Channel {
	if strings.Contains(identifier, "@") {
		return domain.ChannelEmail
	}
	return domain.ChannelWhatsApp
}
