package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/theom/scoreboard-api/internal/application/session"
	"github.com/theom/scoreboard-api/internal/domain"
)

type mockVerificationStore struct {
	mock.Mock
}

func (m *mockVerificationStore) Put(ctx context.Context, v *domain.PendingVerification) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockVerificationStore) Consume(ctx context.Context, identifier, code string) (domain.ConsumeOutcome, error) {
	args := m.Called(ctx, identifier, code)
	return args.Get(0).(domain.ConsumeOutcome), args.Error(1)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, identifier, code string) error {
	args := m.Called(ctx, identifier, code)
	return args.Error(0)
}

type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) Create(ctx context.Context, u *domain.User) (*session.Issued, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Issued), args.Error(1)
}

type authFixture struct {
	store    *mockVerificationStore
	users    *mockUserStore
	issuer   *mockIssuer
	email    *mockSender
	whatsapp *mockSender
	svc      Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		store:    new(mockVerificationStore),
		users:    new(mockUserStore),
		issuer:   new(mockIssuer),
		email:    new(mockSender),
		whatsapp: new(mockSender),
	}
	f.svc = NewService(ServiceDeps{
		Store:          f.store,
		Users:          f.users,
		Sessions:       f.issuer,
		EmailSender:    f.email,
		WhatsAppSender: f.whatsapp,
		CodeTTL:        15 * time.Minute,
		Now:            func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		GenerateCode:   func() (string, error) { return "0427", nil },
	})
	return f
}

func TestRequestCodeStoresAndEmails(t *testing.T) {
	f := newAuthFixture(t)

	var stored *domain.PendingVerification
	f.store.On("Put", mock.Anything, mock.AnythingOfType("*domain.PendingVerification")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.PendingVerification)
	}).Return(nil)
	f.email.On("Send", mock.Anything, "a@b.com", "0427").Return(nil)

	require.NoError(t, f.svc.RequestCode(context.Background(), "a@b.com", domain.ChannelEmail))

	require.NotNil(t, stored)
	assert.Equal(t, "0427", stored.Code)
	assert.Equal(t, domain.ChannelEmail, stored.Channel)
	assert.Equal(t, stored.IssuedAt+15*60, stored.ExpiresAt)
	f.email.AssertExpectations(t)
	f.whatsapp.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestCodeRoutesWhatsApp(t *testing.T) {
	f := newAuthFixture(t)

	f.store.On("Put", mock.Anything, mock.Anything).Return(nil)
	f.whatsapp.On("Send", mock.Anything, "+5215512345678", "0427").Return(nil)

	require.NoError(t, f.svc.RequestCode(context.Background(), "+5215512345678", domain.ChannelWhatsApp))

	f.whatsapp.AssertExpectations(t)
	f.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestCodeRejectsBadIdentifierBeforeAnyWork(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.RequestCode(context.Background(), "not-an-email", domain.ChannelEmail)
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = f.svc.RequestCode(context.Background(), "5512345678", domain.ChannelWhatsApp)
	assert.ErrorIs(t, err, domain.ErrValidation)

	f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	f.email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	f.whatsapp.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestCodeSurfacesDeliveryFailure(t *testing.T) {
	f := newAuthFixture(t)

	f.store.On("Put", mock.Anything, mock.Anything).Return(nil)
	f.email.On("Send", mock.Anything, "a@b.com", "0427").
		Return(errors.New("provider down: " + domain.ErrDelivery.Error()))

	err := f.svc.RequestCode(context.Background(), "a@b.com", domain.ChannelEmail)
	assert.Error(t, err)
}

func TestResendReplacesPreviousCode(t *testing.T) {
	f := newAuthFixture(t)

	f.store.On("Put", mock.Anything, mock.Anything).Return(nil).Twice()
	f.email.On("Send", mock.Anything, "a@b.com", "0427").Return(nil).Twice()

	require.NoError(t, f.svc.RequestCode(context.Background(), "a@b.com", domain.ChannelEmail))
	require.NoError(t, f.svc.Resend(context.Background(), "a@b.com", domain.ChannelEmail))

	f.store.AssertNumberOfCalls(t, "Put", 2)
}

func TestVerifyCodeRejectsIncompleteCodeWithoutStoreLookup(t *testing.T) {
	f := newAuthFixture(t)

	for _, code := range []string{"", "12", "123", "12345", "12a4"} {
		_, err := f.svc.VerifyCode(context.Background(), "a@b.com", code)
		assert.ErrorIs(t, err, domain.ErrValidation, "code %q", code)
	}
	f.store.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyCodeMatchedSignsInExistingUser(t *testing.T) {
	f := newAuthFixture(t)

	existing := &domain.User{UserID: "user-1", Identifier: "a@b.com", Channel: domain.ChannelEmail}
	f.store.On("Consume", mock.Anything, "a@b.com", "0427").Return(domain.ConsumeMatched, nil)
	f.users.On("GetByIdentifier", mock.Anything, "a@b.com").Return(existing, nil)
	f.issuer.On("Create", mock.Anything, existing).Return(&session.Issued{Bearer: "jwt"}, nil)

	issued, err := f.svc.VerifyCode(context.Background(), "a@b.com", "0427")
	require.NoError(t, err)
	assert.Equal(t, "jwt", issued.Bearer)
	f.users.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestVerifyCodeMatchedCreatesUserOnFirstSignIn(t *testing.T) {
	f := newAuthFixture(t)

	f.store.On("Consume", mock.Anything, "+5215512345678", "0427").Return(domain.ConsumeMatched, nil)
	f.users.On("GetByIdentifier", mock.Anything, "+5215512345678").Return(nil, domain.ErrNotFound)

	var created *domain.User
	f.users.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.User)
	}).Return(nil)
	f.issuer.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(&session.Issued{Bearer: "jwt"}, nil)

	_, err := f.svc.VerifyCode(context.Background(), "+5215512345678", "0427")
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.NotEmpty(t, created.UserID)
	assert.Equal(t, "+5215512345678", created.Identifier)
	assert.Equal(t, domain.ChannelWhatsApp, created.Channel)
}

func TestVerifyCodeMismatchKeepsSignedOut(t *testing.T) {
	f := newAuthFixture(t)

	f.store.On("Consume", mock.Anything, "a@b.com", "9999").Return(domain.ConsumeMismatched, nil)

	_, err := f.svc.VerifyCode(context.Background(), "a@b.com", "9999")
	assert.ErrorIs(t, err, domain.ErrCodeMismatch)
	f.issuer.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "GetByIdentifier", mock.Anything, mock.Anything)
}

func TestVerifyCodeExpiredAndMissingReadTheSame(t *testing.T) {
	f := newAuthFixture(t)

	f.store.On("Consume", mock.Anything, "a@b.com", "0427").Return(domain.ConsumeExpired, nil).Once()
	_, err := f.svc.VerifyCode(context.Background(), "a@b.com", "0427")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)

	f.store.On("Consume", mock.Anything, "a@b.com", "0427").Return(domain.ConsumeNotFound, nil).Once()
	_, err = f.svc.VerifyCode(context.Background(), "a@b.com", "0427")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)

	f.issuer.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
