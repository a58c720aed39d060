package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/theom/scoreboard-api/internal/application/session"
	"github.com/theom/scoreboard-api/internal/domain"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) RequestCode(ctx context.Context, identifier string, channel domain.Channel) error {
	return m.Called(ctx, identifier, channel).Error(0)
}

func (m *mockAuthSvc) Resend(ctx context.Context, identifier string, channel domain.Channel) error {
	return m.Called(ctx, identifier, channel).Error(0)
}

func (m *mockAuthSvc) VerifyCode(ctx context.Context, identifier, code string) (*session.Issued, error) {
	args := m.Called(ctx, identifier, code)
	if iss, _ := args.Get(0).(*session.Issued); iss != nil {
		return iss, args.Error(1)
	}
	return nil, args.Error(1)
}

func authRouter(svc *mockAuthSvc) http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/auth/{action}", NewAuthHandler(svc).Action)
	return r
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAuthAction_RequestCode(t *testing.T) {
	svc := new(mockAuthSvc)
	svc.On("RequestCode", mock.Anything, "a@b.com", domain.ChannelEmail).Return(nil)

	rr := postJSON(t, authRouter(svc), "/v1/auth/request-code", RequestCodeRequest{
		Identifier: "a@b.com",
		Channel:    "email",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestAuthAction_RequestCode_RejectsUnknownChannel(t *testing.T) {
	svc := new(mockAuthSvc)

	rr := postJSON(t, authRouter(svc), "/v1/auth/request-code", RequestCodeRequest{
		Identifier: "a@b.com",
		Channel:    "sms",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	svc.AssertNotCalled(t, "RequestCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthAction_RequestCode_DeliveryFailureIsGeneric(t *testing.T) {
	svc := new(mockAuthSvc)
	svc.On("RequestCode", mock.Anything, "+5215512345678", domain.ChannelWhatsApp).
		Return(domain.ErrDelivery)

	rr := postJSON(t, authRouter(svc), "/v1/auth/request-code", RequestCodeRequest{
		Identifier: "+5215512345678",
		Channel:    "whatsapp",
	})

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "message could not be delivered, try again", env.Error)
}

func TestAuthAction_Resend(t *testing.T) {
	svc := new(mockAuthSvc)
	svc.On("Resend", mock.Anything, "a@b.com", domain.ChannelEmail).Return(nil)

	rr := postJSON(t, authRouter(svc), "/v1/auth/resend", RequestCodeRequest{
		Identifier: "a@b.com",
		Channel:    "email",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "RequestCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthAction_VerifyCode_ReturnsTokens(t *testing.T) {
	svc := new(mockAuthSvc)
	svc.On("VerifyCode", mock.Anything, "a@b.com", "0427").Return(&session.Issued{
		Bearer:       "jwt-token",
		RefreshToken: "refresh-token",
		Session:      &domain.Session{SessionID: "sess-1"},
	}, nil)

	rr := postJSON(t, authRouter(svc), "/v1/auth/verify-code", VerifyCodeRequest{
		Identifier: "a@b.com",
		Code:       "0427",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	var env AuthEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "jwt-token", env.AccessToken)
	assert.Equal(t, "refresh-token", env.RefreshToken)
	require.NotNil(t, env.Session)
	assert.Equal(t, "sess-1", env.Session.SessionID)
}

func TestAuthAction_VerifyCode_Mismatch(t *testing.T) {
	svc := new(mockAuthSvc)
	svc.On("VerifyCode", mock.Anything, "a@b.com", "9999").Return(nil, domain.ErrCodeMismatch)

	rr := postJSON(t, authRouter(svc), "/v1/auth/verify-code", VerifyCodeRequest{
		Identifier: "a@b.com",
		Code:       "9999",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, domain.ErrCodeMismatch.Error(), env.Error)
}

func TestAuthAction_VerifyCode_Expired(t *testing.T) {
	svc := new(mockAuthSvc)
	svc.On("VerifyCode", mock.Anything, "a@b.com", "0427").Return(nil, domain.ErrCodeExpired)

	rr := postJSON(t, authRouter(svc), "/v1/auth/verify-code", VerifyCodeRequest{
		Identifier: "a@b.com",
		Code:       "0427",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, domain.ErrCodeExpired.Error(), env.Error)
}

func TestAuthAction_UnknownAction(t *testing.T) {
	svc := new(mockAuthSvc)

	rr := postJSON(t, authRouter(svc), "/v1/auth/login", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
