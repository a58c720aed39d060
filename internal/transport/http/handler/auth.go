package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/theom/scoreboard-api/internal/application/auth"
	"github.com/theom/scoreboard-api/internal/domain"
	"github.com/theom/scoreboard-api/internal/pkg/validate"
)

// RequestCodeRequest asks for a sign-in code over one delivery channel.
type RequestCodeRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Channel    string `json:"channel" validate:"required,oneof=email whatsapp"`
}

// VerifyCodeRequest trades a delivered code for a session.
type VerifyCodeRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Code       string `json:"code" validate:"required"`
}

// AuthHandler handles the code-based sign-in endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request-code":
		h.requestCode(w, r, false)
	case "resend":
		h.requestCode(w, r, true)
	case "verify-code":
		h.verifyCode(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *AuthHandler) requestCode(w http.ResponseWriter, r *http.Request, resend bool) {
	var req RequestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	var err error
	if resend {
		err = h.svc.Resend(r.Context(), req.Identifier, domain.Channel(req.Channel))
	} else {
		err = h.svc.RequestCode(r.Context(), req.Identifier, domain.Channel(req.Channel))
	}
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "code sent"})
}

func (h *AuthHandler) verifyCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	issued, err := h.svc.VerifyCode(r.Context(), req.Identifier, req.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken:  issued.Bearer,
		RefreshToken: issued.RefreshToken,
		Session:      issued.Session,
	})
}
