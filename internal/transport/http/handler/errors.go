package handler

import (
	"errors"
	"net/http"

	"github.com/theom/scoreboard-api/internal/domain"
)

// httpError maps domain sentinel errors onto HTTP statuses. Provider failures
// are collapsed into one generic message so upstream error bodies never reach
// clients.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCodeMismatch):
		writeError(w, http.StatusUnauthorized, domain.ErrCodeMismatch.Error())
	case errors.Is(err, domain.ErrCodeExpired):
		writeError(w, http.StatusUnauthorized, domain.ErrCodeExpired.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrDelivery):
		writeError(w, http.StatusBadGateway, "message could not be delivered, try again")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
