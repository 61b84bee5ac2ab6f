package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mzunohkaru/postboard/internal/common"
)

// response is the JSON envelope shared by all endpoints.
type response struct {
	Success     bool   `json:"success"`
	Data        any    `json:"data,omitempty"`
	Message     string `json:"message,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service sentinels onto the HTTP error taxonomy. Unknown
// errors collapse into a 500 with a generic message so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, common.ErrMissingCredentials), errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		status = http.StatusUnauthorized
		message = "invalid username or password"
	case errors.Is(err, common.ErrMissingToken):
		status = http.StatusUnauthorized
		message = common.ErrMissingToken.Error()
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		status = http.StatusUnauthorized
		message = "invalid or expired token"
	case errors.Is(err, common.ErrUserNotFound):
		status = http.StatusUnauthorized
		message = common.ErrUserNotFound.Error()
	case errors.Is(err, common.ErrDuplicateUsername), errors.Is(err, common.ErrDuplicateEmail):
		status = http.StatusConflict
		message = err.Error()
	}

	writeJSON(w, status, response{Success: false, Message: message})
}
