package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mzunohkaru/postboard/internal/common"
	"github.com/mzunohkaru/postboard/internal/server/models"
)

type updateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateAccount handles PUT /api/account: changes the authenticated user's
// username and email. Duplicate values produce field-specific 409 responses.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.ErrValidation)
		return
	}

	current := UserFromContext(r.Context())
	user, err := h.users.UpdateAccount(r.Context(), current.ID, req.Username, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    map[string]*models.User{"user": user.Public()},
		Message: "account updated",
	})
}
