package handlers

import (
	"net/http"

	"github.com/eventplanner/backend/internal/apperrors"
	"github.com/eventplanner/backend/internal/auth"
)

// identity returns the caller decoded by the auth middleware, answering 401 when absent
func (h *BaseHandler) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.RespondServiceError(w, r, apperrors.ErrUnauthenticated)
		return auth.Identity{}, false
	}
	return identity, true
}
