package auth

import (
	"fmt"

	"github.com/eventplanner/backend/internal/apperrors"
	"github.com/eventplanner/backend/internal/models"
)

// Authorize returns nil when the identity holds the required role and an
// apperrors.ErrPermission otherwise. It has no side effects.
func Authorize(identity Identity, required models.Role) error {
	if identity.Role != required {
		return fmt.Errorf("%w: %s role required", apperrors.ErrPermission, required)
	}
	return nil
}
