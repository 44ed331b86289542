// internal/utils/principal.go
package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmagate/pharmacy-backend/internal/models"
)

// Principal is the authenticated caller: resolved user id, role and optional
// EPS discount affiliation, taken from validated JWT claims.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     models.UserRole
	EPSID    *uuid.UUID
}

var ErrRoleNotAllowed = errors.New("role not allowed")

// Authorize checks the principal's role against the operation's required
// roles. Called explicitly at the top of each guarded operation.
func Authorize(p *Principal, roles ...models.UserRole) error {
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return ErrRoleNotAllowed
}

// PrincipalFromClaims resolves JWT claims into a Principal.
func PrincipalFromClaims(claims *JWTClaims) (*Principal, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.New("invalid user id in token")
	}

	p := &Principal{
		UserID:   userID,
		Username: claims.Username,
		Role:     models.UserRole(claims.Role),
	}

	if claims.EPSID != "" {
		epsID, err := uuid.Parse(claims.EPSID)
		if err != nil {
			return nil, errors.New("invalid eps id in token")
		}
		p.EPSID = &epsID
	}

	return p, nil
}

// GetPrincipalFromContext returns the principal set by the auth middleware.
func GetPrincipalFromContext(c *gin.Context) (*Principal, bool) {
	if v, exists := c.Get("principal"); exists {
		if p, ok := v.(*Principal); ok {
			return p, true
		}
	}
	return nil, false
}
