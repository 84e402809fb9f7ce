package services

import (
	"errors"
	"net/http"

	"inkwell/models"
	"inkwell/utils"

	"gorm.io/gorm"
)

// AccessPolicy decides whether a request may act with one of a set of roles.
// Token claims are only trusted for the first check; the live user record is
// re-read so role changes and locks take effect before the token expires.
type AccessPolicy struct {
	db     *gorm.DB
	tokens *utils.TokenManager
}

func NewAccessPolicy(db *gorm.DB, tokens *utils.TokenManager) *AccessPolicy {
	return &AccessPolicy{db: db, tokens: tokens}
}

func (p *AccessPolicy) Authorize(r *http.Request, allowed ...models.Role) (*models.User, error) {
	claims, err := p.tokens.Resolve(r)
	if err != nil {
		if errors.Is(err, utils.ErrMissingToken) {
			return nil, utils.Unauthenticated("Authentication required")
		}
		return nil, utils.Unauthenticated("Invalid or expired token")
	}

	if !claims.Role.In(allowed...) {
		return nil, utils.Forbidden("You do not have permission to perform this action")
	}

	var user models.User
	if err := p.db.WithContext(r.Context()).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.Forbidden("You do not have permission to perform this action")
		}
		return nil, utils.Internal(err)
	}

	if user.IsLocked {
		return nil, utils.Forbidden("This account is locked")
	}
	if !user.Role.In(allowed...) {
		return nil, utils.Forbidden("You do not have permission to perform this action")
	}

	return &user, nil
}

// AllRoles is the allowed set for endpoints open to any signed-in principal.
var AllRoles = []models.Role{models.RoleAdmin, models.RoleAuthor, models.RoleUser}
