// Package users stores registered accounts. Every backend reports a missing
// user as common.ErrorNotFound, a unique email/username clash as
// common.ErrorAlreadyExists and an id it cannot parse as common.ErrInvalidID.
package users

import (
	"context"

	"github.com/dmitrijs2005/wizardry/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
}
