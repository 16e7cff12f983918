package users

import (
	"context"

	"github.com/dmitrijs2005/learnhub/internal/server/models"
)

// Repository persists users. Lookups return common.ErrorNotFound for missing
// rows; writes that collide with a unique username or email return
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByLoginOrEmail(ctx context.Context, login string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id int64) error
}
