package roles

import (
	"context"

	"github.com/dmitrijs2005/learnhub/internal/server/models"
)

// Repository reads role reference data.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Role, error)
}
