// Package store is the persistence boundary of the identity service.
//
// The store enforces uniqueness of usernames and email addresses and
// reports collisions as common.ErrorAlreadyExists. It does not provide
// optimistic concurrency: two transactions that load and save the same user
// race, and the last writer wins.
package store

import (
	"context"

	"github.com/dmitrijs2005/learnhub/internal/server/models"
)

// Store loads and saves identity records. Lookups of missing records return
// common.ErrorNotFound.
type Store interface {
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindUserByLoginOrEmail(ctx context.Context, login string) (*models.User, error)
	FindRoleByID(ctx context.Context, id int64) (*models.Role, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	// SaveUser inserts u when u.ID is zero, assigning ID and CreatedAt, and
	// updates the stored record otherwise.
	SaveUser(ctx context.Context, u *models.User) error
	// SavePasswordHash replaces only the stored password hash of user id.
	SavePasswordHash(ctx context.Context, id int64, hash string) error
	RemoveUser(ctx context.Context, id int64) error
	// InTx runs fn against a store whose calls share one transaction. The
	// transaction commits when fn returns nil. Nested calls reuse the
	// outer transaction.
	InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
