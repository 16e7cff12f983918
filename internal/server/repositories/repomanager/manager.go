package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/learnhub/internal/dbx"
	"github.com/dmitrijs2005/learnhub/internal/server/repositories/roles"
	"github.com/dmitrijs2005/learnhub/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// path serves both plain connections and transactions.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Roles(db dbx.DBTX) roles.Repository
}
