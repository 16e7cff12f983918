package store

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/learnhub/internal/dbx"
	"github.com/dmitrijs2005/learnhub/internal/server/models"
	"github.com/dmitrijs2005/learnhub/internal/server/repositories/repomanager"
)

// SQLStore adapts the repositories to Store.
type SQLStore struct {
	db   *sql.DB
	conn dbx.DBTX
	rm   repomanager.RepositoryManager
	inTx bool
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *sql.DB, rm repomanager.RepositoryManager) *SQLStore {
	return &SQLStore{db: db, conn: db, rm: rm}
}

func (s *SQLStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.rm.Users(s.conn).GetByID(ctx, id)
}

func (s *SQLStore) FindUserByLoginOrEmail(ctx context.Context, login string) (*models.User, error) {
	return s.rm.Users(s.conn).GetByLoginOrEmail(ctx, login)
}

func (s *SQLStore) FindRoleByID(ctx context.Context, id int64) (*models.Role, error) {
	return s.rm.Roles(s.conn).GetByID(ctx, id)
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.rm.Users(s.conn).List(ctx)
}

func (s *SQLStore) SaveUser(ctx context.Context, u *models.User) error {
	repo := s.rm.Users(s.conn)
	if u.ID == 0 {
		_, err := repo.Create(ctx, u)
		return err
	}
	return repo.Update(ctx, u)
}

func (s *SQLStore) SavePasswordHash(ctx context.Context, id int64, hash string) error {
	return s.rm.Users(s.conn).UpdatePasswordHash(ctx, id, hash)
}

func (s *SQLStore) RemoveUser(ctx context.Context, id int64) error {
	return s.rm.Users(s.conn).Delete(ctx, id)
}

// InTx runs fn in a READ COMMITTED transaction.
func (s *SQLStore) InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	opts := &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	return dbx.WithTx(ctx, s.db, opts, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &SQLStore{db: s.db, conn: tx, rm: s.rm, inTx: true})
	})
}
