// Package users provides the PostgreSQL-backed user repository.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/learnhub/internal/common"
	"github.com/dmitrijs2005/learnhub/internal/dbx"
	"github.com/dmitrijs2005/learnhub/internal/server/models"
)

// PostgresRepository works over dbx.DBTX, so it can run on *sql.DB or inside
// a *sql.Tx.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUser = `SELECT u.id, u.username, u.email_address, u.password_hash,
		u.role_id, r.name, u.profile_picture_url, u.created_at
	FROM users u
	JOIN roles r ON r.id = u.role_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(&u.ID, &u.Username, &u.EmailAddress, &u.PasswordHash,
		&u.RoleID, &u.RoleName, &u.ProfilePictureURL, &u.CreatedAt)
	return u, err
}

func wrapWriteErr(err error) error {
	if dbx.IsUniqueViolation(err) {
		return fmt.Errorf("db error: %w: %w", common.ErrorAlreadyExists, err)
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email_address, password_hash, role_id, profile_picture_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.EmailAddress, user.PasswordHash, user.RoleID, user.ProfilePictureURL,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, wrapWriteErr(err)
	}

	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users
		 SET username = $1, email_address = $2, password_hash = $3, role_id = $4, profile_picture_url = $5
		 WHERE id = $6`

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.EmailAddress, user.PasswordHash, user.RoleID, user.ProfilePictureURL, user.ID)
	if err != nil {
		return wrapWriteErr(err)
	}

	return requireAffected(res)
}

// UpdatePasswordHash writes only the password hash, leaving the profile
// columns to whoever else may be updating them.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// GetByLoginOrEmail matches login against both username and email. If one
// user's username equals another's email, the older account wins.
func (r *PostgresRepository) GetByLoginOrEmail(ctx context.Context, login string) (*models.User, error) {
	query := selectUser + ` WHERE u.username = $1 OR u.email_address = $1 ORDER BY u.id LIMIT 1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
