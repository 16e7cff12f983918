// Package services contains the server-side business logic. This file
// implements IdentityService: registration, login, profile and role updates,
// password changes and deletion of users.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/learnhub/internal/common"
	"github.com/dmitrijs2005/learnhub/internal/cryptox"
	"github.com/dmitrijs2005/learnhub/internal/dbx"
	"github.com/dmitrijs2005/learnhub/internal/logging"
	"github.com/dmitrijs2005/learnhub/internal/server/models"
	"github.com/dmitrijs2005/learnhub/internal/server/store"
	"github.com/dmitrijs2005/learnhub/internal/server/validation"
)

// TokenIssuer mints a signed access token for an authenticated user.
type TokenIssuer interface {
	Issue(u *models.User) (string, error)
}

// IdentityService validates requests, checks referenced records and only then
// writes. Every write runs inside a single store transaction.
type IdentityService struct {
	store             store.Store
	hasher            cryptox.Hasher
	issuer            TokenIssuer
	log               logging.Logger
	defaultPictureURL string
	storeTimeout      time.Duration
	// verified against when the login is unknown
	dummyHash string
}

// NewIdentityService wires the service. A zero storeTimeout disables the
// per-operation deadline.
func NewIdentityService(s store.Store, h cryptox.Hasher, issuer TokenIssuer, log logging.Logger,
	defaultPictureURL string, storeTimeout time.Duration) *IdentityService {
	if log == nil {
		log = logging.Nop{}
	}
	if defaultPictureURL == "" {
		defaultPictureURL = common.DefaultProfilePictureURL
	}
	// an empty dummyHash only makes Verify fail fast; Login stays correct
	dummyHash, _ := h.Hash("learnhub-unknown-login")
	return &IdentityService{
		store:             s,
		hasher:            h,
		issuer:            issuer,
		log:               log.With("module", "identity"),
		defaultPictureURL: defaultPictureURL,
		storeTimeout:      storeTimeout,
		dummyHash:         dummyHash,
	}
}

// Register creates a user with the requested role. An empty profile picture
// falls back to the configured default.
func (s *IdentityService) Register(ctx context.Context, req models.CreateUserRequest) (*models.UserView, error) {
	if err := validation.CreateUser(req).Err(); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var created *models.User
	err := s.store.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		role, err := tx.FindRoleByID(ctx, req.RoleID)
		if err != nil {
			return s.notFound(ctx, "register", err, ErrRoleNotFound)
		}

		hash, err := s.hash(ctx, req.Password)
		if err != nil {
			return err
		}

		u := &models.User{
			Username:          req.Username,
			EmailAddress:      req.EmailAddress,
			PasswordHash:      hash,
			RoleID:            role.ID,
			ProfilePictureURL: req.ProfilePictureURL,
		}
		if u.ProfilePictureURL == "" {
			u.ProfilePictureURL = s.defaultPictureURL
		}

		if err := s.save(ctx, tx, "register", u); err != nil {
			return err
		}
		u.RoleName = role.Name
		created = u
		return nil
	})
	if err != nil {
		return nil, s.storeErr(ctx, "register", err)
	}

	s.log.Info(ctx, "user registered", "user_id", created.ID, "role_id", created.RoleID)
	v := created.View()
	return &v, nil
}

// Login checks the credentials and returns a signed token. Unknown logins and
// wrong passwords produce the same ErrInvalidLogin, as does blank input, and
// all three spend one hash verification. Hashes made with outdated
// parameters are upgraded on the way; failing to store the upgrade does not
// fail the login.
func (s *IdentityService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if !validation.Login(req).Valid() {
		_, _ = s.hasher.Verify(s.dummyHash, req.Password)
		return "", ErrInvalidLogin
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.store.FindUserByLoginOrEmail(ctx, req.Login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(s.dummyHash, req.Password)
			return "", ErrInvalidLogin
		}
		return "", s.storeErr(ctx, "login", err)
	}

	res, err := s.hasher.Verify(u.PasswordHash, req.Password)
	if err != nil {
		s.log.Error(ctx, "stored password hash is unreadable", "user_id", u.ID, "error", err)
		return "", common.ErrorInternal
	}
	if !res.Succeeded() {
		return "", ErrInvalidLogin
	}

	if res == cryptox.VerificationSuccessRehashNeeded {
		s.rehash(ctx, u, req.Password)
	}

	token, err := s.issuer.Issue(u)
	if err != nil {
		s.log.Error(ctx, "token signing failed", "user_id", u.ID, "error", err)
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *IdentityService) rehash(ctx context.Context, u *models.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Warn(ctx, "password rehash failed", "user_id", u.ID, "error", err)
		return
	}

	if err := s.store.SavePasswordHash(ctx, u.ID, hash); err != nil {
		s.log.Warn(ctx, "saving rehashed password failed", "user_id", u.ID, "error", err)
		return
	}
	u.PasswordHash = hash
}

// GetAll lists every user ordered by id.
func (s *IdentityService) GetAll(ctx context.Context) ([]models.UserView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, s.storeErr(ctx, "get all", err)
	}

	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

func (s *IdentityService) GetByID(ctx context.Context, id int64) (*models.UserView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, s.notFound(ctx, "get by id", err, ErrUserNotFound)
	}
	v := u.View()
	return &v, nil
}

// Update patches the user: empty request fields keep their stored values and
// a non-empty password is stored as a fresh hash.
func (s *IdentityService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.UserView, error) {
	if err := validation.UpdateUser(req).Err(); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated *models.User
	err := s.store.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		u, err := tx.FindUserByID(ctx, id)
		if err != nil {
			return s.notFound(ctx, "update", err, ErrUserNotFound)
		}

		if req.Username != "" {
			u.Username = req.Username
		}
		if req.EmailAddress != "" {
			u.EmailAddress = req.EmailAddress
		}
		if req.ProfilePictureURL != "" {
			u.ProfilePictureURL = req.ProfilePictureURL
		}
		if req.Password != "" {
			hash, err := s.hash(ctx, req.Password)
			if err != nil {
				return err
			}
			u.PasswordHash = hash
		}

		if err := s.save(ctx, tx, "update", u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, s.storeErr(ctx, "update", err)
	}

	v := updated.View()
	return &v, nil
}

// UpdateRole reassigns the user's role. The user is left untouched when either
// record is missing.
func (s *IdentityService) UpdateRole(ctx context.Context, id, roleID int64) (*models.UserView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated *models.User
	err := s.store.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		u, err := tx.FindUserByID(ctx, id)
		if err != nil {
			return s.notFound(ctx, "update role", err, ErrUserNotFound)
		}
		role, err := tx.FindRoleByID(ctx, roleID)
		if err != nil {
			return s.notFound(ctx, "update role", err, ErrRoleNotFound)
		}

		u.RoleID = role.ID
		if err := s.save(ctx, tx, "update role", u); err != nil {
			return err
		}
		u.RoleName = role.Name
		updated = u
		return nil
	})
	if err != nil {
		return nil, s.storeErr(ctx, "update role", err)
	}

	s.log.Info(ctx, "user role changed", "user_id", updated.ID, "role_id", updated.RoleID)
	v := updated.View()
	return &v, nil
}

// UpdatePassword replaces the password after the old one verifies. The
// request is validated first, so a confirmation mismatch is reported even
// when the old password is wrong.
func (s *IdentityService) UpdatePassword(ctx context.Context, id int64, req models.UpdateUserPasswordRequest) error {
	if err := validation.UpdateUserPassword(req).Err(); err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.store.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		u, err := tx.FindUserByID(ctx, id)
		if err != nil {
			return s.notFound(ctx, "update password", err, ErrUserNotFound)
		}

		res, err := s.hasher.Verify(u.PasswordHash, req.OldPassword)
		if err != nil {
			s.log.Error(ctx, "stored password hash is unreadable", "user_id", u.ID, "error", err)
			return common.ErrorInternal
		}
		if !res.Succeeded() {
			return ErrInvalidPassword
		}

		hash, err := s.hash(ctx, req.NewPassword)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
		return s.save(ctx, tx, "update password", u)
	})
	if err != nil {
		return s.storeErr(ctx, "update password", err)
	}
	return nil
}

func (s *IdentityService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.store.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		if _, err := tx.FindUserByID(ctx, id); err != nil {
			return s.notFound(ctx, "delete", err, ErrUserNotFound)
		}
		if err := tx.RemoveUser(ctx, id); err != nil {
			return s.notFound(ctx, "delete", err, ErrUserNotFound)
		}
		return nil
	})
	if err != nil {
		return s.storeErr(ctx, "delete", err)
	}

	s.log.Info(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *IdentityService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (s *IdentityService) hash(ctx context.Context, password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return "", common.ErrorInternal
	}
	return hash, nil
}

func (s *IdentityService) save(ctx context.Context, tx store.Store, op string, u *models.User) error {
	err := tx.SaveUser(ctx, u)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorAlreadyExists):
		return errTaken
	default:
		return s.notFound(ctx, op, err, ErrUserNotFound)
	}
}

// notFound replaces a store miss with the caller-facing error and maps
// everything else through storeErr.
func (s *IdentityService) notFound(ctx context.Context, op string, err, replacement error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return replacement
	}
	return s.storeErr(ctx, op, err)
}

// storeErr passes service errors through untouched. Deadline overruns become
// common.ErrTransient; anything else is logged and hidden behind
// common.ErrorInternal.
func (s *IdentityService) storeErr(ctx context.Context, op string, err error) error {
	switch {
	case isServiceErr(err):
		return err
	case dbx.IsTimeout(err):
		s.log.Warn(ctx, "store call timed out", "op", op, "error", err)
		return common.ErrTransient
	default:
		s.log.Error(ctx, "store call failed", "op", op, "error", err)
		return common.ErrorInternal
	}
}

func isServiceErr(err error) bool {
	var se *serviceError
	var ve *validation.Error
	return errors.As(err, &se) || errors.As(err, &ve) ||
		errors.Is(err, common.ErrorInternal) || errors.Is(err, common.ErrTransient)
}
