package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/learnhub/internal/common"
	"github.com/dmitrijs2005/learnhub/internal/server/models"
)

// DefaultRoles mirrors the roles seeded by the SQL migrations.
func DefaultRoles() []models.Role {
	return []models.Role{
		{ID: common.RoleUser, Name: "User"},
		{ID: common.RoleAdmin, Name: "Admin"},
	}
}

// MemoryStore keeps everything in maps. Transactions are serialized and
// rolled back by restoring a snapshot when fn fails.
type MemoryStore struct {
	txMu sync.Mutex

	mu     sync.RWMutex
	users  map[int64]*models.User
	roles  map[int64]models.Role
	nextID int64
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(roles ...models.Role) *MemoryStore {
	s := &MemoryStore{
		users:  make(map[int64]*models.User),
		roles:  make(map[int64]models.Role, len(roles)),
		nextID: 1,
		now:    time.Now,
	}
	for _, r := range roles {
		s.roles[r.ID] = r
	}
	return s
}

// withRole returns a copy of u with the role name joined in.
func (s *MemoryStore) withRole(u *models.User) *models.User {
	c := u.Clone()
	c.RoleName = s.roles[u.RoleID].Name
	return c
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s.withRole(u), nil
}

func (s *MemoryStore) FindUserByLoginOrEmail(ctx context.Context, login string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.sortedIDs() {
		u := s.users[id]
		if u.Username == login || u.EmailAddress == login {
			return s.withRole(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (s *MemoryStore) FindRoleByID(ctx context.Context, id int64) (*models.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.roles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.User, 0, len(s.users))
	for _, id := range s.sortedIDs() {
		result = append(result, s.withRole(s.users[id]))
	}
	return result, nil
}

func (s *MemoryStore) SaveUser(ctx context.Context, u *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[u.RoleID]; !ok {
		return common.ErrorNotFound
	}
	if u.ID != 0 {
		if _, ok := s.users[u.ID]; !ok {
			return common.ErrorNotFound
		}
	}
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username || other.EmailAddress == u.EmailAddress {
			return common.ErrorAlreadyExists
		}
	}

	if u.ID == 0 {
		u.ID = s.nextID
		u.CreatedAt = s.now()
		s.nextID++
	}
	stored := u.Clone()
	stored.RoleName = ""
	s.users[u.ID] = stored
	return nil
}

func (s *MemoryStore) SavePasswordHash(ctx context.Context, id int64, hash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *MemoryStore) RemoveUser(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(s.users, id)
	return nil
}

// InTx serializes fn against other transactions on s. Calls made outside
// InTx are not blocked by it.
func (s *MemoryStore) InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	return s.runTx(ctx, fn)
}

func (s *MemoryStore) runTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	s.mu.RLock()
	snapshot := make(map[int64]*models.User, len(s.users))
	for id, u := range s.users {
		snapshot[id] = u.Clone()
	}
	nextID := s.nextID
	s.mu.RUnlock()

	if err := fn(ctx, &memoryTx{MemoryStore: s}); err != nil {
		s.mu.Lock()
		s.users = snapshot
		s.nextID = nextID
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) sortedIDs() []int64 {
	return slices.Sorted(maps.Keys(s.users))
}

// memoryTx is the Store handed to InTx callbacks; nested InTx calls run
// inline instead of deadlocking on txMu.
type memoryTx struct {
	*MemoryStore
}

func (t *memoryTx) InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return fn(ctx, t)
}
