// AngelaMos | 2026
// fake_repository_test.go

package user

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

// memoryRepository mirrors the relational repository: soft deleted rows stay
// in the map but are invisible to reads.
type memoryRepository struct {
	mu    sync.Mutex
	users map[string]*User
	order []string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[string]*User)}
}

func (m *memoryRepository) live(id string) (*User, bool) {
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, false
	}
	return u, true
}

func (m *memoryRepository) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		if u, ok := m.live(id); ok && u.Email == user.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now

	cp := *user
	m.users[user.ID] = &cp
	m.order = append(m.order, user.ID)
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.live(id)
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		if u, ok := m.live(id); ok && u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (m *memoryRepository) GetByIDs(_ context.Context, ids []string) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []User{}
	for _, id := range ids {
		if u, ok := m.live(id); ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memoryRepository) Update(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.live(user.ID); !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	user.UpdatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memoryRepository) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.live(id)
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (m *memoryRepository) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.live(id)
	if !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (m *memoryRepository) List(_ context.Context, params ListUsersParams) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []User{}
	for _, id := range m.order {
		u, ok := m.live(id)
		if !ok {
			continue
		}
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		if params.Search != "" {
			q := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(u.Name), q) &&
				!strings.Contains(u.Email, q) {
				continue
			}
		}
		out = append(out, *u)
	}
	return out, nil
}

func (m *memoryRepository) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(slices.DeleteFunc(slices.Clone(m.order), func(id string) bool {
		_, ok := m.live(id)
		return !ok
	})), nil
}
