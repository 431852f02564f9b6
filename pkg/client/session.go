// AngelaMos | 2026
// session.go

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/forms-backend/internal/auth"
	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

var ErrNoSession = errors.New("no session")

// Session is the signed-in state of one caller. It is passed explicitly to
// every request that needs credentials.
type Session struct {
	Token string            `json:"token"`
	User  auth.UserResponse `json:"user"`
}

// Role reads the role claim from the token payload without verifying the
// signature. The server remains the authority; this only drives client
// behavior. Falls back to the role returned at login.
func (s *Session) Role() core.Role {
	if s == nil || s.Token == "" {
		return ""
	}

	token, err := jwt.ParseInsecure([]byte(s.Token))
	if err == nil {
		var raw string
		if token.Get("role", &raw) == nil {
			if role, perr := core.ParseRole(raw); perr == nil {
				return role
			}
		}
	}

	return s.User.Role
}

func (s *Session) IsAdmin() bool {
	return s.Role() == core.RoleAdmin
}

// Store persists a session between process runs.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil, ErrNoSession
	}
	cp := *m.session
	return &cp, nil
}

func (m *MemoryStore) Save(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *session
	m.session = &cp
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	return nil
}

// FileStore keeps the session as JSON in a file only the owner can read.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(_ context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}

	return &s, nil
}

func (f *FileStore) Save(_ context.Context, session *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
