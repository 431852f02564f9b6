// AngelaMos | 2026
// fake_repository_test.go

package form

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

type memoryRepository struct {
	mu    sync.Mutex
	forms map[string]Form
	order []string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{forms: make(map[string]Form)}
}

func (m *memoryRepository) Create(_ context.Context, form *Form) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	form.ID = uuid.New().String()
	now := time.Now()
	form.CreatedAt, form.UpdatedAt = now, now
	m.forms[form.ID] = *form
	m.order = append(m.order, form.ID)
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id string) (*Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.forms[id]
	if !ok {
		return nil, fmt.Errorf("get form: %w", core.ErrNotFound)
	}
	f.Fields = slices.Clone(f.Fields)
	return &f, nil
}

func (m *memoryRepository) List(_ context.Context) ([]Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Form{}
	for _, id := range m.order {
		if f, ok := m.forms[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memoryRepository) Update(_ context.Context, form *Form) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.forms[form.ID]; !ok {
		return fmt.Errorf("update form: %w", core.ErrNotFound)
	}
	form.UpdatedAt = time.Now()
	m.forms[form.ID] = *form
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.forms[id]; !ok {
		return fmt.Errorf("delete form: %w", core.ErrNotFound)
	}
	delete(m.forms, id)
	return nil
}

func (m *memoryRepository) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.forms), nil
}
