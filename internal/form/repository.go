// AngelaMos | 2026
// repository.go

package form

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

// Repository owns id assignment. Unknown or unparsable ids are reported as
// core.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, form *Form) error
	GetByID(ctx context.Context, id string) (*Form, error)
	List(ctx context.Context) ([]Form, error)
	Update(ctx context.Context, form *Form) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const formColumns = `id, title, description, fields, created_by,
	       created_at, updated_at`

func (r *repository) Create(ctx context.Context, form *Form) error {
	if form.ID == "" {
		form.ID = uuid.New().String()
	}

	query := `
		INSERT INTO forms (id, title, description, fields, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		form.ID,
		form.Title,
		form.Description,
		form.Fields,
		form.CreatedBy,
	).Scan(&form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create form: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Form, error) {
	if !core.ValidUUID(id) {
		return nil, fmt.Errorf("get form: %w", core.ErrNotFound)
	}

	query := `SELECT ` + formColumns + ` FROM forms WHERE id = $1`

	var form Form
	err := r.db.GetContext(ctx, &form, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get form: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}

	return &form, nil
}

func (r *repository) List(ctx context.Context) ([]Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms ORDER BY created_at, id`

	forms := []Form{}
	if err := r.db.SelectContext(ctx, &forms, query); err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}

	return forms, nil
}

func (r *repository) Update(ctx context.Context, form *Form) error {
	if !core.ValidUUID(form.ID) {
		return fmt.Errorf("update form: %w", core.ErrNotFound)
	}

	query := `
		UPDATE forms
		SET title = $2, description = $3, fields = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		form.ID,
		form.Title,
		form.Description,
		form.Fields,
	).Scan(&form.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update form: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update form: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if !core.ValidUUID(id) {
		return fmt.Errorf("delete form: %w", core.ErrNotFound)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete form: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM forms`); err != nil {
		return 0, fmt.Errorf("count forms: %w", err)
	}
	return total, nil
}
