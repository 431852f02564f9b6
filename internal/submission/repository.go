// AngelaMos | 2026
// repository.go

package submission

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

// Repository stores submissions append-only. ListByForm returns rows in
// insertion order.
type Repository interface {
	Create(ctx context.Context, s *Submission) error
	ListByForm(ctx context.Context, formID string) ([]Submission, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Submission) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO submissions (id, form_id, user_id, responses)
		VALUES ($1, $2, $3, $4)
		RETURNING submitted_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID,
		s.FormID,
		s.UserID,
		s.Responses,
	).Scan(&s.SubmittedAt)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}

	return nil
}

func (r *repository) ListByForm(
	ctx context.Context,
	formID string,
) ([]Submission, error) {
	submissions := []Submission{}
	if !core.ValidUUID(formID) {
		return submissions, nil
	}

	query := `
		SELECT id, form_id, user_id, responses, submitted_at
		FROM submissions
		WHERE form_id = $1
		ORDER BY seq`

	if err := r.db.SelectContext(ctx, &submissions, query, formID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	return submissions, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM submissions`); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return total, nil
}
