// AngelaMos | 2026
// service.go

package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Form, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Form, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	creatorID string,
	req CreateFormRequest,
) (*Form, error) {
	fields, err := normalizeFields(req.Fields)
	if err != nil {
		return nil, err
	}

	form := &Form{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Fields:      fields,
		CreatedBy:   creatorID,
	}

	if err := s.repo.Create(ctx, form); err != nil {
		return nil, err
	}

	return form, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateFormRequest,
) (*Form, error) {
	form, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		form.Title = strings.TrimSpace(*req.Title)
	}

	if req.Description != nil {
		form.Description = strings.TrimSpace(*req.Description)
	}

	if req.Fields != nil {
		fields, err := normalizeFields(req.Fields)
		if err != nil {
			return nil, err
		}
		form.Fields = fields
	}

	if err := s.repo.Update(ctx, form); err != nil {
		return nil, err
	}

	return form, nil
}

// Delete is idempotent: removing a form that is already gone succeeds.
// Submissions of the form are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	return err
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// normalizeFields validates field definitions in order, keeps client ids and
// assigns fresh ids to new fields.
func normalizeFields(inputs []FieldInput) (Fields, error) {
	fields := make(Fields, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))

	for i, in := range inputs {
		label := strings.TrimSpace(in.Label)
		if label == "" {
			return nil, core.ValidationError(
				fmt.Sprintf("fields[%d]: label is required", i),
			)
		}

		fieldType := FieldType(strings.ToLower(strings.TrimSpace(in.Type)))
		if !fieldType.Valid() {
			return nil, core.ValidationError(
				fmt.Sprintf("fields[%d]: unknown type %q", i, in.Type),
			)
		}

		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = uuid.New().String()
		}
		if _, dup := seen[id]; dup {
			return nil, core.ValidationError(
				fmt.Sprintf("fields[%d]: duplicate field id %q", i, id),
			)
		}
		seen[id] = struct{}{}

		field := Field{
			ID:          id,
			Label:       label,
			Type:        fieldType,
			Placeholder: strings.TrimSpace(in.Placeholder),
		}

		if fieldType.RequiresOptions() {
			options := cleanOptions(in.Options)
			if len(options) == 0 {
				return nil, core.ValidationError(fmt.Sprintf(
					"fields[%d]: options are required for %s fields",
					i, fieldType,
				))
			}
			field.Options = options
		}

		fields = append(fields, field)
	}

	return fields, nil
}

func cleanOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if opt = strings.TrimSpace(opt); opt != "" {
			out = append(out, opt)
		}
	}
	return out
}
