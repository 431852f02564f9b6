// AngelaMos | 2026
// service.go

package submission

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/form"
	"github.com/carterperez-dev/templates/forms-backend/internal/user"
)

type FormReader interface {
	Get(ctx context.Context, id string) (*form.Form, error)
}

type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]user.User, error)
}

type Service struct {
	repo  Repository
	forms FormReader
	users UserDirectory
}

func NewService(repo Repository, forms FormReader, users UserDirectory) *Service {
	return &Service{
		repo:  repo,
		forms: forms,
		users: users,
	}
}

// Create records one submission by userID. Every answered field must exist
// on the form as it is now, and choice answers must use the field's options.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateSubmissionRequest,
) (*Submission, error) {
	f, err := s.forms.Get(ctx, strings.TrimSpace(req.FormID))
	if err != nil {
		return nil, err
	}

	if len(req.Responses) == 0 {
		return nil, core.ValidationError("responses must not be empty")
	}

	for _, fieldID := range req.Responses.Keys() {
		field, ok := f.Fields.Lookup(fieldID)
		if !ok {
			return nil, core.ValidationError(
				fmt.Sprintf("unknown field %q", fieldID),
			)
		}
		if err := checkAnswer(field, req.Responses[fieldID]); err != nil {
			return nil, err
		}
	}

	sub := &Submission{
		FormID:    f.ID,
		UserID:    userID,
		Responses: req.Responses,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

func checkAnswer(field form.Field, answer Answer) error {
	if answer.IsMulti() && !field.Type.MultiValue() {
		return core.ValidationError(
			fmt.Sprintf("field %q takes a single answer", field.ID),
		)
	}

	if !field.Type.RequiresOptions() {
		return nil
	}

	for _, v := range answer.Values() {
		if v == "" {
			continue
		}
		if !slices.Contains(field.Options, v) {
			return core.ValidationError(
				fmt.Sprintf("field %q: %q is not an option", field.ID, v),
			)
		}
	}

	return nil
}

// ListByForm returns the raw submissions of a form in insertion order. A form
// that does not exist simply has none.
func (s *Service) ListByForm(
	ctx context.Context,
	formID string,
) ([]Submission, error) {
	return s.repo.ListByForm(ctx, formID)
}

// ListPopulated attaches the submitter record to every submission. Deleted
// submitters leave User nil.
func (s *Service) ListPopulated(
	ctx context.Context,
	formID string,
) ([]PopulatedSubmission, error) {
	subs, err := s.repo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.UserID)
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PopulatedSubmission, 0, len(subs))
	for i := range subs {
		row := PopulatedSubmission{SubmissionResponse: ToSubmissionResponse(&subs[i])}
		if u, ok := users[subs[i].UserID]; ok {
			row.User = &Submitter{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		out = append(out, row)
	}

	return out, nil
}

func (s *Service) Submitter(
	ctx context.Context,
	userID string,
) (*SubmitterResponse, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SubmitterResponse{Name: u.Name, Email: u.Email}, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
