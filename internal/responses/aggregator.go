// AngelaMos | 2026
// aggregator.go

package responses

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/form"
	"github.com/carterperez-dev/templates/forms-backend/internal/submission"
	"github.com/carterperez-dev/templates/forms-backend/internal/user"
)

// MissingEmail stands in for the address of a submitter whose account is gone.
const MissingEmail = "Email not found"

type FormSource interface {
	Get(ctx context.Context, id string) (*form.Form, error)
}

type SubmissionSource interface {
	ListByForm(ctx context.Context, formID string) ([]submission.Submission, error)
}

type UserSource interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]user.User, error)
}

// Row is one submission in display form, answers keyed by field label.
type Row struct {
	SubmissionID   string                       `json:"submissionId"`
	UserID         string                       `json:"userId"`
	SubmitterEmail string                       `json:"submitterEmail"`
	Answers        map[string]submission.Answer `json:"answers"`
	SubmittedAt    time.Time                    `json:"submittedAt"`
}

type Aggregator struct {
	forms       FormSource
	submissions SubmissionSource
	users       UserSource
	tracer      trace.Tracer
}

func NewAggregator(
	forms FormSource,
	submissions SubmissionSource,
	users UserSource,
) *Aggregator {
	return &Aggregator{
		forms:       forms,
		submissions: submissions,
		users:       users,
		tracer:      otel.Tracer("forms-backend/responses"),
	}
}

// Aggregate joins the submissions of formID with the current field labels
// and submitter emails. Only a missing form or a store failure fails the
// call: a deleted submitter or a field removed since submission degrades the
// affected row and never drops an answer.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	formID string,
) ([]Row, error) {
	ctx, span := a.tracer.Start(ctx, "responses.Aggregate",
		trace.WithAttributes(attribute.String("form.id", formID)))
	defer span.End()

	f, err := a.forms.Get(ctx, formID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	subs, err := a.submissions.ListByForm(ctx, f.ID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	rows := make([]Row, 0, len(subs))
	if len(subs) == 0 {
		span.SetAttributes(attribute.Int("responses.rows", 0))
		return rows, nil
	}

	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.UserID)
	}

	users, err := a.users.GetByIDs(ctx, ids)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("aggregate: resolve submitters: %w", err)
	}

	labels := labelIndex(f.Fields)
	missing := 0

	for _, s := range subs {
		email := MissingEmail
		if u, ok := users[s.UserID]; ok {
			email = u.Email
		} else {
			missing++
		}

		answers := make(map[string]submission.Answer, len(s.Responses))
		for _, fieldID := range s.Responses.Keys() {
			key, ok := labels[fieldID]
			if !ok {
				key = fieldID
			}
			if _, taken := answers[key]; taken {
				key = fmt.Sprintf("%s (%s)", key, fieldID)
			}
			answers[key] = s.Responses[fieldID]
		}

		rows = append(rows, Row{
			SubmissionID:   s.ID,
			UserID:         s.UserID,
			SubmitterEmail: email,
			Answers:        answers,
			SubmittedAt:    s.SubmittedAt,
		})
	}

	span.SetAttributes(
		attribute.Int("responses.rows", len(rows)),
		attribute.Int("responses.missing_submitters", missing),
	)

	return rows, nil
}

// labelIndex maps field id to display key. When several fields share a label
// the later ones are disambiguated with their id.
func labelIndex(fields form.Fields) map[string]string {
	index := make(map[string]string, len(fields))
	used := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		key := f.Label
		if _, dup := used[key]; dup || key == "" {
			key = fmt.Sprintf("%s (%s)", f.Label, f.ID)
		}
		used[key] = struct{}{}
		index[f.ID] = key
	}

	return index
}
