// AngelaMos | 2026
// aggregator_test.go

package responses

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/form"
	"github.com/carterperez-dev/templates/forms-backend/internal/submission"
	"github.com/carterperez-dev/templates/forms-backend/internal/user"
)

type fakeForms map[string]*form.Form

func (f fakeForms) Get(_ context.Context, id string) (*form.Form, error) {
	if fm, ok := f[id]; ok {
		return fm, nil
	}
	return nil, fmt.Errorf("get form: %w", core.ErrNotFound)
}

type fakeSubmissions struct {
	byForm map[string][]submission.Submission
	err    error
}

func (f fakeSubmissions) ListByForm(_ context.Context, formID string) ([]submission.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byForm[formID], nil
}

type fakeUsers struct {
	users map[string]user.User
	calls int
	err   error
}

func (f *fakeUsers) GetByIDs(_ context.Context, ids []string) (map[string]user.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]user.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

var feedbackForm = &form.Form{
	ID:    "f1",
	Title: "Feedback",
	Fields: form.Fields{
		{ID: "q1", Label: "Rating", Type: form.FieldSelect, Options: []string{"Good", "Bad"}},
	},
}

func TestAggregateRelabelsAnswers(t *testing.T) {
	subs := fakeSubmissions{byForm: map[string][]submission.Submission{
		"f1": {{
			ID:          "s1",
			FormID:      "f1",
			UserID:      "u1",
			Responses:   submission.Responses{"q1": submission.Text("Good")},
			SubmittedAt: time.Now(),
		}},
	}}
	users := &fakeUsers{users: map[string]user.User{
		"u1": {ID: "u1", Email: "john@example.com"},
	}}

	agg := NewAggregator(fakeForms{"f1": feedbackForm}, subs, users)

	rows, err := agg.Aggregate(context.Background(), "f1")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if got := rows[0].Answers["Rating"].String(); got != "Good" {
		t.Fatalf("expected Rating=Good, got %q (%v)", got, rows[0].Answers)
	}
	if rows[0].SubmitterEmail != "john@example.com" {
		t.Fatalf("unexpected email %q", rows[0].SubmitterEmail)
	}
}

func TestAggregateEmptyIsNonNil(t *testing.T) {
	users := &fakeUsers{}
	agg := NewAggregator(fakeForms{"f1": feedbackForm}, fakeSubmissions{}, users)

	rows, err := agg.Aggregate(context.Background(), "f1")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", rows)
	}
	if users.calls != 0 {
		t.Fatalf("no submitters to resolve, but lookup ran %d times", users.calls)
	}
}

func TestAggregateMissingForm(t *testing.T) {
	agg := NewAggregator(fakeForms{}, fakeSubmissions{}, &fakeUsers{})

	_, err := agg.Aggregate(context.Background(), "nope")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAggregateDegradesPerRow(t *testing.T) {
	subs := fakeSubmissions{byForm: map[string][]submission.Submission{
		"f1": {
			{ID: "s1", UserID: "gone", Responses: submission.Responses{
				"q1":      submission.Text("Bad"),
				"removed": submission.Text("still here"),
			}},
			{ID: "s2", UserID: "u1", Responses: submission.Responses{
				"q1": submission.Text("Good"),
			}},
		},
	}}
	users := &fakeUsers{users: map[string]user.User{
		"u1": {ID: "u1", Email: "jane@example.com"},
	}}

	agg := NewAggregator(fakeForms{"f1": feedbackForm}, subs, users)

	rows, err := agg.Aggregate(context.Background(), "f1")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].SubmissionID != "s1" || rows[1].SubmissionID != "s2" {
		t.Fatalf("store order not kept: %s, %s", rows[0].SubmissionID, rows[1].SubmissionID)
	}
	if rows[0].SubmitterEmail != MissingEmail {
		t.Fatalf("expected %q, got %q", MissingEmail, rows[0].SubmitterEmail)
	}
	if rows[0].Answers["removed"].String() != "still here" {
		t.Fatalf("orphan answer dropped: %v", rows[0].Answers)
	}
	if rows[1].SubmitterEmail != "jane@example.com" {
		t.Fatalf("unexpected email %q", rows[1].SubmitterEmail)
	}
	if users.calls != 1 {
		t.Fatalf("expected one batched lookup, got %d", users.calls)
	}
}

func TestAggregateDuplicateLabels(t *testing.T) {
	f := &form.Form{
		ID: "f2",
		Fields: form.Fields{
			{ID: "a", Label: "Name", Type: form.FieldText},
			{ID: "b", Label: "Name", Type: form.FieldText},
		},
	}
	subs := fakeSubmissions{byForm: map[string][]submission.Submission{
		"f2": {{ID: "s1", UserID: "u1", Responses: submission.Responses{
			"a": submission.Text("first"),
			"b": submission.Text("second"),
		}}},
	}}

	agg := NewAggregator(fakeForms{"f2": f}, subs, &fakeUsers{})

	rows, err := agg.Aggregate(context.Background(), "f2")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	answers := rows[0].Answers
	if len(answers) != 2 {
		t.Fatalf("answers collapsed: %v", answers)
	}
	if answers["Name"].String() != "first" || answers["Name (b)"].String() != "second" {
		t.Fatalf("unexpected keys: %v", answers)
	}
}

func TestAggregateMultiValueAnswer(t *testing.T) {
	f := &form.Form{
		ID: "f3",
		Fields: form.Fields{
			{ID: "topics", Label: "Topics", Type: form.FieldCheckbox, Options: []string{"AI/ML", "DevOps"}},
		},
	}
	subs := fakeSubmissions{byForm: map[string][]submission.Submission{
		"f3": {{ID: "s1", UserID: "u1", Responses: submission.Responses{
			"topics": submission.Choices("AI/ML", "DevOps"),
		}}},
	}}

	agg := NewAggregator(fakeForms{"f3": f}, subs, &fakeUsers{})

	rows, err := agg.Aggregate(context.Background(), "f3")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	got := rows[0].Answers["Topics"]
	if !got.IsMulti() || len(got.Values()) != 2 {
		t.Fatalf("expected two choices, got %v", got.Values())
	}
}

func TestAggregateStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")

	agg := NewAggregator(fakeForms{"f1": feedbackForm}, fakeSubmissions{err: boom}, &fakeUsers{})
	if _, err := agg.Aggregate(context.Background(), "f1"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}

	subs := fakeSubmissions{byForm: map[string][]submission.Submission{
		"f1": {{ID: "s1", UserID: "u1"}},
	}}
	agg = NewAggregator(fakeForms{"f1": feedbackForm}, subs, &fakeUsers{err: boom})
	if _, err := agg.Aggregate(context.Background(), "f1"); !errors.Is(err, boom) {
		t.Fatalf("expected user lookup error, got %v", err)
	}
}
