// AngelaMos | 2026
// mongo_test.go

package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/templates/forms-backend/internal/config"
	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/form"
	"github.com/carterperez-dev/templates/forms-backend/internal/responses"
	"github.com/carterperez-dev/templates/forms-backend/internal/submission"
	"github.com/carterperez-dev/templates/forms-backend/internal/user"
)

// connectTestMongo connects to TEST_MONGO_URI with a throwaway database that
// is dropped when the test ends.
func connectTestMongo(t *testing.T) *core.Mongo {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	m, err := core.NewMongo(ctx, config.MongoConfig{
		URI:            uri,
		Database:       "forms_test_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		MaxPoolSize:    4,
		ConnectTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	t.Cleanup(func() {
		_ = m.DB.Drop(context.Background())
		_ = m.Close()
	})
	return m
}

func openTestMongo(t *testing.T, m *core.Mongo) *Stores {
	t.Helper()
	ctx := context.Background()

	users, err := user.NewMongoRepository(ctx, m.DB)
	if err != nil {
		t.Fatalf("users repository: %v", err)
	}
	submissions, err := submission.NewMongoRepository(ctx, m.DB)
	if err != nil {
		t.Fatalf("submissions repository: %v", err)
	}

	return &Stores{
		Driver:      config.DriverMongo,
		Users:       users,
		Forms:       form.NewMongoRepository(m.DB),
		Submissions: submissions,
		ping:        m.Ping,
		close:       m.Close,
	}
}

func TestMongoUserLifecycle(t *testing.T) {
	s := openTestMongo(t, connectTestMongo(t))
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	u := &user.User{Name: "Jane", Email: email, PasswordHash: "x", Role: core.RoleUser}
	if err := s.Users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := primitive.ObjectIDFromHex(u.ID); err != nil {
		t.Fatalf("expected object id, got %q", u.ID)
	}

	dup := &user.User{Name: "Jane", Email: email, PasswordHash: "x", Role: core.RoleUser}
	if err := s.Users.Create(ctx, dup); !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	if err := s.Users.SoftDelete(ctx, u.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := s.Users.GetByID(ctx, u.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("deleted user should be invisible by id, got %v", err)
	}
	if _, err := s.Users.GetByEmail(ctx, email); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("deleted user should be invisible by email, got %v", err)
	}
	if got, err := s.Users.GetByIDs(ctx, []string{u.ID, "not-an-object-id"}); err != nil || len(got) != 0 {
		t.Fatalf("GetByIDs = %v, %v", got, err)
	}
	if err := s.Users.SoftDelete(ctx, u.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete should miss, got %v", err)
	}

	again := &user.User{Name: "Jane", Email: email, PasswordHash: "x", Role: core.RoleUser}
	if err := s.Users.Create(ctx, again); err != nil {
		t.Fatalf("email of a deleted account should be reusable: %v", err)
	}
	if n, err := s.Users.Count(ctx); err != nil || n != 1 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}

func TestMongoLegacyUsersAreBackfilled(t *testing.T) {
	m := connectTestMongo(t)
	ctx := context.Background()

	_, err := m.DB.Collection("users").InsertOne(ctx, bson.M{
		"name":      "Legacy",
		"email":     "Legacy.User@Example.com",
		"password":  "$2a$10$legacyhashlegacyhashlegacyhashlegacyhashlegacyhashleg",
		"role":      "user",
		"createdAt": time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed legacy user: %v", err)
	}

	s := openTestMongo(t, m)

	legacy, err := s.Users.GetByEmail(ctx, "legacy.user@example.com")
	if err != nil {
		t.Fatalf("legacy user not found by normalized email: %v", err)
	}
	if legacy.DeletedAt != nil {
		t.Fatalf("legacy user should be live, deletedAt=%v", legacy.DeletedAt)
	}

	dup := &user.User{
		Name:         "Impostor",
		Email:        "legacy.user@example.com",
		PasswordHash: "x",
		Role:         core.RoleUser,
	}
	if err := s.Users.Create(ctx, dup); !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey for legacy email, got %v", err)
	}

	var raw bson.M
	if err := m.DB.Collection("users").FindOne(ctx, bson.M{"email": "legacy.user@example.com"}).Decode(&raw); err != nil {
		t.Fatalf("raw lookup: %v", err)
	}
	if v, ok := raw["deletedAt"]; !ok || v != nil {
		t.Fatalf("deletedAt should be an explicit null, got %v (present=%v)", v, ok)
	}
}

func TestMongoSubmissionsAndResponses(t *testing.T) {
	s := openTestMongo(t, connectTestMongo(t))
	ctx := context.Background()

	admin := &user.User{Name: "Admin", Email: "admin@example.com", PasswordHash: "x", Role: core.RoleAdmin}
	alice := &user.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", Role: core.RoleUser}
	bob := &user.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "x", Role: core.RoleUser}
	for _, u := range []*user.User{admin, alice, bob} {
		if err := s.Users.Create(ctx, u); err != nil {
			t.Fatalf("create %s: %v", u.Email, err)
		}
	}

	f := &form.Form{
		Title:     "Feedback",
		Fields:    form.Fields{{ID: "q1", Label: "Rating", Type: form.FieldSelect, Options: []string{"Good", "Bad"}}},
		CreatedBy: admin.ID,
	}
	if err := s.Forms.Create(ctx, f); err != nil {
		t.Fatalf("create form: %v", err)
	}

	entries := []struct {
		userID string
		answer string
	}{
		{alice.ID, "Good"},
		{bob.ID, "Bad"},
		{alice.ID, "Bad"},
	}
	for _, e := range entries {
		sub := &submission.Submission{
			FormID:    f.ID,
			UserID:    e.userID,
			Responses: submission.Responses{"q1": submission.Text(e.answer)},
		}
		if err := s.Submissions.Create(ctx, sub); err != nil {
			t.Fatalf("create submission: %v", err)
		}
	}

	subs, err := s.Submissions.ListByForm(ctx, f.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != len(entries) {
		t.Fatalf("expected %d submissions, got %d", len(entries), len(subs))
	}
	for i, e := range entries {
		if subs[i].UserID != e.userID || subs[i].Responses["q1"].String() != e.answer {
			t.Fatalf("submission %d out of insertion order: %+v", i, subs[i])
		}
	}

	if err := s.Users.SoftDelete(ctx, bob.ID); err != nil {
		t.Fatalf("delete bob: %v", err)
	}

	userSvc := user.NewService(s.Users)
	formSvc := form.NewService(s.Forms)
	submissionSvc := submission.NewService(s.Submissions, formSvc, userSvc)
	agg := responses.NewAggregator(formSvc, submissionSvc, userSvc)

	rows, err := agg.Aggregate(ctx, f.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(rows) != len(entries) {
		t.Fatalf("expected %d rows, got %d", len(entries), len(rows))
	}
	wantEmails := []string{"alice@example.com", responses.MissingEmail, "alice@example.com"}
	for i, want := range wantEmails {
		if rows[i].SubmitterEmail != want {
			t.Fatalf("row %d email = %q, want %q", i, rows[i].SubmitterEmail, want)
		}
		if rows[i].Answers["Rating"].String() != entries[i].answer {
			t.Fatalf("row %d answers = %v", i, rows[i].Answers)
		}
	}

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
