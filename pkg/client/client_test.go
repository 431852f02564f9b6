// AngelaMos | 2026
// client_test.go

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/forms-backend/internal/auth"
	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/form"
	"github.com/carterperez-dev/templates/forms-backend/internal/submission"
)

// fakeAPI answers the handful of routes the tests use.
func fakeAPI(t *testing.T, token string) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "user123" {
			core.Unauthorized(w, "Invalid credentials")
			return
		}
		core.OK(w, auth.LoginResponse{
			Token: token,
			User:  auth.UserResponse{ID: "u1", Email: req.Email, Role: core.RoleUser},
		})
	})
	r.Post("/api/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		core.InternalServerError(w, errors.New("boom"))
	})
	r.Get("/api/forms/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			core.Unauthorized(w, "No token provided")
			return
		}
		core.OK(w, form.FormResponse{ID: chi.URLParam(r, "id"), Title: "Feedback"})
	})
	r.Post("/api/submissions", func(w http.ResponseWriter, r *http.Request) {
		var req submission.CreateSubmissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "Invalid request body")
			return
		}
		core.Created(w, submission.SubmissionResponse{
			ID:        "s1",
			FormID:    req.FormID,
			UserID:    "u1",
			Responses: req.Responses,
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginStoresSession(t *testing.T) {
	ctx := context.Background()
	srv := fakeAPI(t, "tok")
	c := New(srv.URL + "/")

	if _, err := c.Session(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected no session before login, got %v", err)
	}

	s, err := c.Login(ctx, "john@example.com", "user123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.Token != "tok" || s.User.Email != "john@example.com" {
		t.Fatalf("unexpected session %+v", s)
	}

	stored, err := c.Session(ctx)
	if err != nil || stored.Token != "tok" {
		t.Fatalf("session not stored: %+v, %v", stored, err)
	}
}

func TestLoginFailureIsAPIError(t *testing.T) {
	srv := fakeAPI(t, "tok")
	c := New(srv.URL)

	_, err := c.Login(context.Background(), "john@example.com", "wrong")
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 APIError, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestBearerHeader(t *testing.T) {
	ctx := context.Background()
	srv := fakeAPI(t, "tok")
	c := New(srv.URL)

	if _, err := c.GetForm(ctx, nil, "f1"); !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 without a session, got %v", err)
	}

	got, err := c.GetForm(ctx, &Session{Token: "tok"}, "f1")
	if err != nil {
		t.Fatalf("get form: %v", err)
	}
	if got.ID != "f1" || got.Title != "Feedback" {
		t.Fatalf("unexpected form %+v", got)
	}
}

func TestSubmitSendsAnswers(t *testing.T) {
	srv := fakeAPI(t, "tok")
	c := New(srv.URL)

	got, err := c.Submit(context.Background(), &Session{Token: "tok"}, "f1", submission.Responses{
		"q1": submission.Text("Good"),
		"q2": submission.Choices("a", "b"),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.FormID != "f1" || !got.Responses["q2"].IsMulti() || got.Responses["q1"].String() != "Good" {
		t.Fatalf("unexpected submission %+v", got)
	}
}

func TestLogoutClearsEvenOnServerError(t *testing.T) {
	ctx := context.Background()
	srv := fakeAPI(t, "tok")
	store := NewMemoryStore()
	c := New(srv.URL, WithStore(store))

	s, err := c.Login(ctx, "john@example.com", "user123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := c.Logout(ctx, s); !IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("expected server error to surface, got %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("session should be cleared, got %v", err)
	}
}
