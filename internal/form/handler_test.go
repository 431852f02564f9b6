// AngelaMos | 2026
// handler_test.go

package form

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/middleware"
)

// withIdentity stands in for the token gate.
func withIdentity(userID string, role core.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: userID,
				Role:   role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newFormRouter(userID string, role core.Role) http.Handler {
	h := NewHandler(NewService(newMemoryRepository()))

	r := chi.NewRouter()
	r.Use(withIdentity(userID, role))
	r.Route("/api/forms", func(r chi.Router) {
		h.RegisterRoutes(r, middleware.RequireAdmin)
	})
	return r
}

func request(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
	return w
}

func TestFormLifecycle(t *testing.T) {
	router := newFormRouter("admin-1", core.RoleAdmin)

	w := request(router, http.MethodPost, "/api/forms", map[string]any{
		"title": "Feedback",
		"fields": []map[string]any{
			{"id": "q1", "label": "Rating", "type": "select", "options": []string{"Good", "Bad"}},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created FormResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.CreatedBy != "admin-1" {
		t.Fatalf("createdBy = %q", created.CreatedBy)
	}

	w = request(router, http.MethodGet, "/api/forms/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = request(router, http.MethodPut, "/api/forms/"+created.ID, map[string]any{"title": "Renamed"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", w.Code)
	}

	for range 2 {
		w = request(router, http.MethodDelete, "/api/forms/"+created.ID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("delete: expected 200, got %d", w.Code)
		}
		var body core.SuccessResponse
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil || !body.Success {
			t.Fatalf("delete body: %+v, %v", body, err)
		}
	}

	w = request(router, http.MethodGet, "/api/forms/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", w.Code)
	}
}

func TestFormValidationMessage(t *testing.T) {
	router := newFormRouter("admin-1", core.RoleAdmin)

	w := request(router, http.MethodPost, "/api/forms", map[string]any{
		"title":  "Broken",
		"fields": []map[string]any{{"label": "Pick", "type": "checkbox"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var body core.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != core.CodeValidation || body.Message == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestUserCannotMutateForms(t *testing.T) {
	router := newFormRouter("user-1", core.RoleUser)

	if w := request(router, http.MethodGet, "/api/forms", nil); w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	if w := request(router, http.MethodPost, "/api/forms", map[string]any{"title": "x"}); w.Code != http.StatusForbidden {
		t.Fatalf("create: expected 403, got %d", w.Code)
	}
	if w := request(router, http.MethodDelete, "/api/forms/anything", nil); w.Code != http.StatusForbidden {
		t.Fatalf("delete: expected 403, got %d", w.Code)
	}
}
