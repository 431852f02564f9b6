// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fixedCount struct {
	n   int
	err error
}

func (c fixedCount) Count(context.Context) (int, error) { return c.n, c.err }

func getStats(t *testing.T, h *Handler) SystemStatsResponse {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body SystemStatsResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func TestSystemStatsWithoutRedis(t *testing.T) {
	body := getStats(t, NewHandler(HandlerConfig{
		StoreDriver: "postgres",
		DBStats:     func() sql.DBStats { return sql.DBStats{OpenConnections: 3} },
		StorePing:   func(context.Context) error { return nil },
		Users:       fixedCount{n: 5},
		Forms:       fixedCount{n: 4},
		Submissions: fixedCount{err: errors.New("timeout")},
	}))

	if body.Database.Driver != "postgres" || !body.Database.Healthy {
		t.Fatalf("unexpected database status %+v", body.Database)
	}
	if body.Database.Stats == nil || body.Database.Stats.OpenConnections != 3 {
		t.Fatalf("pool stats missing: %+v", body.Database.Stats)
	}
	if body.Redis.Enabled || body.Redis.Healthy || body.Redis.Stats != nil {
		t.Fatalf("redis should report disabled: %+v", body.Redis)
	}
	if body.Content.Users != 5 || body.Content.Forms != 4 || body.Content.Submissions != -1 {
		t.Fatalf("unexpected content counts %+v", body.Content)
	}
}

func TestSystemStatsDocumentStore(t *testing.T) {
	body := getStats(t, NewHandler(HandlerConfig{
		StoreDriver: "mongo",
		StorePing:   func(context.Context) error { return errors.New("down") },
		RedisPing:   func(context.Context) error { return nil },
	}))

	if body.Database.Healthy || body.Database.Stats != nil {
		t.Fatalf("unexpected database status %+v", body.Database)
	}
	if !body.Redis.Enabled || !body.Redis.Healthy {
		t.Fatalf("unexpected redis status %+v", body.Redis)
	}
	if body.Content.Users != -1 {
		t.Fatalf("missing counter should report -1, got %d", body.Content.Users)
	}
}
