// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

func seedUser(t *testing.T, svc *Service, email string, role core.Role) string {
	t.Helper()
	info, err := svc.Create(context.Background(), email, "hash", "Test "+string(role), role)
	if err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return info.ID
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	svc := NewService(newMemoryRepository())
	adminID := seedUser(t, svc, "admin@example.com", core.RoleAdmin)

	err := svc.DeleteUser(context.Background(), adminID, adminID)
	if !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}

	if _, err := svc.GetUser(context.Background(), adminID); err != nil {
		t.Fatalf("admin must still exist: %v", err)
	}
}

func TestDeleteUserRejectsSelfInAnotherSpelling(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepository())
	adminID := seedUser(t, svc, "admin@example.com", core.RoleAdmin)

	for _, target := range []string{
		strings.ToUpper(adminID),
		"{" + adminID + "}",
		"urn:uuid:" + adminID,
	} {
		if err := svc.DeleteUser(ctx, adminID, target); !errors.Is(err, ErrSelfDelete) {
			t.Fatalf("target %q: expected ErrSelfDelete, got %v", target, err)
		}
	}

	if _, err := svc.GetUser(ctx, adminID); err != nil {
		t.Fatalf("admin must still exist: %v", err)
	}
}

func TestDeleteUserAcceptsUpperCaseTarget(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepository())
	adminID := seedUser(t, svc, "admin@example.com", core.RoleAdmin)
	userID := seedUser(t, svc, "john@example.com", core.RoleUser)

	if err := svc.DeleteUser(ctx, adminID, strings.ToUpper(userID)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetUser(ctx, userID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("deleted user still visible: %v", err)
	}
}

func TestDeleteUserHidesAccount(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepository())
	adminID := seedUser(t, svc, "admin@example.com", core.RoleAdmin)
	userID := seedUser(t, svc, "john@example.com", core.RoleUser)

	if err := svc.DeleteUser(ctx, adminID, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.GetUser(ctx, userID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("deleted user still visible: %v", err)
	}
	if _, err := svc.CurrentRole(ctx, userID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("deleted user still has a role: %v", err)
	}
	if err := svc.DeleteUser(ctx, adminID, userID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	n, _ := svc.Count(ctx)
	if n != 1 {
		t.Fatalf("expected 1 live user, got %d", n)
	}
}

func TestUpdateUserChangesRole(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepository())
	id := seedUser(t, svc, "jane@example.com", core.RoleUser)

	role := "admin"
	email := " Jane.Smith@Example.com "
	updated, err := svc.UpdateUser(ctx, id, UpdateUserRequest{Role: &role, Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role != core.RoleAdmin || updated.Email != "jane.smith@example.com" {
		t.Fatalf("unexpected user %+v", updated)
	}

	stored, err := svc.CurrentRole(ctx, id)
	if err != nil || stored != core.RoleAdmin {
		t.Fatalf("stored role %q, err %v", stored, err)
	}
}

func TestUpdateUserRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMemoryRepository())
	id := seedUser(t, svc, "jane@example.com", core.RoleUser)

	role := "owner"
	_, err := svc.UpdateUser(context.Background(), id, UpdateUserRequest{Role: &role})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetByIDsSkipsMissingAndDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepository())
	a := seedUser(t, svc, "a@example.com", core.RoleUser)
	b := seedUser(t, svc, "b@example.com", core.RoleUser)

	got, err := svc.GetByIDs(ctx, []string{a, a, "missing", "", b})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(got) != 2 || got[a].Email != "a@example.com" || got[b].Email != "b@example.com" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestGetByEmailIsCaseInsensitive(t *testing.T) {
	svc := NewService(newMemoryRepository())
	seedUser(t, svc, "John@Example.com", core.RoleUser)

	info, err := svc.GetByEmail(context.Background(), "JOHN@example.COM")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if info.Email != "john@example.com" {
		t.Fatalf("unexpected email %q", info.Email)
	}
}
