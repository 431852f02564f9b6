// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
	"github.com/carterperez-dev/templates/forms-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterAdminRoutes registers admin-only user management endpoints on a
// router scoped to /auth. Each route passes the token gate and then the
// stored-role check.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly, confirmAdmin func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)
		r.Use(confirmAdmin)

		r.Get("/", h.ListUsers)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}", h.UpdateUser)
		r.Delete("/{userID}", h.DeleteUser)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}

	if raw := r.URL.Query().Get("role"); raw != "" {
		role, err := core.ParseRole(raw)
		if err != nil {
			core.BadRequest(w, "Invalid role")
			return
		}
		params.Role = role
	}

	users, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponseList(users))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateUserRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateUser(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "User")
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.ConflictError("Email already in use"))
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "Invalid role")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, UpdateUserResponse{
		Message: "User updated successfully",
		User:    ToUserResponse(user),
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetUserID(r.Context())
	targetID := chi.URLParam(r, "userID")

	if err := h.service.DeleteUser(r.Context(), requesterID, targetID); err != nil {
		switch {
		case errors.Is(err, ErrSelfDelete):
			core.BadRequest(w, "Cannot delete your own account")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "User")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Message(w, "User deleted successfully")
}
