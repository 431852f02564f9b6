// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

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

// RegisterRoutes mounts the auth endpoints on a router already scoped to
// /auth. loginLimit wraps only the login endpoint.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth, loginLimit func(http.Handler) http.Handler,
) {
	r.With(loginLimit).Post("/login", h.Login)
	r.With(optionalAuth).Post("/register", h.Register)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/me", h.GetMe)
		r.Post("/logout", h.Logout)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.Unauthorized(w, "Invalid credentials")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Register(
		r.Context(),
		req,
		middleware.GetUserRole(r.Context()),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			core.JSONError(w, core.ConflictError("User already exists"))
		case errors.Is(err, ErrAdminRequired):
			core.BadRequest(w, "Only admins can create admin accounts")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "Invalid role")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, resp)
}

// Logout only acknowledges the request. Tokens are stateless, so the client
// discards its copy.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	core.Message(w, "Logged out successfully")
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, user)
}
