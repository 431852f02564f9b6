// AngelaMos | 2026
// handler.go

package submission

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

// RegisterRoutes expects a router scoped to /submissions that already passed
// the token gate. submitLimit throttles submission creation per user.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	submitLimit func(http.Handler) http.Handler,
) {
	r.With(middleware.RequireUser, submitLimit).Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/form/{formID}", h.ListByForm)
		r.Get("/user/{userID}", h.GetSubmitter)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSubmissionRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sub, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		switch {
		case core.IsAppError(err):
			core.JSONError(w, err)
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "Form")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToSubmissionResponse(sub))
}

func (h *Handler) ListByForm(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListPopulated(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, rows)
}

func (h *Handler) GetSubmitter(w http.ResponseWriter, r *http.Request) {
	submitter, err := h.service.Submitter(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "User")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, submitter)
}
