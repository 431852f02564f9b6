// AngelaMos | 2026
// handler.go

package form

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

// RegisterRoutes expects a router scoped to /forms that already passed the
// token gate. adminMutation guards create, update and delete.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	adminMutation ...func(http.Handler) http.Handler,
) {
	r.Get("/", h.List)
	r.Get("/{formID}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(adminMutation...)
		r.Post("/", h.Create)
		r.Put("/{formID}", h.Update)
		r.Delete("/{formID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToFormResponseList(forms))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.service.Get(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		writeFormError(w, err)
		return
	}

	core.OK(w, ToFormResponse(form))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFormRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	form, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		writeFormError(w, err)
		return
	}

	core.Created(w, ToFormResponse(form))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateFormRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	form, err := h.service.Update(r.Context(), chi.URLParam(r, "formID"), req)
	if err != nil {
		writeFormError(w, err)
		return
	}

	core.OK(w, ToFormResponse(form))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "formID")); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, core.SuccessResponse{Success: true})
}

func writeFormError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "Form")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "Invalid form")
	default:
		core.InternalServerError(w, err)
	}
}
