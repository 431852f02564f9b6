// AngelaMos | 2026
// handler.go

package responses

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

type Handler struct {
	aggregator *Aggregator
}

func NewHandler(aggregator *Aggregator) *Handler {
	return &Handler{aggregator: aggregator}
}

// RegisterRoutes mounts GET /{formID}/responses on a router scoped to /forms.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	adminOnly func(http.Handler) http.Handler,
) {
	r.With(adminOnly).Get("/{formID}/responses", h.GetResponses)
}

func (h *Handler) GetResponses(w http.ResponseWriter, r *http.Request) {
	rows, err := h.aggregator.Aggregate(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Form")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, rows)
}
