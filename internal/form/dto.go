// AngelaMos | 2026
// dto.go

package form

import (
	"time"
)

type FieldInput struct {
	ID          string   `json:"id"          validate:"omitempty,max=64"`
	Label       string   `json:"label"       validate:"required,max=200"`
	Type        string   `json:"type"        validate:"required"`
	Placeholder string   `json:"placeholder" validate:"max=200"`
	Options     []string `json:"options"     validate:"omitempty,dive,max=200"`
}

type CreateFormRequest struct {
	Title       string       `json:"title"       validate:"required,min=1,max=200"`
	Description string       `json:"description" validate:"max=2000"`
	Fields      []FieldInput `json:"fields"      validate:"dive"`
}

// UpdateFormRequest is a partial update. Fields present in the body (even as
// an empty list) replace the whole list; fields that keep their id keep their
// identity.
type UpdateFormRequest struct {
	Title       *string      `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	Fields      []FieldInput `json:"fields,omitempty"      validate:"omitempty,dive"`
}

type FormResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Fields      []Field   `json:"fields"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToFormResponse(f *Form) FormResponse {
	fields := f.Fields
	if fields == nil {
		fields = Fields{}
	}

	return FormResponse{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Fields:      fields,
		CreatedBy:   f.CreatedBy,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func ToFormResponseList(forms []Form) []FormResponse {
	responses := make([]FormResponse, 0, len(forms))
	for i := range forms {
		responses = append(responses, ToFormResponse(&forms[i]))
	}
	return responses
}
