// AngelaMos | 2026
// dto.go

package submission

import (
	"time"
)

type CreateSubmissionRequest struct {
	FormID    string    `json:"formId"    validate:"required,max=64"`
	Responses Responses `json:"responses" validate:"required"`
}

type SubmissionResponse struct {
	ID          string    `json:"id"`
	FormID      string    `json:"formId"`
	UserID      string    `json:"userId"`
	Responses   Responses `json:"responses"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type Submitter struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PopulatedSubmission carries the submitter record next to the canonical
// userId. User is null when the account no longer exists.
type PopulatedSubmission struct {
	SubmissionResponse
	User *Submitter `json:"user"`
}

type SubmitterResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func ToSubmissionResponse(s *Submission) SubmissionResponse {
	responses := s.Responses
	if responses == nil {
		responses = Responses{}
	}

	return SubmissionResponse{
		ID:          s.ID,
		FormID:      s.FormID,
		UserID:      s.UserID,
		Responses:   responses,
		SubmittedAt: s.SubmittedAt,
	}
}
