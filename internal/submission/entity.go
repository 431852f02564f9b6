// AngelaMos | 2026
// entity.go

package submission

import (
	"time"
)

// Submission is immutable once stored.
type Submission struct {
	ID          string    `db:"id"`
	FormID      string    `db:"form_id"`
	UserID      string    `db:"user_id"`
	Responses   Responses `db:"responses"`
	SubmittedAt time.Time `db:"submitted_at"`
}
