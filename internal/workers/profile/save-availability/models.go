// internal/workers/profile/save-availability/models.go
package saveavailability

import (
	"encoding/json"

	"rekonet-workers/internal/common/validation"
	"rekonet-workers/internal/models"
)

type Input struct {
	AssessmentID string          `json:"assessmentId"`
	Availability json.RawMessage `json:"availability"`
}

type Output struct {
	AssessmentID string              `json:"assessmentId"`
	Availability models.Availability `json:"availability"`
	Days         []string            `json:"selectedDays"`
	Saved        bool                `json:"saved"`
}

// FieldErrors is attached to the BPMN error so a form can highlight them.
type FieldErrors []validation.FieldError
