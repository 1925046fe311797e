package models

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentOutcome - исход назначения машины на инцидент
type AssignmentOutcome string

const (
	OutcomePending  AssignmentOutcome = "pending"
	OutcomeAccepted AssignmentOutcome = "accepted"
	OutcomeDeclined AssignmentOutcome = "declined"
	// OutcomeReleased - назначение закрыто вместе с инцидентом (completed/cancelled)
	OutcomeReleased AssignmentOutcome = "released"
)

// IsActive - назначение ещё держит машину и инцидент
func (o AssignmentOutcome) IsActive() bool {
	return o == OutcomePending || o == OutcomeAccepted
}

// Assignment связывает инцидент с назначенной машиной
type Assignment struct {
	ID          uuid.UUID         `json:"id"`
	IncidentID  uuid.UUID         `json:"incident_id"`
	ResourceID  uuid.UUID         `json:"resource_id"`
	Outcome     AssignmentOutcome `json:"outcome"`
	ETASeconds  *int              `json:"eta_seconds,omitempty"`
	AssignedAt  time.Time         `json:"assigned_at"`
	RespondedAt *time.Time        `json:"responded_at,omitempty"`
	ClosedAt    *time.Time        `json:"closed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
