package domain

import "time"

// Participant is a browser session enrolled in experiments. Its ID is the
// session token.
type Participant struct {
	ID        string
	UserID    *string
	CreatedAt time.Time
}

// AssignmentReason explains how an assignment was reached.
type AssignmentReason string

const (
	ReasonOverride        AssignmentReason = "override"
	ReasonExisting        AssignmentReason = "existing"
	ReasonDrawn           AssignmentReason = "drawn"
	ReasonControlFallback AssignmentReason = "control_fallback"
	ReasonInactive        AssignmentReason = "inactive"
)

// Assignment is the outcome of placing a participant in an experiment.
// Variant is nil when the experiment is not enrolling and the participant has
// no prior variant.
type Assignment struct {
	ExperimentID  string
	ParticipantID string
	Variant       *Variant
	Reason        AssignmentReason
}

// VariantName returns the assigned variant name or fallback when unassigned.
func (a Assignment) VariantName(fallback string) string {
	if a.Variant == nil {
		return fallback
	}
	return a.Variant.Name
}
