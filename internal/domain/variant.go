package domain

import "time"

// DefaultAllocation is the weight a variant gets when none is given.
const DefaultAllocation = 1

type Variant struct {
	ID           string
	ExperimentID string
	Name         string
	Description  string
	Allocation   int
	Participants []string
	CreatedAt    time.Time
}

func (v *Variant) HasParticipant(participantID string) bool {
	for _, p := range v.Participants {
		if p == participantID {
			return true
		}
	}
	return false
}

// AddParticipant adds participantID to the set. It reports whether the set changed.
func (v *Variant) AddParticipant(participantID string) bool {
	if v.HasParticipant(participantID) {
		return false
	}
	v.Participants = append(v.Participants, participantID)
	return true
}

// FindVariantByName returns the variant called name, or nil.
func FindVariantByName(variants []*Variant, name string) *Variant {
	for _, v := range variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// FindParticipantVariant returns the variant holding participantID, or nil.
func FindParticipantVariant(variants []*Variant, participantID string) *Variant {
	for _, v := range variants {
		if v.HasParticipant(participantID) {
			return v
		}
	}
	return nil
}

// ControlVariant returns the variant called controlName, falling back to the
// first variant. It returns nil only when variants is empty.
func ControlVariant(variants []*Variant, controlName string) *Variant {
	if v := FindVariantByName(variants, controlName); v != nil {
		return v
	}
	if len(variants) == 0 {
		return nil
	}
	return variants[0]
}
