package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrExperimentNotFound  = errors.New("experiment not found")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrUnknownVariant      = errors.New("unknown variant")
	ErrNoVariants          = errors.New("experiment has no variants")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidAction       = errors.New("invalid status action")
	ErrNegativeAllocation  = errors.New("allocation must not be negative")
	ErrDuplicateName       = errors.New("name already in use")
	ErrAlreadyExists       = errors.New("already exists")
	ErrAlreadyLinked       = errors.New("participant already linked to a user")
	ErrInvalidUsername     = errors.New("username does not meet requirements")
	ErrWeakPassword        = errors.New("password does not meet requirements")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmptyName           = errors.New("name must not be empty")
	ErrInvalidFunnelStep   = errors.New("invalid funnel step")
	ErrInvalidExperimentID = errors.New("invalid experiment id")
	ErrEmptyParticipantID  = errors.New("participant id must not be empty")
)
