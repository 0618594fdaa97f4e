package domain

import "errors"

var (
	ErrInvalidDuration           = errors.New("invalid duration")
	ErrNegativeDuration          = errors.New("negative duration")
	ErrMalformedCourseDefinition = errors.New("malformed course definition")
	ErrNoPriorPunch              = errors.New("no prior punch to bridge from")
	ErrControlCountMismatch      = errors.New("control count mismatch")
	ErrEmptyRanking              = errors.New("nobody to rank")
	ErrUnknownLeg                = errors.New("unknown leg")
	ErrUnknownControl            = errors.New("unknown control")
	ErrRaceNotFound              = errors.New("race not found")
)
