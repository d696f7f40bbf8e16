package roster

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a command targets a team that does not exist.
	ErrNotFound = errors.New("team not found")
	// ErrAlreadyRostered is returned when a player is already on some team's roster.
	ErrAlreadyRostered = errors.New("player is already in a team")
)

// Field names reported by ValidationError.
const (
	FieldName        = "name"
	FieldPlayerCount = "playerCount"
	FieldRegion      = "region"
	FieldCountry     = "country"
)

// FieldError describes one rejected draft field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates every field that failed validation for a draft.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid team"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "invalid team: " + strings.Join(parts, "; ")
}

// Has reports whether the given field failed.
func (e *ValidationError) Has(field string) bool {
	if e == nil {
		return false
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// DuplicateName reports whether the draft was rejected for a name clash.
func (e *ValidationError) DuplicateName() bool {
	if e == nil {
		return false
	}
	for _, f := range e.Fields {
		if f.Field == FieldName && f.Reason == reasonNameTaken {
			return true
		}
	}
	return false
}

// AsValidationError unwraps err into a ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
