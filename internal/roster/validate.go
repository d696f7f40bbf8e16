package roster

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/preston-bernstein/nba-roster-service/internal/domain/teams"
)

const (
	minNameLength = 2

	reasonNameTooShort    = "Name must be at least 2 characters"
	reasonNameTaken       = "Team name must be unique"
	reasonNegativeCount   = "Player count must be non-negative"
	reasonRegionRequired  = "Region is required"
	reasonCountryRequired = "Country is required"
)

// nameKey is the comparison key for team names: a plain lowercase mapping with
// no special-casing folds (so "ß" stays distinct from "ss"). Whitespace is kept.
// A Caser carries state, so each call gets its own.
func nameKey(name string) string {
	return cases.Lower(language.Und).String(name)
}

// validateDraft checks required fields and name uniqueness. owner is the id of
// the team being updated and is excluded from the uniqueness check; it is empty
// on create.
func (e *Engine) validateDraft(draft teams.Draft, owner teams.ID) error {
	var fields []FieldError

	if utf8.RuneCountInString(draft.Name) < minNameLength {
		fields = append(fields, FieldError{Field: FieldName, Reason: reasonNameTooShort})
	}
	if holder, ok := e.names[nameKey(draft.Name)]; ok && holder != owner {
		fields = append(fields, FieldError{Field: FieldName, Reason: reasonNameTaken})
	}
	if draft.PlayerCount < 0 {
		fields = append(fields, FieldError{Field: FieldPlayerCount, Reason: reasonNegativeCount})
	}
	if draft.Region == "" {
		fields = append(fields, FieldError{Field: FieldRegion, Reason: reasonRegionRequired})
	}
	if draft.Country == "" {
		fields = append(fields, FieldError{Field: FieldCountry, Reason: reasonCountryRequired})
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
