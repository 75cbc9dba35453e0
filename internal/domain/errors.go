package domain

import (
	"errors"
	"fmt"
)

// ValidationError rejects a Selection. Code is stable for metrics and API
// clients; Warning is the sentence shown to the user.
type ValidationError struct {
	Code    string
	Warning string
	detail  string
}

func (e *ValidationError) Error() string {
	if e.detail != "" {
		return e.Code + ": " + e.detail
	}
	return e.Code
}

// Is matches any ValidationError with the same Code, so errors.Is works for
// detailed errors against the sentinels below.
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Validation codes.
const (
	CodeNoCountry      = "no_country"
	CodeMixedSelection = "mixed_selection"
	CodeInvalidRange   = "invalid_range"
	CodeYearOutOfRange = "year_out_of_range"
	CodeUnknownMetric  = "unknown_metric"
	CodeUnknownCountry = "unknown_country"
)

var (
	ErrNoCountry = &ValidationError{
		Code:    CodeNoCountry,
		Warning: "Please choose a country.",
		detail:  "no country chosen",
	}
	ErrMixedSelection = &ValidationError{
		Code:    CodeMixedSelection,
		Warning: "Please select either 'All' or individual countries, not both.",
		detail:  "'All' and individual countries are mutually exclusive",
	}
	ErrInvalidRange = &ValidationError{
		Code:    CodeInvalidRange,
		Warning: "Max year cannot be less than min year.",
		detail:  "invalid range",
	}
	ErrYearOutOfRange = &ValidationError{
		Code:    CodeYearOutOfRange,
		Warning: fmt.Sprintf("Years must be between %d and %d.", MinValidYear, MaxValidYear),
	}
	ErrUnknownMetric = &ValidationError{
		Code:    CodeUnknownMetric,
		Warning: "Please select an environmental variable.",
	}
	ErrUnknownCountry = &ValidationError{
		Code:    CodeUnknownCountry,
		Warning: "Please choose countries from the list.",
	}
)

// Warning returns the user-facing text for a validation error, or "" when
// err is not one.
func Warning(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Warning
	}
	return ""
}

func newUnknownMetric(name string) error {
	return &ValidationError{
		Code:    CodeUnknownMetric,
		Warning: ErrUnknownMetric.Warning,
		detail:  fmt.Sprintf("%q", name),
	}
}

func newUnknownCountry(name string) error {
	return &ValidationError{
		Code:    CodeUnknownCountry,
		Warning: fmt.Sprintf("Unknown country %q. %s", name, ErrUnknownCountry.Warning),
		detail:  fmt.Sprintf("%q", name),
	}
}

func newYearOutOfRange(year int) error {
	return &ValidationError{
		Code:    CodeYearOutOfRange,
		Warning: ErrYearOutOfRange.Warning,
		detail:  fmt.Sprintf("%d", year),
	}
}
