package match

import (
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the fields every downstream computation depends on.
// Goals are optional here; use ValidateScored when a result is required.
func (r Record) Validate() error {
	if err := recordValidator().Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if crerr.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return NewMalformedRecordError(r.ID, first.Field(), describeTag(first))
		}
		return NewMalformedRecordError(r.ID, "record", err.Error())
	}
	if strings.TrimSpace(r.HomeTeam) == "" {
		return NewMalformedRecordError(r.ID, "HomeTeam", "is required")
	}
	if strings.TrimSpace(r.AwayTeam) == "" {
		return NewMalformedRecordError(r.ID, "AwayTeam", "is required")
	}
	if r.KickoffAt.IsZero() {
		return NewMalformedRecordError(r.ID, "KickoffAt", "is required")
	}
	return nil
}

// ValidateScored is Validate plus the requirement that both goal counts are present.
func (r Record) ValidateScored() error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.HomeGoals == nil {
		return NewMalformedRecordError(r.ID, "HomeGoals", "is missing")
	}
	if r.AwayGoals == nil {
		return NewMalformedRecordError(r.ID, "AwayGoals", "is missing")
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "nefield":
		return "must differ from " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
