package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"golang.org/x/text/unicode/norm"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("invalid search")

var postalCodeRe = regexp.MustCompile(`^\d{5}$`)

// ValidationError reports the fields that failed validation.
type ValidationError struct {
	Fields criterio.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, e.Fields.Error())
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap exposes the field errors so callers can render them individually.
func (e *ValidationError) Unwrap() error {
	return e.Fields
}

// PostalCode validates a US postal code: exactly five ASCII digits.
func PostalCode(code string) error {
	if !postalCodeRe.MatchString(code) {
		return fmt.Errorf("enter a valid 5-digit ZIP code")
	}
	return nil
}

// Query validates a search term is non-empty after trimming whitespace.
func Query(q string) error {
	if strings.TrimSpace(q) == "" {
		return fmt.Errorf("enter a search term")
	}
	return nil
}

// Validate turns raw form input into a Request stamped with the current time.
func Validate(rawQuery, rawPostalCode, rawRadius string) (Request, error) {
	return ValidateAt(time.Now(), rawQuery, rawPostalCode, rawRadius)
}

// ValidateAt is Validate with an explicit creation time.
func ValidateAt(now time.Time, rawQuery, rawPostalCode, rawRadius string) (Request, error) {
	var (
		errs   criterio.FieldErrorsBuilder
		query  = norm.NFC.String(strings.TrimSpace(rawQuery))
		postal = strings.TrimSpace(rawPostalCode)
	)

	if err := PostalCode(postal); err != nil {
		errs = errs.Append("postal_code", err)
	}

	if err := Query(query); err != nil {
		errs = errs.Append("query", err)
	}

	radius, err := ParseRadius(rawRadius)
	switch {
	case err != nil:
		errs = errs.Append("radius", err)
	case !radius.Valid():
		errs = errs.Append("radius", fmt.Errorf("radius must be one of 5, 10, 25, 50, 100 (got %d)", radius))
	}

	if err := errs.ToError(); err != nil {
		var fields criterio.FieldErrors
		if !errors.As(err, &fields) {
			fields = criterio.FieldErrors{{Err: err}}
		}
		return Request{}, &ValidationError{Fields: fields}
	}

	return Request{
		Query:      query,
		PostalCode: postal,
		Radius:     radius,
		CreatedAt:  now,
	}, nil
}
