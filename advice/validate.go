package advice

import (
	"fmt"
	"strings"
)

// SignInvariantError reports a line whose amount fields violate the
// single-sided posting rule.
type SignInvariantError struct {
	Index int
	Line  *Line
}

func (e *SignInvariantError) Error() string {
	return fmt.Sprintf("line %d (%s %s): amount %s must equal dr %s + cr %s with exactly one side set",
		e.Index, e.Line.DocType, e.Line.DocNumber,
		e.Line.Amount, e.Line.DrAmt, e.Line.CrAmt)
}

// DuplicateTDSError reports an advice with more than one TDS line.
type DuplicateTDSError struct {
	Count int
}

func (e *DuplicateTDSError) Error() string {
	return fmt.Sprintf("advice has %d TDS lines, at most one net TDS line is allowed", e.Count)
}

// MissingFieldError reports a line missing a required output field.
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("line %d: missing required field %q", e.Index, e.Field)
}

// ValidationErrors collects all invariant violations found in one advice's
// line list. Validation never short-circuits; callers get every error at
// once.
type ValidationErrors struct {
	Errors []error
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}
	msgs := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(v.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the collected errors so errors.Is and errors.As can reach
// the individual violations.
func (v *ValidationErrors) Unwrap() []error {
	return v.Errors
}

// ValidateLines checks the emitted-line invariants over one advice's ordered
// line list. It returns nil when all lines hold, or a *ValidationErrors
// carrying every violation.
func ValidateLines(lines []Line) error {
	var errs []error

	tds := 0
	for i := range lines {
		line := &lines[i]

		if line.DocType == "" {
			errs = append(errs, &MissingFieldError{Index: i, Field: "doc_type"})
		}
		if line.AccountType != AccountBP && line.AccountType != AccountGL {
			errs = append(errs, &MissingFieldError{Index: i, Field: "account_type"})
		}

		if !signInvariantHolds(line) {
			errs = append(errs, &SignInvariantError{Index: i, Line: line})
		}

		if line.DocType == DocTypeTDS {
			tds++
		}
	}

	if tds > 1 {
		errs = append(errs, &DuplicateTDSError{Count: tds})
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func signInvariantHolds(line *Line) bool {
	if line.Amount.IsNegative() || line.DrAmt.IsNegative() || line.CrAmt.IsNegative() {
		return false
	}
	if !line.Amount.Equal(line.DrAmt.Add(line.CrAmt)) {
		return false
	}
	// Exactly one side carries the amount. A zero-amount line trivially
	// satisfies the posting rule.
	if !line.DrAmt.IsZero() && !line.CrAmt.IsZero() {
		return false
	}
	return true
}
