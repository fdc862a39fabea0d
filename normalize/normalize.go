// Package normalize implements the group-specific ledger normalization
// engine. It maps the heterogeneous raw row shapes of each vendor group into
// canonical payment-advice lines, derives debit/credit direction and
// reference fields from the group's rule table, nets withholding-tax entries
// into a single aggregate line, and classifies every line as a
// business-partner or general-ledger posting.
//
// The engine is a pure, synchronous computation: same input, same output, no
// I/O, no wall clock. Multiple advices can be normalized concurrently with
// no coordination.
package normalize

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tallyops/advicenorm/advice"
	"github.com/tallyops/advicenorm/telemetry"
)

// Normalizer turns one advice's meta header and raw rows into canonical
// lines. Implementations must be deterministic and must never drop a row
// without recording a warning.
type Normalizer interface {
	// Group identifies the vendor group this normalizer serves.
	Group() advice.VendorGroup

	// Normalize produces the ordered canonical line list for one advice.
	// Rows missing required fields or carrying unparsable amounts are
	// skipped with a Warning; a malformed row never fails the advice.
	Normalize(meta advice.MetaHeader, rows []advice.RawRow) (*Result, error)
}

// Warning records why a raw row was skipped. Warnings travel with the result
// so callers can surface them without the engine doing any logging itself.
type Warning struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d skipped: %s", w.Row, w.Reason)
}

// Result is the outcome of normalizing one payment advice: the ordered
// canonical lines (at most one TDS line, appended last) plus any row-skip
// warnings.
type Result struct {
	AdviceUUID string             `json:"payment_advice_uuid,omitempty"`
	Group      advice.VendorGroup `json:"group"`
	Lines      []advice.Line      `json:"lines"`
	Warnings   []Warning          `json:"warnings,omitempty"`
}

func (r *Result) warnf(row int, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Row: row, Reason: fmt.Sprintf(format, args...)})
}

// Stamp attaches identity to an emitted result: the advice UUID on every
// line (generated when empty), a fresh UUID per line, and the default branch
// where the group's rules left it unset. Stamp is the only non-deterministic
// step and therefore lives outside Normalize.
func (r *Result) Stamp(adviceUUID string) string {
	if adviceUUID == "" {
		adviceUUID = uuid.NewString()
	}
	r.AdviceUUID = adviceUUID
	for i := range r.Lines {
		line := &r.Lines[i]
		line.AdviceUUID = adviceUUID
		if line.LineUUID == "" {
			line.LineUUID = uuid.NewString()
		}
		if line.BranchName == "" {
			line.BranchName = advice.DefaultBranch
		}
	}
	return adviceUUID
}

// FailedError is the all-or-nothing failure surfaced when normalization of a
// document panics or errors at the engine boundary. No partial output
// accompanies it.
type FailedError struct {
	Group        advice.VendorGroup
	AdviceNumber string
	cause        error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("normalization failed for this document (advice %q, group %s): %v",
		e.AdviceNumber, e.Group, e.cause)
}

func (e *FailedError) Unwrap() error { return e.cause }

// Run executes a normalizer at the engine's call boundary: it times the
// operation and converts any panic or error into a FailedError so a single
// bad document can never take down a batch or leave half-written output.
func Run(ctx context.Context, n Normalizer, meta advice.MetaHeader, rows []advice.RawRow) (result *Result, err error) {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("normalize %s", n.Group()))
	defer timer.End()

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &FailedError{
				Group:        n.Group(),
				AdviceNumber: meta.AdviceNumber,
				cause:        fmt.Errorf("panic: %v", r),
			}
		}
	}()

	res, err := n.Normalize(meta, rows)
	if err != nil {
		return nil, &FailedError{Group: n.Group(), AdviceNumber: meta.AdviceNumber, cause: err}
	}
	return res, nil
}
