package payslip

import (
	"errors"
	"fmt"
)

// Reconciliation failures are reported with enough detail for callers to
// tell them apart; they are never collapsed into a generic "not found".
var (
	// ErrNoEvents: no event rows exist for the identity and competency.
	ErrNoEvents = errors.New("no pay events found for the requested competency")

	// ErrMissingHeader: events exist but no import batch carries a header.
	ErrMissingHeader = errors.New("no import batch carries a payslip header")

	// ErrMissingFooter: some batch has a header but its footer is absent.
	ErrMissingFooter = errors.New("payslip header found but no footer for the same batch")

	// ErrEventsBatchMismatch guards an invariant that should be unreachable:
	// the winning batch was chosen from the event list, so re-filtering that
	// list can never come back empty. If it does, it is an internal bug.
	ErrEventsBatchMismatch = errors.New("no events remain for the reconciled batch")
)

// ValidationError reports malformed request input: identity fields or a
// competency that no accepted shape can represent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidEventKindError reports an event row whose kind is neither credit
// nor debit. It aborts the whole reconciliation: a partially garbled payslip
// must never be returned.
type InvalidEventKindError struct {
	EventCode int
	Kind      string
}

func (e *InvalidEventKindError) Error() string {
	return fmt.Sprintf("event %d has invalid kind %q (want credit or debit)", e.EventCode, e.Kind)
}
