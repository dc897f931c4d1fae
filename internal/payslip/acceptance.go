package payslip

import (
	"context"

	"github.com/rhportal/payslip-engine/internal/logger"
	"github.com/rhportal/payslip-engine/internal/store"
)

// AcknowledgmentSource is the slice of the storage the resolver needs.
type AcknowledgmentSource interface {
	ListByRegistration(ctx context.Context, registration string) ([]store.AcknowledgmentRecord, error)
}

// AcceptanceResolver answers whether the payee confirmed receipt of the
// digital payslip for a competency. It is a best-effort side signal: every
// internal failure is absorbed into "not accepted" so that nothing here can
// ever fail a payslip request.
type AcceptanceResolver struct {
	source AcknowledgmentSource
	log    *logger.Logger
}

func NewAcceptanceResolver(source AcknowledgmentSource, log *logger.Logger) *AcceptanceResolver {
	return &AcceptanceResolver{source: source, log: log}
}

// Resolve returns the flag of the most authoritative acknowledgment row for
// the registration and competency, defaulting to false when no row exists.
// The rows arrive already ordered (descending id, capture date, capture
// time), so the first competency match wins.
func (ar *AcceptanceResolver) Resolve(ctx context.Context, registration, competencyRaw string) bool {
	token := DigitToken(competencyRaw)
	if token == "" {
		return false
	}

	rows, err := ar.source.ListByRegistration(ctx, registration)
	if err != nil {
		ar.log.Warn("acceptance", "acknowledgment lookup failed, defaulting to not accepted: %v", err)
		return false
	}

	for _, rec := range rows {
		if acknowledgmentToken(rec) == token {
			return rec.Accepted
		}
	}
	return false
}

// acknowledgmentToken derives the comparable competency token from whichever
// carrier the backing table generation populated: the explicit competency
// column when present, otherwise the capture date.
func acknowledgmentToken(rec store.AcknowledgmentRecord) string {
	if rec.Competency != "" {
		return DigitToken(rec.Competency)
	}
	if t, ok := parseFlexibleDate(rec.CaptureDate); ok {
		return t.Format("200601")
	}
	return DigitToken(rec.CaptureDate)
}
