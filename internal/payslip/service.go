package payslip

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rhportal/payslip-engine/internal/logger"
	"github.com/rhportal/payslip-engine/internal/store"
)

const cpfLength = 11

// PayslipRequest is the input of the facade's single query operation.
type PayslipRequest struct {
	CPF                string `json:"cpf"`
	RegistrationNumber string `json:"registration_number"`
	Competency         string `json:"competency"`
}

// PayslipResult is the assembled answer: the structured triple, the winning
// batch, the acceptance flag and the rendered document. []byte marshals as
// base64 in JSON, which is exactly the transport convention the portal uses.
type PayslipResult struct {
	Header   store.PayHeaderRecord  `json:"header"`
	Events   []store.PayEventRecord `json:"events"`
	Footer   store.PayFooterRecord  `json:"footer"`
	BatchID  int64                  `json:"batch_id"`
	Accepted bool                   `json:"accepted"`
	Document []byte                 `json:"document"`
}

// AcknowledgmentRequest captures one consent confirmation from the portal.
type AcknowledgmentRequest struct {
	RegistrationNumber string `json:"registration_number"`
	Competency         string `json:"competency"`
	Accepted           bool   `json:"accepted"`
	CaptureDate        string `json:"capture_date"`
	CaptureTime        string `json:"capture_time"`
}

// Service orchestrates normalizer, reconciler, acceptance resolver and
// renderer behind one query operation. Requests are independent: no shared
// mutable state, no caching, every call re-reads the fact tables.
type Service struct {
	storage    *store.Storage
	reconciler *Reconciler
	acceptance *AcceptanceResolver
	log        *logger.Logger
	now        func() time.Time
}

func NewService(storage *store.Storage, log *logger.Logger) *Service {
	return &Service{
		storage:    storage,
		reconciler: NewReconciler(storage),
		acceptance: NewAcceptanceResolver(storage.Acknowledgments, log),
		log:        log,
		now:        time.Now,
	}
}

// GetPayslip validates the request, reconciles the fact rows, resolves the
// acceptance flag and renders the document. Reconciliation failures
// propagate as-is, with no acceptance lookup and no rendering.
func (s *Service) GetPayslip(ctx context.Context, req PayslipRequest) (*PayslipResult, error) {
	id, err := s.validateIdentity(req.CPF, req.RegistrationNumber)
	if err != nil {
		return nil, err
	}
	if err := validateCompetency(req.Competency); err != nil {
		return nil, err
	}

	slip, err := s.reconciler.Reconcile(ctx, id, req.Competency)
	if err != nil {
		return nil, err
	}

	accepted := s.acceptance.Resolve(ctx, id.RegistrationNumber, req.Competency)

	doc, err := RenderDocument(slip.Header, slip.Events, slip.Footer)
	if err != nil {
		return nil, fmt.Errorf("failed to render payslip: %w", err)
	}

	s.log.Debug("payslip", "reconciled batch %d for registration %s competency %s (%d events)",
		slip.BatchID, id.RegistrationNumber, req.Competency, len(slip.Events))

	return &PayslipResult{
		Header:   slip.Header,
		Events:   slip.Events,
		Footer:   slip.Footer,
		BatchID:  slip.BatchID,
		Accepted: accepted,
		Document: doc,
	}, nil
}

// ListCompetencies returns the normalized competencies that have at least
// one event row for the identity, most recent first. The portal uses it to
// offer the latest payslips.
func (s *Service) ListCompetencies(ctx context.Context, cpf, registration string) ([]string, error) {
	id, err := s.validateIdentity(cpf, registration)
	if err != nil {
		return nil, err
	}

	raw, err := s.storage.Events.ListCompetencies(ctx, id.CPF, id.RegistrationNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list competencies: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	var tokens []string
	for _, r := range raw {
		token, err := NormalizeCompetency(r)
		if err != nil {
			token = DigitToken(r)
		}
		if len(token) != 6 || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(tokens)))
	return tokens, nil
}

// RecordAcknowledgment persists one consent capture. Unlike resolution this
// is a write the caller asked for, so failures are reported, not absorbed.
func (s *Service) RecordAcknowledgment(ctx context.Context, req AcknowledgmentRequest) error {
	if trimmed(req.RegistrationNumber) == "" {
		return &ValidationError{Field: "registration_number", Reason: "must not be blank"}
	}
	if err := validateCompetency(req.Competency); err != nil {
		return err
	}

	captureDate, captureTime := req.CaptureDate, req.CaptureTime
	if captureDate == "" {
		captureDate = s.now().Format("2006-01-02")
	}
	if captureTime == "" {
		captureTime = s.now().Format("15:04:05")
	}

	token, err := NormalizeCompetency(req.Competency)
	if err != nil {
		token = DigitToken(req.Competency)
	}

	rec := &store.AcknowledgmentRecord{
		RegistrationNumber: trimmed(req.RegistrationNumber),
		Competency:         token,
		CaptureDate:        captureDate,
		CaptureTime:        captureTime,
		Accepted:           req.Accepted,
	}
	return s.storage.Acknowledgments.Insert(ctx, rec)
}

func (s *Service) validateIdentity(cpf, registration string) (Identity, error) {
	cpf = trimmed(cpf)
	if len(cpf) != cpfLength || !allDigits(cpf) {
		return Identity{}, &ValidationError{Field: "cpf", Reason: fmt.Sprintf("must be exactly %d digits", cpfLength)}
	}
	registration = trimmed(registration)
	if registration == "" {
		return Identity{}, &ValidationError{Field: "registration_number", Reason: "must not be blank"}
	}
	return Identity{CPF: cpf, RegistrationNumber: registration}, nil
}

// validateCompetency accepts anything an accepted shape represents, plus
// bare six-digit-derivable tokens (the batch-agnostic form the portal
// sends).
func validateCompetency(raw string) error {
	if _, err := NormalizeCompetency(raw); err == nil {
		return nil
	}
	if len(DigitToken(raw)) == 6 {
		return nil
	}
	return &ValidationError{Field: "competency", Reason: "not representable as year and month"}
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
