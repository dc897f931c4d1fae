package payslip

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/rhportal/payslip-engine/internal/logger"
	"github.com/rhportal/payslip-engine/internal/store"
)

// In-memory row sources standing in for the SQL stores. They honor the same
// contracts: headers/footers are narrowed by batch, acknowledgments arrive
// pre-ordered, competency narrowing stays with the engine.

type fakeEvents struct {
	rows         []store.PayEventRecord
	competencies []string
	err          error
}

func (f *fakeEvents) ListByIdentity(ctx context.Context, cpf, registration string) ([]store.PayEventRecord, error) {
	return f.rows, f.err
}

func (f *fakeEvents) ListCompetencies(ctx context.Context, cpf, registration string) ([]string, error) {
	return f.competencies, f.err
}

type fakeHeaders struct {
	rows []store.PayHeaderRecord
	err  error
}

func (f *fakeHeaders) ListByBatch(ctx context.Context, cpf, registration string, batchID int64) ([]store.PayHeaderRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []store.PayHeaderRecord
	for _, r := range f.rows {
		if r.BatchID == batchID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeFooters struct {
	rows []store.PayFooterRecord
	err  error
}

func (f *fakeFooters) ListByBatch(ctx context.Context, cpf, registration string, batchID int64) ([]store.PayFooterRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []store.PayFooterRecord
	for _, r := range f.rows {
		if r.BatchID == batchID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAcknowledgments struct {
	rows     []store.AcknowledgmentRecord
	err      error
	inserted []store.AcknowledgmentRecord
}

func (f *fakeAcknowledgments) ResolveSchema(ctx context.Context) error {
	return f.err
}

func (f *fakeAcknowledgments) ListByRegistration(ctx context.Context, registration string) ([]store.AcknowledgmentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []store.AcknowledgmentRecord
	for _, r := range f.rows {
		if r.RegistrationNumber == registration {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAcknowledgments) Insert(ctx context.Context, rec *store.AcknowledgmentRecord) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, *rec)
	return nil
}

func newTestStorage(events *fakeEvents, headers *fakeHeaders, footers *fakeFooters, acks *fakeAcknowledgments) *store.Storage {
	if events == nil {
		events = &fakeEvents{}
	}
	if headers == nil {
		headers = &fakeHeaders{}
	}
	if footers == nil {
		footers = &fakeFooters{}
	}
	if acks == nil {
		acks = &fakeAcknowledgments{}
	}
	return &store.Storage{
		Events:          events,
		Headers:         headers,
		Footers:         footers,
		Acknowledgments: acks,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.LevelError)
}

func testIdentity() Identity {
	return Identity{CPF: "06485294015", RegistrationNumber: "000123"}
}

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func event(batch int64, code int, kind, amount string) store.PayEventRecord {
	return store.PayEventRecord{
		CPF:                "06485294015",
		RegistrationNumber: "000123",
		Competency:         "2025-05",
		BatchID:            batch,
		EventCode:          code,
		EventLabel:         "Evento",
		ReferenceAmount:    money("30"),
		Amount:             money(amount),
		Kind:               kind,
	}
}

func headerRow(batch int64) store.PayHeaderRecord {
	return store.PayHeaderRecord{
		CPF:                "06485294015",
		RegistrationNumber: "000123",
		Competency:         "2025-05-01",
		BatchID:            batch,
		CompanyCode:        "1",
		CompanyName:        "ACME SERVICOS LTDA",
		CompanyTaxID:       "12.345.678/0001-90",
		ClientCode:         "7",
		ClientName:         "CLIENTE EXEMPLO SA",
		ClientTaxID:        "98.765.432/0001-10",
		BranchCode:         "2",
		EmployeeName:       "JOAO DA SILVA",
		RoleLabel:          "ANALISTA",
		AdmissionDate:      "2020-03-15",
	}
}

func footerRow(batch int64) store.PayFooterRecord {
	return store.PayFooterRecord{
		CPF:                       "06485294015",
		RegistrationNumber:        "000123",
		Competency:                "202505",
		BatchID:                   batch,
		TotalCredits:              money("1000.00"),
		TotalDebits:               money("100.00"),
		NetAmount:                 money("900.00"),
		BaseSalary:                money("950.00"),
		SocialSecurityBase:        money("1000.00"),
		SeveranceFundBase:         money("1000.00"),
		SeveranceFundMonth:        money("80.00"),
		IncomeTaxBase:             money("900.00"),
		DependentsFamilyAllowance: 1,
		DependentsIncomeTax:       2,
	}
}

var errStoreDown = errors.New("store down")
