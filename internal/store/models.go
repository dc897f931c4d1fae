package store

import (
	"github.com/shopspring/decimal"
)

// Event kinds as stored in the 'payslip_events' table. Anything else in the
// kind column is a data-integrity error and must abort reconciliation.
const (
	KindCredit = "credit"
	KindDebit  = "debit"
)

// PayEventRecord represents one row of the 'payslip_events' table: a single
// earning or deduction line imported from the external payroll system.
// Competency is kept exactly as stored; raw representations are not
// guaranteed to match across the three fact tables.
type PayEventRecord struct {
	ID                 int64           `db:"id" json:"-"`
	CPF                string          `db:"cpf" json:"cpf"`
	RegistrationNumber string          `db:"registration_number" json:"registration_number"`
	Competency         string          `db:"competency" json:"competency"`
	BatchID            int64           `db:"batch_id" json:"batch_id"`
	EventCode          int             `db:"event_code" json:"event_code"`
	EventLabel         string          `db:"event_label" json:"event_label"`
	ReferenceAmount    decimal.Decimal `db:"reference_amount" json:"reference_amount"`
	Amount             decimal.Decimal `db:"amount" json:"amount"`
	Kind               string          `db:"kind" json:"kind"`
}

// PayHeaderRecord represents the 'payslip_headers' table. At most one row is
// expected per (identity, competency, batch), though the store does not
// enforce it.
type PayHeaderRecord struct {
	ID                 int64  `db:"id" json:"-"`
	CPF                string `db:"cpf" json:"cpf"`
	RegistrationNumber string `db:"registration_number" json:"registration_number"`
	Competency         string `db:"competency" json:"competency"`
	BatchID            int64  `db:"batch_id" json:"batch_id"`
	CompanyCode        string `db:"company_code" json:"company_code"`
	CompanyName        string `db:"company_name" json:"company_name"`
	CompanyTaxID       string `db:"company_tax_id" json:"company_tax_id"`
	ClientCode         string `db:"client_code" json:"client_code"`
	ClientName         string `db:"client_name" json:"client_name"`
	ClientTaxID        string `db:"client_tax_id" json:"client_tax_id"`
	BranchCode         string `db:"branch_code" json:"branch_code"`
	EmployeeName       string `db:"employee_name" json:"employee_name"`
	RoleLabel          string `db:"role_label" json:"role_label"`
	AdmissionDate      string `db:"admission_date" json:"admission_date"`
}

// PayFooterRecord represents the 'payslip_footers' table: totals and the
// fixed legal figures printed at the bottom of the payslip. All monetary
// values arrive pre-computed from the payroll system.
type PayFooterRecord struct {
	ID                        int64           `db:"id" json:"-"`
	CPF                       string          `db:"cpf" json:"cpf"`
	RegistrationNumber        string          `db:"registration_number" json:"registration_number"`
	Competency                string          `db:"competency" json:"competency"`
	BatchID                   int64           `db:"batch_id" json:"batch_id"`
	TotalCredits              decimal.Decimal `db:"total_credits" json:"total_credits"`
	TotalDebits               decimal.Decimal `db:"total_debits" json:"total_debits"`
	NetAmount                 decimal.Decimal `db:"net_amount" json:"net_amount"`
	BaseSalary                decimal.Decimal `db:"base_salary" json:"base_salary"`
	SocialSecurityBase        decimal.Decimal `db:"social_security_base" json:"social_security_base"`
	SeveranceFundBase         decimal.Decimal `db:"severance_fund_base" json:"severance_fund_base"`
	SeveranceFundMonth        decimal.Decimal `db:"severance_fund_month" json:"severance_fund_month"`
	IncomeTaxBase             decimal.Decimal `db:"income_tax_base" json:"income_tax_base"`
	DependentsFamilyAllowance int             `db:"dependents_family_allowance" json:"dependents_family_allowance"`
	DependentsIncomeTax       int             `db:"dependents_income_tax" json:"dependents_income_tax"`
}

// AcknowledgmentRecord is one digital-payslip receipt confirmation captured
// by the consent flow. Depending on the table generation the competency is
// either stored directly or derived from the capture date, so both carriers
// are optional here.
type AcknowledgmentRecord struct {
	ID                 int64  `db:"id" json:"-"`
	RegistrationNumber string `db:"registration_number" json:"registration_number"`
	Competency         string `db:"competency" json:"competency,omitempty"`
	CaptureDate        string `db:"capture_date" json:"capture_date,omitempty"`
	CaptureTime        string `db:"capture_time" json:"capture_time,omitempty"`
	Accepted           bool   `db:"accepted" json:"accepted"`
}
