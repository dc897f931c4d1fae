package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type ImportStore struct {
	db *sqlx.DB
}

// NextBatchID allocates the id for a new import run: one past the highest
// batch seen in the events table, which every import writes to. Batches are
// append-only, so a gap left by a failed run is harmless.
func (is *ImportStore) NextBatchID(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(MAX(batch_id), 0) + 1 FROM payslip_events;`

	var id int64
	if err := is.db.GetContext(ctx, &id, query); err != nil {
		return 0, fmt.Errorf("failed to allocate batch id: %w", err)
	}
	return id, nil
}

func (is *ImportStore) InsertEvent(ctx context.Context, rec *PayEventRecord) error {
	query := `
	INSERT INTO payslip_events
		(cpf, registration_number, competency, batch_id, event_code, event_label,
		 reference_amount, amount, kind)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	_, err := is.db.ExecContext(ctx, query,
		rec.CPF, rec.RegistrationNumber, rec.Competency, rec.BatchID,
		rec.EventCode, rec.EventLabel, rec.ReferenceAmount, rec.Amount, rec.Kind)
	if err != nil {
		return fmt.Errorf("failed to insert payslip event: %w", err)
	}
	return nil
}

func (is *ImportStore) InsertHeader(ctx context.Context, rec *PayHeaderRecord) error {
	query := `
	INSERT INTO payslip_headers
		(cpf, registration_number, competency, batch_id, company_code, company_name,
		 company_tax_id, client_code, client_name, client_tax_id, branch_code,
		 employee_name, role_label, admission_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`

	_, err := is.db.ExecContext(ctx, query,
		rec.CPF, rec.RegistrationNumber, rec.Competency, rec.BatchID,
		rec.CompanyCode, rec.CompanyName, rec.CompanyTaxID,
		rec.ClientCode, rec.ClientName, rec.ClientTaxID, rec.BranchCode,
		rec.EmployeeName, rec.RoleLabel, rec.AdmissionDate)
	if err != nil {
		return fmt.Errorf("failed to insert payslip header: %w", err)
	}
	return nil
}

func (is *ImportStore) InsertFooter(ctx context.Context, rec *PayFooterRecord) error {
	query := `
	INSERT INTO payslip_footers
		(cpf, registration_number, competency, batch_id, total_credits, total_debits,
		 net_amount, base_salary, social_security_base, severance_fund_base,
		 severance_fund_month, income_tax_base, dependents_family_allowance,
		 dependents_income_tax)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`

	_, err := is.db.ExecContext(ctx, query,
		rec.CPF, rec.RegistrationNumber, rec.Competency, rec.BatchID,
		rec.TotalCredits, rec.TotalDebits, rec.NetAmount, rec.BaseSalary,
		rec.SocialSecurityBase, rec.SeveranceFundBase, rec.SeveranceFundMonth,
		rec.IncomeTaxBase, rec.DependentsFamilyAllowance, rec.DependentsIncomeTax)
	if err != nil {
		return fmt.Errorf("failed to insert payslip footer: %w", err)
	}
	return nil
}
