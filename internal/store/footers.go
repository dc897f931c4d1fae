package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type FooterStore struct {
	db *sqlx.DB
}

// ListByBatch loads the footer rows for one employee and import batch.
// Competency narrowing is the reconciler's job, same as for headers.
func (fs *FooterStore) ListByBatch(ctx context.Context, cpf, registration string, batchID int64) ([]PayFooterRecord, error) {
	query := `
	SELECT
		id,
		cpf,
		registration_number,
		competency,
		batch_id,
		total_credits,
		total_debits,
		net_amount,
		base_salary,
		social_security_base,
		severance_fund_base,
		severance_fund_month,
		income_tax_base,
		dependents_family_allowance,
		dependents_income_tax
	FROM
		payslip_footers
	WHERE
		cpf = $1
		AND registration_number = $2
		AND batch_id = $3
	ORDER BY
		id ASC;
	`

	var rows []PayFooterRecord
	err := fs.db.SelectContext(ctx, &rows, query, cpf, registration, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payslip footers: %w", err)
	}

	return rows, nil
}
