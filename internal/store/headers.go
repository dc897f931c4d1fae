package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type HeaderStore struct {
	db *sqlx.DB
}

// ListByBatch loads the header rows for one employee and import batch. The
// reconciler narrows the result to one competency with its own matching rule
// and expects exactly one survivor.
func (hs *HeaderStore) ListByBatch(ctx context.Context, cpf, registration string, batchID int64) ([]PayHeaderRecord, error) {
	query := `
	SELECT
		id,
		cpf,
		registration_number,
		competency,
		batch_id,
		company_code,
		company_name,
		company_tax_id,
		client_code,
		client_name,
		client_tax_id,
		branch_code,
		employee_name,
		role_label,
		admission_date
	FROM
		payslip_headers
	WHERE
		cpf = $1
		AND registration_number = $2
		AND batch_id = $3
	ORDER BY
		id ASC;
	`

	var rows []PayHeaderRecord
	err := hs.db.SelectContext(ctx, &rows, query, cpf, registration, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payslip headers: %w", err)
	}

	return rows, nil
}
