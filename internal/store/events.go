package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type EventStore struct {
	db *sqlx.DB
}

// ListByIdentity loads every event row for one employee, across all
// competencies and batches. Competency filtering is deliberately left to the
// caller: the raw representations stored by the import runs differ between
// tables, so the match rule lives in the engine, not in SQL.
func (es *EventStore) ListByIdentity(ctx context.Context, cpf, registration string) ([]PayEventRecord, error) {
	query := `
	SELECT
		id,
		cpf,
		registration_number,
		competency,
		batch_id,
		event_code,
		event_label,
		reference_amount,
		amount,
		kind
	FROM
		payslip_events
	WHERE
		cpf = $1
		AND registration_number = $2
	ORDER BY
		batch_id DESC, event_code ASC, id ASC;
	`

	var rows []PayEventRecord
	err := es.db.SelectContext(ctx, &rows, query, cpf, registration)
	if err != nil {
		return nil, fmt.Errorf("failed to query payslip events: %w", err)
	}

	return rows, nil
}

// ListCompetencies returns the distinct raw competency values that have at
// least one event row for the employee, most recent import batch first.
func (es *EventStore) ListCompetencies(ctx context.Context, cpf, registration string) ([]string, error) {
	query := `
	SELECT DISTINCT
		competency
	FROM
		payslip_events
	WHERE
		cpf = $1
		AND registration_number = $2
	ORDER BY
		competency DESC;
	`

	var rows []string
	err := es.db.SelectContext(ctx, &rows, query, cpf, registration)
	if err != nil {
		return nil, fmt.Errorf("failed to query payslip competencies: %w", err)
	}

	return rows, nil
}
