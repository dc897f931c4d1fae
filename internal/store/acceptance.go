package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
)

// The acknowledgment table was renamed once to fix its spelling, but not
// every environment ran the migration. The legacy spelling wins when both
// generations exist, because environments that migrated dropped the old
// table and environments that did not kept writing to it.
const (
	legacyAcknowledgmentTable  = "payslip_acknowledgements"
	currentAcknowledgmentTable = "payslip_acknowledgments"
)

var ErrSchemaUnresolved = errors.New("acknowledgment schema not resolved")

// AcknowledgmentSchema describes which table generation backs the consent
// records and which optional columns it carries. It is probed once at
// startup instead of re-inspecting metadata on every request.
type AcknowledgmentSchema struct {
	Table          string
	HasCompetency  bool
	HasCaptureDate bool
	HasCaptureTime bool
	HasAccepted    bool
}

type AcknowledgmentStore struct {
	db *sqlx.DB

	mu     sync.RWMutex
	schema *AcknowledgmentSchema
}

func NewAcknowledgmentStore(db *sqlx.DB) *AcknowledgmentStore {
	return &AcknowledgmentStore{db: db}
}

// ResolveSchema probes for the backing table and its optional columns. The
// probes are plain single-row selects so they behave the same on every
// SQL dialect the engine is pointed at.
func (as *AcknowledgmentStore) ResolveSchema(ctx context.Context) error {
	table := ""
	for _, candidate := range []string{legacyAcknowledgmentTable, currentAcknowledgmentTable} {
		if as.probe(ctx, fmt.Sprintf("SELECT 1 FROM %s LIMIT 1;", candidate)) {
			table = candidate
			break
		}
	}
	if table == "" {
		return fmt.Errorf("failed to locate acknowledgment table (tried %s, %s)",
			legacyAcknowledgmentTable, currentAcknowledgmentTable)
	}

	schema := &AcknowledgmentSchema{
		Table:          table,
		HasCompetency:  as.probe(ctx, fmt.Sprintf("SELECT competency FROM %s LIMIT 1;", table)),
		HasCaptureDate: as.probe(ctx, fmt.Sprintf("SELECT capture_date FROM %s LIMIT 1;", table)),
		HasCaptureTime: as.probe(ctx, fmt.Sprintf("SELECT capture_time FROM %s LIMIT 1;", table)),
		HasAccepted:    as.probe(ctx, fmt.Sprintf("SELECT accepted FROM %s LIMIT 1;", table)),
	}

	if !schema.HasCompetency && !schema.HasCaptureDate {
		return fmt.Errorf("acknowledgment table %s carries neither competency nor capture_date", table)
	}

	as.mu.Lock()
	as.schema = schema
	as.mu.Unlock()
	return nil
}

func (as *AcknowledgmentStore) probe(ctx context.Context, query string) bool {
	rows, err := as.db.QueryContext(ctx, query)
	if err != nil {
		return false
	}
	return rows.Close() == nil
}

// Schema returns the probed schema, or nil before ResolveSchema succeeded.
func (as *AcknowledgmentStore) Schema() *AcknowledgmentSchema {
	as.mu.RLock()
	defer as.mu.RUnlock()
	return as.schema
}

// ListByRegistration returns every consent row captured for one registration
// number, most authoritative first: descending row id, then capture date,
// then capture time, applying only the orderings whose column exists.
func (as *AcknowledgmentStore) ListByRegistration(ctx context.Context, registration string) ([]AcknowledgmentRecord, error) {
	schema := as.Schema()
	if schema == nil {
		return nil, ErrSchemaUnresolved
	}

	cols := []string{"id", "registration_number"}
	order := []string{"id DESC"}
	if schema.HasCompetency {
		cols = append(cols, "competency")
	}
	if schema.HasCaptureDate {
		cols = append(cols, "capture_date")
		order = append(order, "capture_date DESC")
	}
	if schema.HasCaptureTime {
		cols = append(cols, "capture_time")
		order = append(order, "capture_time DESC")
	}
	if schema.HasAccepted {
		cols = append(cols, "accepted")
	}

	query := fmt.Sprintf(`
	SELECT %s FROM %s
	WHERE registration_number = $1
	ORDER BY %s;`,
		strings.Join(cols, ", "), schema.Table, strings.Join(order, ", "))

	var rows []AcknowledgmentRecord
	err := as.db.SelectContext(ctx, &rows, query, registration)
	if err != nil {
		return nil, fmt.Errorf("failed to query acknowledgments: %w", err)
	}

	// Tables from before the accepted column existed record consent by the
	// row's presence alone.
	if !schema.HasAccepted {
		for i := range rows {
			rows[i].Accepted = true
		}
	}

	return rows, nil
}

// Insert persists one consent capture, writing only the columns the probed
// generation carries.
func (as *AcknowledgmentStore) Insert(ctx context.Context, rec *AcknowledgmentRecord) error {
	schema := as.Schema()
	if schema == nil {
		return ErrSchemaUnresolved
	}

	cols := []string{"registration_number"}
	args := []interface{}{rec.RegistrationNumber}
	if schema.HasCompetency {
		cols = append(cols, "competency")
		args = append(args, rec.Competency)
	}
	if schema.HasCaptureDate {
		cols = append(cols, "capture_date")
		args = append(args, rec.CaptureDate)
	}
	if schema.HasCaptureTime {
		cols = append(cols, "capture_time")
		args = append(args, rec.CaptureTime)
	}
	if schema.HasAccepted {
		cols = append(cols, "accepted")
		args = append(args, rec.Accepted)
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		schema.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	if _, err := as.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert acknowledgment: %w", err)
	}
	return nil
}
