package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createLegacyAcknowledgmentTable(t *testing.T, db *sqlx.DB) {
	t.Helper()

	// First generation: misspelled name, no competency, no accepted flag.
	// Consent is recorded by the row's presence.
	_, err := db.Exec(`CREATE TABLE payslip_acknowledgements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		registration_number TEXT NOT NULL,
		capture_date TEXT NOT NULL,
		capture_time TEXT NOT NULL
	);`)
	require.NoError(t, err)
}

func createCurrentAcknowledgmentTable(t *testing.T, db *sqlx.DB) {
	t.Helper()

	_, err := db.Exec(`CREATE TABLE payslip_acknowledgments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		registration_number TEXT NOT NULL,
		competency TEXT NOT NULL,
		capture_date TEXT NOT NULL,
		capture_time TEXT NOT NULL,
		accepted INTEGER NOT NULL
	);`)
	require.NoError(t, err)
}

func TestResolveSchema_LegacyTable(t *testing.T) {
	db := newTestDB(t)
	createLegacyAcknowledgmentTable(t, db)

	as := NewAcknowledgmentStore(db)
	require.NoError(t, as.ResolveSchema(context.Background()))

	schema := as.Schema()
	require.NotNil(t, schema)
	assert.Equal(t, legacyAcknowledgmentTable, schema.Table)
	assert.False(t, schema.HasCompetency)
	assert.True(t, schema.HasCaptureDate)
	assert.True(t, schema.HasCaptureTime)
	assert.False(t, schema.HasAccepted)
}

func TestResolveSchema_CurrentTable(t *testing.T) {
	db := newTestDB(t)
	createCurrentAcknowledgmentTable(t, db)

	as := NewAcknowledgmentStore(db)
	require.NoError(t, as.ResolveSchema(context.Background()))

	schema := as.Schema()
	require.NotNil(t, schema)
	assert.Equal(t, currentAcknowledgmentTable, schema.Table)
	assert.True(t, schema.HasCompetency)
	assert.True(t, schema.HasAccepted)
}

func TestResolveSchema_LegacyWinsWhenBothExist(t *testing.T) {
	db := newTestDB(t)
	createLegacyAcknowledgmentTable(t, db)
	createCurrentAcknowledgmentTable(t, db)

	as := NewAcknowledgmentStore(db)
	require.NoError(t, as.ResolveSchema(context.Background()))
	assert.Equal(t, legacyAcknowledgmentTable, as.Schema().Table)
}

func TestResolveSchema_NoTable(t *testing.T) {
	as := NewAcknowledgmentStore(newTestDB(t))

	err := as.ResolveSchema(context.Background())
	require.Error(t, err)
	assert.Nil(t, as.Schema())
}

func TestResolveSchema_TableWithoutCompetencyCarrier(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`CREATE TABLE payslip_acknowledgments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		registration_number TEXT NOT NULL,
		accepted INTEGER NOT NULL
	);`)
	require.NoError(t, err)

	as := NewAcknowledgmentStore(db)
	assert.Error(t, as.ResolveSchema(context.Background()))
}

func TestAcknowledgmentStore_UnresolvedSchema(t *testing.T) {
	as := NewAcknowledgmentStore(newTestDB(t))

	_, err := as.ListByRegistration(context.Background(), "000123")
	assert.ErrorIs(t, err, ErrSchemaUnresolved)

	err = as.Insert(context.Background(), &AcknowledgmentRecord{RegistrationNumber: "000123"})
	assert.ErrorIs(t, err, ErrSchemaUnresolved)
}

func TestAcknowledgmentStore_LegacyRowsImplyAcceptance(t *testing.T) {
	db := newTestDB(t)
	createLegacyAcknowledgmentTable(t, db)

	_, err := db.Exec(`INSERT INTO payslip_acknowledgements
		(registration_number, capture_date, capture_time)
		VALUES (?, ?, ?), (?, ?, ?);`,
		"000123", "2025-04-10", "09:00:00",
		"000123", "2025-05-12", "10:30:00")
	require.NoError(t, err)

	as := NewAcknowledgmentStore(db)
	require.NoError(t, as.ResolveSchema(context.Background()))

	rows, err := as.ListByRegistration(context.Background(), "000123")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// latest row first, and presence means accepted
	assert.Equal(t, "2025-05-12", rows[0].CaptureDate)
	assert.True(t, rows[0].Accepted)
	assert.True(t, rows[1].Accepted)
	assert.Empty(t, rows[0].Competency)
}

func TestAcknowledgmentStore_CurrentTableRoundTrip(t *testing.T) {
	db := newTestDB(t)
	createCurrentAcknowledgmentTable(t, db)

	as := NewAcknowledgmentStore(db)
	require.NoError(t, as.ResolveSchema(context.Background()))

	require.NoError(t, as.Insert(context.Background(), &AcknowledgmentRecord{
		RegistrationNumber: "000123",
		Competency:         "202504",
		CaptureDate:        "2025-04-10",
		CaptureTime:        "09:00:00",
		Accepted:           false,
	}))
	require.NoError(t, as.Insert(context.Background(), &AcknowledgmentRecord{
		RegistrationNumber: "000123",
		Competency:         "202505",
		CaptureDate:        "2025-05-12",
		CaptureTime:        "10:30:00",
		Accepted:           true,
	}))
	require.NoError(t, as.Insert(context.Background(), &AcknowledgmentRecord{
		RegistrationNumber: "999999",
		Competency:         "202505",
		CaptureDate:        "2025-05-12",
		CaptureTime:        "10:30:00",
		Accepted:           true,
	}))

	rows, err := as.ListByRegistration(context.Background(), "000123")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "202505", rows[0].Competency)
	assert.True(t, rows[0].Accepted)
	assert.Equal(t, "202504", rows[1].Competency)
	assert.False(t, rows[1].Accepted)
}
