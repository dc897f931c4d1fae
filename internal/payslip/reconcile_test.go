package payslip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhportal/payslip-engine/internal/store"
)

func TestReconcile_PrefersMostRecentConsistentBatch(t *testing.T) {
	// GIVEN: events in batches {3, 2, 1}, header+footer only for batch 2
	// WHEN: reconciling
	// THEN: batch 2 wins even though 3 is numerically higher, and the event
	//       list is narrowed to batch-2 rows only

	storage := newTestStorage(
		&fakeEvents{rows: []store.PayEventRecord{
			event(3, 1, store.KindCredit, "1100"),
			event(2, 1, store.KindCredit, "1000"),
			event(2, 2, store.KindDebit, "100"),
			event(1, 1, store.KindCredit, "900"),
		}},
		&fakeHeaders{rows: []store.PayHeaderRecord{headerRow(2)}},
		&fakeFooters{rows: []store.PayFooterRecord{footerRow(2)}},
		nil,
	)

	slip, err := NewReconciler(storage).Reconcile(context.Background(), testIdentity(), "2025-05")
	require.NoError(t, err)

	assert.Equal(t, int64(2), slip.BatchID)
	assert.Equal(t, int64(2), slip.Header.BatchID)
	assert.Equal(t, int64(2), slip.Footer.BatchID)
	require.Len(t, slip.Events, 2)
	for _, ev := range slip.Events {
		assert.Equal(t, int64(2), ev.BatchID)
	}
}

func TestReconcile_NoEvents(t *testing.T) {
	// Header and footer exist for batch 1, but the events check comes first.
	storage := newTestStorage(
		&fakeEvents{},
		&fakeHeaders{rows: []store.PayHeaderRecord{headerRow(1)}},
		&fakeFooters{rows: []store.PayFooterRecord{footerRow(1)}},
		nil,
	)

	_, err := NewReconciler(storage).Reconcile(context.Background(), testIdentity(), "2025-05")
	assert.ErrorIs(t, err, ErrNoEvents)
}

func TestReconcile_NoEventsForRequestedCompetency(t *testing.T) {
	storage := newTestStorage(
		&fakeEvents{rows: []store.PayEventRecord{event(1, 1, store.KindCredit, "1000")}},
		nil, nil, nil,
	)

	_, err := NewReconciler(storage).Reconcile(context.Background(), testIdentity(), "2024-12")
	assert.ErrorIs(t, err, ErrNoEvents)
}

func TestReconcile_MissingHeader(t *testing.T) {
	storage := newTestStorage(
		&fakeEvents{rows: []store.PayEventRecord{event(1, 1, store.KindCredit, "1000")}},
		&fakeHeaders{},
		&fakeFooters{},
		nil,
	)

	_, err := NewReconciler(storage).Reconcile(context.Background(), testIdentity(), "2025-05")
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestReconcile_MissingFooter(t *testing.T) {
	// A header exists for some batch but its footer never arrived.
	storage := newTestStorage(
		&fakeEvents{rows: []store.PayEventRecord{event(1, 1, store.KindCredit, "1000")}},
		&fakeHeaders{rows: []store.PayHeaderRecord{headerRow(1)}},
		&fakeFooters{},
		nil,
	)

	_, err := NewReconciler(storage).Reconcile(context.Background(), testIdentity(), "2025-05")
	assert.ErrorIs(t, err, ErrMissingFooter)
}

func TestReconcile_SkipsNewerBatchWithoutFooter(t *testing.T) {
	// Batch 3 got refreshed events and a header but no footer yet; batch 2
	// is the most recent fully-consistent one and must win.
	storage := newTestStorage(
		&fakeEvents{rows: []store.PayEventRecord{
			event(3, 1, store.KindCredit, "1100"),
			event(2, 1, store.KindCredit, "1000"),
		}},
		&fakeHeaders{rows: []store.PayHeaderRecord{headerRow(3), headerRow(2)}},
		&fakeFooters{rows: []store.PayFooterRecord{footerRow(2)}},
		nil,
	)

	slip, err := NewReconciler(storage).Reconcile(context.Background(), testIdentity(), "2025-05")
	require.NoError(t, err)
	assert.Equal(t, int64(2), slip.BatchID)
}

func TestReconcile_InvalidEventKindAborts(t *testing.T) {
	// Batch 1 would reconcile fine, but one of its events is garbled: no
	// partial payslip may be returned.
	events := []store.PayEventRecord{
		event(1, 1, store.KindCredit, "1000"),
		event(1, 2, "X", "50"),
	}
	storage := newTestStorage(
		&fakeEvents{rows: events},
		&fakeHeaders{rows: []store.PayHeaderRecord{headerRow(1)}},
		&fakeFooters{rows: []store.PayFooterRecord{footerRow(1)}},
		nil,
	)

	_, err := NewReconciler(storage).Reconcile(context.Background(), testIdentity(), "2025-05")

	var kindErr *InvalidEventKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, 2, kindErr.EventCode)
	assert.Equal(t, "X", kindErr.Kind)
}

func TestReconcile_MatchesCompetencyAcrossShapes(t *testing.T) {
	// Events store "2025-05", the header a full date, the footer a bare
	// token; the request arrives as MM/YYYY. All must line up.
	storage := newTestStorage(
		&fakeEvents{rows: []store.PayEventRecord{event(5, 1, store.KindCredit, "1000")}},
		&fakeHeaders{rows: []store.PayHeaderRecord{headerRow(5)}},
		&fakeFooters{rows: []store.PayFooterRecord{footerRow(5)}},
		nil,
	)

	slip, err := NewReconciler(storage).Reconcile(context.Background(), testIdentity(), "05/2025")
	require.NoError(t, err)
	assert.Equal(t, int64(5), slip.BatchID)
}

func TestReconcile_AmbiguousHeaderSkipsBatch(t *testing.T) {
	// Two headers for the same batch and competency violate the
	// at-most-one construction; the batch is skipped, not guessed at.
	storage := newTestStorage(
		&fakeEvents{rows: []store.PayEventRecord{
			event(2, 1, store.KindCredit, "1000"),
			event(1, 1, store.KindCredit, "900"),
		}},
		&fakeHeaders{rows: []store.PayHeaderRecord{headerRow(2), headerRow(2), headerRow(1)}},
		&fakeFooters{rows: []store.PayFooterRecord{footerRow(2), footerRow(1)}},
		nil,
	)

	slip, err := NewReconciler(storage).Reconcile(context.Background(), testIdentity(), "2025-05")
	require.NoError(t, err)
	assert.Equal(t, int64(1), slip.BatchID)
}

func TestReconcile_StoreFailurePropagates(t *testing.T) {
	storage := newTestStorage(&fakeEvents{err: errStoreDown}, nil, nil, nil)

	_, err := NewReconciler(storage).Reconcile(context.Background(), testIdentity(), "2025-05")
	assert.ErrorIs(t, err, errStoreDown)
}
