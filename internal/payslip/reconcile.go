package payslip

import (
	"context"
	"fmt"
	"sort"

	"github.com/rhportal/payslip-engine/internal/store"
)

// Identity names one payee: the CPF plus the employer-assigned registration
// number. Both come from the caller and are validated by the facade.
type Identity struct {
	CPF                string
	RegistrationNumber string
}

// ReconciledPayslip is a header+events+footer triple that shares one import
// batch for one identity and competency. It is the only shape the renderer
// accepts; partial triples never leave the reconciler.
type ReconciledPayslip struct {
	BatchID int64
	Header  store.PayHeaderRecord
	Events  []store.PayEventRecord
	Footer  store.PayFooterRecord
}

// Reconciler finds the batch of fact rows that forms a coherent payslip.
// The three fact tables are populated by independent import runs and their
// batch tags are not guaranteed to agree, so this is an explicit matching
// step rather than a database join.
type Reconciler struct {
	storage *store.Storage
}

func NewReconciler(storage *store.Storage) *Reconciler {
	return &Reconciler{storage: storage}
}

// Reconcile loads the event rows for the identity, narrows them to the
// requested competency, and walks the candidate batches from the most
// recent down until one of them also carries a header and a footer.
func (r *Reconciler) Reconcile(ctx context.Context, id Identity, competencyRaw string) (*ReconciledPayslip, error) {
	all, err := r.storage.Events.ListByIdentity(ctx, id.CPF, id.RegistrationNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load pay events: %w", err)
	}

	var events []store.PayEventRecord
	for _, ev := range all {
		if SameCompetency(ev.Competency, competencyRaw) {
			events = append(events, ev)
		}
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	var (
		header     *store.PayHeaderRecord
		footer     *store.PayFooterRecord
		winning    int64
		headerSeen bool
	)
	for _, batch := range candidateBatches(events) {
		h, err := r.headerForBatch(ctx, id, batch, competencyRaw)
		if err != nil {
			return nil, err
		}
		if h == nil {
			continue
		}
		headerSeen = true

		f, err := r.footerForBatch(ctx, id, batch, competencyRaw)
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue
		}

		header, footer, winning = h, f, batch
		break
	}
	if header == nil || footer == nil {
		if headerSeen {
			return nil, ErrMissingFooter
		}
		return nil, ErrMissingHeader
	}

	slip := &ReconciledPayslip{
		BatchID: winning,
		Header:  *header,
		Footer:  *footer,
	}
	for _, ev := range events {
		if ev.BatchID == winning {
			slip.Events = append(slip.Events, ev)
		}
	}
	if len(slip.Events) == 0 {
		return nil, ErrEventsBatchMismatch
	}

	for _, ev := range slip.Events {
		if ev.Kind != store.KindCredit && ev.Kind != store.KindDebit {
			return nil, &InvalidEventKindError{EventCode: ev.EventCode, Kind: ev.Kind}
		}
	}

	return slip, nil
}

// candidateBatches returns the distinct batch ids present in the event rows,
// highest first. A higher batch id is a more recent import run; no timestamp
// exists to order by.
func candidateBatches(events []store.PayEventRecord) []int64 {
	seen := make(map[int64]bool, len(events))
	var batches []int64
	for _, ev := range events {
		if !seen[ev.BatchID] {
			seen[ev.BatchID] = true
			batches = append(batches, ev.BatchID)
		}
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i] > batches[j] })
	return batches
}

// headerForBatch returns the header for the batch, or nil unless exactly one
// row matches the competency. Zero rows means the batch is incomplete; more
// than one means the at-most-one-per-batch construction was violated, and
// the batch is skipped rather than guessed at.
func (r *Reconciler) headerForBatch(ctx context.Context, id Identity, batch int64, competencyRaw string) (*store.PayHeaderRecord, error) {
	rows, err := r.storage.Headers.ListByBatch(ctx, id.CPF, id.RegistrationNumber, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to load payslip header for batch %d: %w", batch, err)
	}

	var match *store.PayHeaderRecord
	for i := range rows {
		if SameCompetency(rows[i].Competency, competencyRaw) {
			if match != nil {
				return nil, nil
			}
			match = &rows[i]
		}
	}
	return match, nil
}

func (r *Reconciler) footerForBatch(ctx context.Context, id Identity, batch int64, competencyRaw string) (*store.PayFooterRecord, error) {
	rows, err := r.storage.Footers.ListByBatch(ctx, id.CPF, id.RegistrationNumber, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to load payslip footer for batch %d: %w", batch, err)
	}

	var match *store.PayFooterRecord
	for i := range rows {
		if SameCompetency(rows[i].Competency, competencyRaw) {
			if match != nil {
				return nil, nil
			}
			match = &rows[i]
		}
	}
	return match, nil
}
