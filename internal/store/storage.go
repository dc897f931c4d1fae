package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	Events interface {
		ListByIdentity(ctx context.Context, cpf, registration string) ([]PayEventRecord, error)
		ListCompetencies(ctx context.Context, cpf, registration string) ([]string, error)
	}

	Headers interface {
		ListByBatch(ctx context.Context, cpf, registration string, batchID int64) ([]PayHeaderRecord, error)
	}

	Footers interface {
		ListByBatch(ctx context.Context, cpf, registration string, batchID int64) ([]PayFooterRecord, error)
	}

	Acknowledgments interface {
		ResolveSchema(ctx context.Context) error
		ListByRegistration(ctx context.Context, registration string) ([]AcknowledgmentRecord, error)
		Insert(ctx context.Context, rec *AcknowledgmentRecord) error
	}

	Imports interface {
		NextBatchID(ctx context.Context) (int64, error)
		InsertEvent(ctx context.Context, rec *PayEventRecord) error
		InsertHeader(ctx context.Context, rec *PayHeaderRecord) error
		InsertFooter(ctx context.Context, rec *PayFooterRecord) error
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Events:          &EventStore{db: db},
		Headers:         &HeaderStore{db: db},
		Footers:         &FooterStore{db: db},
		Acknowledgments: NewAcknowledgmentStore(db),
		Imports:         &ImportStore{db: db},
	}
}
