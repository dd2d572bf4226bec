package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
)

// Recorder stamps and persists audit records. A failed write is surfaced as
// an unavailable error; the caller must abort the request rather than contact
// the remote endpoint, trading availability for guaranteed traceability.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record assigns an ID and server timestamp if unset and appends the record
// synchronously.
func (r *Recorder) Record(ctx context.Context, rec Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if err := r.store.Append(ctx, rec); err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "audit log unavailable", err)
	}
	return nil
}

// List returns records of one kind, newest first.
func (r *Recorder) List(ctx context.Context, kind domain.Operation, limit, offset int) ([]Record, error) {
	return r.store.List(ctx, kind, limit, offset)
}

// Count returns the number of records of one kind.
func (r *Recorder) Count(ctx context.Context, kind domain.Operation) (int, error) {
	return r.store.Count(ctx, kind)
}
