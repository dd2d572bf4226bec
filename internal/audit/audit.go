// Package audit records every attempted proxy operation. Records are written
// before the remote association attempt so that a hung or failed association
// still leaves a durable trace of intent.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dicomgate/pkg/domain"
)

// Record captures the identifiers of one attempted gateway operation. Records
// are append-only; the gateway never mutates or deletes them.
type Record struct {
	ID              uuid.UUID        `json:"id"`
	Kind            domain.Operation `json:"kind"`
	StudyUID        string           `json:"studyUID,omitempty"`
	SeriesUID       string           `json:"seriesUID,omitempty"`
	ObjectUID       string           `json:"objectUID,omitempty"`
	AccessionNumber string           `json:"accessionNumber,omitempty"`
	EndpointName    string           `json:"endpointName"`
	Timestamp       time.Time        `json:"timestamp"`
}

// Store is the append-only persistence contract. One table (or bucket) per
// operation kind; ordering between concurrent appends is not guaranteed, but
// each append is atomic and durable before the call returns.
type Store interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context, kind domain.Operation, limit, offset int) ([]Record, error)
	Count(ctx context.Context, kind domain.Operation) (int, error)
}
