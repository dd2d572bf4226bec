// Package dimse wraps the imaging association protocol behind a small
// request/response contract. The gateway router treats each operation as one
// blocking call; association setup, the DIMSE exchange and teardown all happen
// inside the call.
package dimse

import (
	"context"
	"errors"
	"fmt"

	"dicomgate/internal/endpoint"
)

// FailureKind enumerates the expected, enumerable ways an association-level
// operation can fail.
type FailureKind string

const (
	FailureUnreachable FailureKind = "endpoint_unreachable"
	FailureRejected    FailureKind = "remote_rejected"
	FailureMalformed   FailureKind = "malformed_request"
	FailureTimeout     FailureKind = "timeout"
)

// Failure is the typed outcome of a failed association operation. Reason holds
// remote detail for logs; it must never be rendered to gateway callers.
type Failure struct {
	Kind   FailureKind
	Reason string
}

func (f *Failure) Error() string {
	if f.Reason == "" {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Reason)
}

// KindOf extracts the failure kind from an error chain. The second return is
// false for errors that did not originate from an association operation.
func KindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}

// Dataset is a flat keyword-to-value rendering of one DIMSE response dataset,
// e.g. {"StudyInstanceUID": "1.2.3", "Modality": "CT"}.
type Dataset map[string]string

// StoreAck acknowledges a completed store operation.
type StoreAck struct {
	StudyUID  string `json:"studyUID"`
	SeriesUID string `json:"seriesUID"`
	ObjectUID string `json:"objectUID"`
	Status    string `json:"status"`
}

// Client issues imaging-protocol operations against one remote endpoint. Each
// call carries exactly one operation over one association; the association is
// established and released inside the call. The client never retries.
type Client interface {
	// Query matches studies by study UID and/or accession number.
	Query(ctx context.Context, studyUID, accessionNumber string) ([]Dataset, error)
	// Retrieve fetches metadata for a study, optionally narrowed to a series
	// or single object.
	Retrieve(ctx context.Context, studyUID, seriesUID, objectUID string) ([]Dataset, error)
	// Store pushes one object payload to the remote endpoint.
	Store(ctx context.Context, studyUID, seriesUID, objectUID string, payload []byte) (StoreAck, error)
}

// Factory produces a short-lived client bound to one endpoint's connection
// parameters. Retry and backoff policy belongs to the caller, not here.
type Factory interface {
	ForEndpoint(ep endpoint.Endpoint) Client
}
