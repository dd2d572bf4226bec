// Package gateway is the core of the proxy: it validates each inbound
// operation, authorizes it, writes the audit record, resolves the target
// endpoint and executes the association call, translating the outcome back
// into the REST-style response contract.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dicomgate/internal/audit"
	"dicomgate/internal/dimse"
	"dicomgate/internal/endpoint"
	endpointstore "dicomgate/internal/endpoint/store"
	"dicomgate/internal/platform/metrics"
	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
	"dicomgate/pkg/requestcontext"
)

// Authorizer evaluates a principal against an operation.
type Authorizer interface {
	Authorize(principal domain.Principal, op domain.Operation) error
}

// Auditor persists one record per attempted operation, synchronously.
type Auditor interface {
	Record(ctx context.Context, rec audit.Record) error
}

// EndpointResolver is the read side of the endpoint registry. Every request
// re-resolves; there is no cache, so registry edits take effect immediately.
type EndpointResolver interface {
	Get(ctx context.Context, name string) (endpoint.Endpoint, error)
}

// Service runs the per-request pipeline:
//
//	validate -> authorize -> audit -> resolve -> execute -> translate
//
// Denied requests are not audited: logging an unauthorized caller's
// parameters would imply a legitimate attempted access in the audit trail.
// A failed audit write aborts the request before any remote contact.
type Service struct {
	policy    Authorizer
	endpoints EndpointResolver
	auditor   Auditor
	factory   dimse.Factory
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(
	policy Authorizer,
	endpoints EndpointResolver,
	auditor Auditor,
	factory dimse.Factory,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		policy:    policy,
		endpoints: endpoints,
		auditor:   auditor,
		factory:   factory,
		logger:    logger,
		metrics:   m,
	}
}

// Retrieve proxies a metadata retrieve for a study/series/object.
func (s *Service) Retrieve(ctx context.Context, principal domain.Principal, req RetrieveRequest) ([]dimse.Dataset, error) {
	if err := req.Validate(); err != nil {
		s.observe(domain.OpRetrieve, "validation_error")
		return nil, err
	}
	ep, err := s.admit(ctx, principal, audit.Record{
		Kind:         domain.OpRetrieve,
		StudyUID:     req.StudyUID,
		SeriesUID:    req.SeriesUID,
		ObjectUID:    req.ObjectUID,
		EndpointName: req.EndpointName,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	datasets, err := s.factory.ForEndpoint(ep).Retrieve(ctx, req.StudyUID, req.SeriesUID, req.ObjectUID)
	s.metrics.ObserveAssociation(string(domain.OpRetrieve), time.Since(start).Seconds())
	if err != nil {
		return nil, s.translate(ctx, domain.OpRetrieve, req.EndpointName, err)
	}
	s.observe(domain.OpRetrieve, "success")
	return datasets, nil
}

// Query proxies a study-level query.
func (s *Service) Query(ctx context.Context, principal domain.Principal, req QueryRequest) ([]dimse.Dataset, error) {
	if err := req.Validate(); err != nil {
		s.observe(domain.OpQuery, "validation_error")
		return nil, err
	}
	ep, err := s.admit(ctx, principal, audit.Record{
		Kind:            domain.OpQuery,
		StudyUID:        req.StudyUID,
		AccessionNumber: req.AccessionNumber,
		EndpointName:    req.EndpointName,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	datasets, err := s.factory.ForEndpoint(ep).Query(ctx, req.StudyUID, req.AccessionNumber)
	s.metrics.ObserveAssociation(string(domain.OpQuery), time.Since(start).Seconds())
	if err != nil {
		return nil, s.translate(ctx, domain.OpQuery, req.EndpointName, err)
	}
	s.observe(domain.OpQuery, "success")
	return datasets, nil
}

// Store proxies one object payload into the remote endpoint.
func (s *Service) Store(ctx context.Context, principal domain.Principal, req StoreRequest) (dimse.StoreAck, error) {
	if err := req.Validate(); err != nil {
		s.observe(domain.OpStore, "validation_error")
		return dimse.StoreAck{}, err
	}
	ep, err := s.admit(ctx, principal, audit.Record{
		Kind:         domain.OpStore,
		StudyUID:     req.StudyUID,
		SeriesUID:    req.SeriesUID,
		ObjectUID:    req.ObjectUID,
		EndpointName: req.EndpointName,
	})
	if err != nil {
		return dimse.StoreAck{}, err
	}

	start := time.Now()
	ack, err := s.factory.ForEndpoint(ep).Store(ctx, req.StudyUID, req.SeriesUID, req.ObjectUID, req.Payload)
	s.metrics.ObserveAssociation(string(domain.OpStore), time.Since(start).Seconds())
	if err != nil {
		return dimse.StoreAck{}, s.translate(ctx, domain.OpStore, req.EndpointName, err)
	}
	s.observe(domain.OpStore, "success")
	return ack, nil
}

// admit runs the side-effecting front half of the pipeline: authorization,
// the audit write, then endpoint resolution. The audit record is written
// before the endpoint lookup and the association attempt so that an attempt
// against a hung or missing endpoint still leaves a durable trace.
func (s *Service) admit(ctx context.Context, principal domain.Principal, rec audit.Record) (endpoint.Endpoint, error) {
	if err := s.policy.Authorize(principal, rec.Kind); err != nil {
		s.observe(rec.Kind, "denied")
		s.logger.WarnContext(ctx, "operation denied",
			"request_id", requestcontext.RequestID(ctx),
			"operation", rec.Kind,
			"role", principal.Role,
		)
		return endpoint.Endpoint{}, err
	}

	if err := s.auditor.Record(ctx, rec); err != nil {
		s.observe(rec.Kind, "audit_failed")
		s.metrics.AuditWriteFailures.Inc()
		s.logger.ErrorContext(ctx, "audit write failed, aborting before remote contact",
			"request_id", requestcontext.RequestID(ctx),
			"operation", rec.Kind,
			"endpoint", rec.EndpointName,
			"error", err,
		)
		return endpoint.Endpoint{}, err
	}

	ep, err := s.endpoints.Get(ctx, rec.EndpointName)
	if err != nil {
		s.observe(rec.Kind, "endpoint_not_found")
		if errors.Is(err, endpointstore.ErrNotFound) {
			return endpoint.Endpoint{}, err
		}
		// Registry unreachable is a distinct condition from an unknown name:
		// it is recoverable and alarms differently, even though the client
		// response shape is the same.
		s.metrics.RegistryFailures.Inc()
		s.logger.ErrorContext(ctx, "endpoint registry lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"operation", rec.Kind,
			"endpoint", rec.EndpointName,
			"error", err,
		)
		return endpoint.Endpoint{}, dErrors.Wrap(dErrors.CodeNotFound, "endpoint could not be resolved", err)
	}
	return ep, nil
}

// translate maps association failures to the client-facing contract. Only the
// coarse failure category crosses the boundary; remote reason codes and
// connection detail stay in the logs.
func (s *Service) translate(ctx context.Context, op domain.Operation, endpointName string, err error) error {
	s.observe(op, "remote_failed")
	s.logger.ErrorContext(ctx, "association operation failed",
		"request_id", requestcontext.RequestID(ctx),
		"operation", op,
		"endpoint", endpointName,
		"error", err,
	)

	category := "remote association error"
	if kind, ok := dimse.KindOf(err); ok {
		switch kind {
		case dimse.FailureUnreachable:
			category = "endpoint unreachable"
		case dimse.FailureRejected:
			category = "remote rejected operation"
		case dimse.FailureMalformed:
			category = "remote rejected request as malformed"
		case dimse.FailureTimeout:
			category = "association timed out"
		}
	}
	return dErrors.Wrap(dErrors.CodeBadGateway, fmt.Sprintf("%s failed: %s", op, category), err)
}

func (s *Service) observe(op domain.Operation, outcome string) {
	s.metrics.ObserveProxyRequest(string(op), outcome)
}
