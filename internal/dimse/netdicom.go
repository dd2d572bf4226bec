package dimse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/grailbio/go-dicom"
	"github.com/grailbio/go-dicom/dicomtag"
	"github.com/grailbio/go-netdicom"
	"github.com/grailbio/go-netdicom/sopclass"

	"dicomgate/internal/endpoint"
)

// NetFactory produces clients backed by go-netdicom service users. Every
// operation establishes a fresh association and releases it before returning;
// associations are not pooled, so an unreachable endpoint always surfaces as
// a fresh connect failure.
type NetFactory struct {
	logger  *slog.Logger
	timeout time.Duration
}

// NewNetFactory constructs the production association factory. timeout bounds
// each association call end to end.
func NewNetFactory(logger *slog.Logger, timeout time.Duration) *NetFactory {
	return &NetFactory{logger: logger, timeout: timeout}
}

func (f *NetFactory) ForEndpoint(ep endpoint.Endpoint) Client {
	return &netClient{
		ep:      ep,
		logger:  f.logger,
		timeout: f.timeout,
	}
}

type netClient struct {
	ep      endpoint.Endpoint
	logger  *slog.Logger
	timeout time.Duration
}

func (c *netClient) addr() string {
	return net.JoinHostPort(c.ep.Host, fmt.Sprintf("%d", c.ep.Port))
}

// bounded runs op in its own goroutine and enforces the context deadline and
// the association timeout. When the deadline fires first, the in-flight
// association is abandoned; the goroutine releases it on completion so
// resources do not accumulate under churn.
func bounded[T any](ctx context.Context, timeout time.Duration, op func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := op()
		done <- outcome{value: v, err: err}
	}()

	var zero T
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		return zero, &Failure{Kind: FailureTimeout, Reason: ctx.Err().Error()}
	case <-timer.C:
		return zero, &Failure{Kind: FailureTimeout, Reason: "association deadline exceeded"}
	}
}

// classify maps raw go-netdicom errors to typed failures. Network-level errors
// mean the endpoint could not be reached; everything else came back from the
// remote over an established association.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Failure{Kind: FailureUnreachable, Reason: err.Error()}
	}
	return &Failure{Kind: FailureRejected, Reason: err.Error()}
}

func (c *netClient) Query(ctx context.Context, studyUID, accessionNumber string) ([]Dataset, error) {
	filter := []*dicom.Element{
		dicom.MustNewElement(dicomtag.QueryRetrieveLevel, "STUDY"),
		dicom.MustNewElement(dicomtag.StudyInstanceUID, studyUID),
		dicom.MustNewElement(dicomtag.AccessionNumber, accessionNumber),
		dicom.MustNewElement(dicomtag.PatientID, ""),
		dicom.MustNewElement(dicomtag.PatientName, ""),
		dicom.MustNewElement(dicomtag.StudyDate, ""),
	}
	return bounded(ctx, c.timeout, func() ([]Dataset, error) {
		return c.find(netdicom.QRLevelStudy, filter)
	})
}

func (c *netClient) Retrieve(ctx context.Context, studyUID, seriesUID, objectUID string) ([]Dataset, error) {
	level := netdicom.QRLevelStudy
	filter := []*dicom.Element{
		dicom.MustNewElement(dicomtag.StudyInstanceUID, studyUID),
	}
	if seriesUID != "" {
		level = netdicom.QRLevelSeries
		filter = append(filter, dicom.MustNewElement(dicomtag.SeriesInstanceUID, seriesUID))
	}
	if objectUID != "" {
		filter = append(filter, dicom.MustNewElement(dicomtag.SOPInstanceUID, objectUID))
	}
	return bounded(ctx, c.timeout, func() ([]Dataset, error) {
		return c.find(level, filter)
	})
}

func (c *netClient) find(level netdicom.QRLevel, filter []*dicom.Element) ([]Dataset, error) {
	su, err := netdicom.NewServiceUser(netdicom.ServiceUserParams{
		CalledAETitle:  c.ep.RemoteAETitle,
		CallingAETitle: c.ep.LocalAETitle,
		SOPClasses:     sopclass.QRFindClasses,
	})
	if err != nil {
		return nil, &Failure{Kind: FailureMalformed, Reason: err.Error()}
	}
	defer su.Release()
	su.Connect(c.addr())

	var results []Dataset
	for result := range su.CFind(level, filter) {
		if result.Err != nil {
			c.logger.Debug("c-find failed",
				"endpoint", c.ep.Name,
				"error", result.Err,
			)
			return nil, classify(result.Err)
		}
		results = append(results, renderElements(result.Elements))
	}
	return results, nil
}

func (c *netClient) Store(ctx context.Context, studyUID, seriesUID, objectUID string, payload []byte) (StoreAck, error) {
	ds, err := dicom.ReadDataSetInBytes(payload, dicom.ReadOptions{})
	if err != nil {
		return StoreAck{}, &Failure{Kind: FailureMalformed, Reason: err.Error()}
	}

	return bounded(ctx, c.timeout, func() (StoreAck, error) {
		su, err := netdicom.NewServiceUser(netdicom.ServiceUserParams{
			CalledAETitle:  c.ep.RemoteAETitle,
			CallingAETitle: c.ep.LocalAETitle,
			SOPClasses:     sopclass.StorageClasses,
		})
		if err != nil {
			return StoreAck{}, &Failure{Kind: FailureMalformed, Reason: err.Error()}
		}
		defer su.Release()
		su.Connect(c.addr())

		if err := su.CStore(ds); err != nil {
			c.logger.Debug("c-store failed",
				"endpoint", c.ep.Name,
				"error", err,
			)
			return StoreAck{}, classify(err)
		}
		return StoreAck{
			StudyUID:  studyUID,
			SeriesUID: seriesUID,
			ObjectUID: objectUID,
			Status:    "success",
		}, nil
	})
}

// renderElements flattens a response dataset into keyword/value pairs. Tags
// without a known keyword or a string rendering are skipped; the gateway
// forwards metadata, it does not interpret it.
func renderElements(elements []*dicom.Element) Dataset {
	ds := make(Dataset, len(elements))
	for _, elem := range elements {
		info, err := dicomtag.Find(elem.Tag)
		if err != nil {
			continue
		}
		value, err := elem.GetString()
		if err != nil {
			continue
		}
		ds[info.Name] = value
	}
	return ds
}
