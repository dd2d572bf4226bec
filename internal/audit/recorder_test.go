package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
)

type captureStore struct {
	appended []Record
	fail     error
}

func (s *captureStore) Append(_ context.Context, rec Record) error {
	if s.fail != nil {
		return s.fail
	}
	s.appended = append(s.appended, rec)
	return nil
}

func (s *captureStore) List(context.Context, domain.Operation, int, int) ([]Record, error) {
	return nil, nil
}

func (s *captureStore) Count(context.Context, domain.Operation) (int, error) {
	return len(s.appended), nil
}

func TestRecorderStampsIDAndTimestamp(t *testing.T) {
	store := &captureStore{}
	rec := NewRecorder(store)

	err := rec.Record(context.Background(), Record{
		Kind:         domain.OpQuery,
		StudyUID:     "1.2.3",
		EndpointName: "PACS1",
	})
	require.NoError(t, err)
	require.Len(t, store.appended, 1)
	assert.NotEqual(t, uuid.Nil, store.appended[0].ID)
	assert.False(t, store.appended[0].Timestamp.IsZero())
}

func TestRecorderWrapsStoreFailureAsUnavailable(t *testing.T) {
	store := &captureStore{fail: errors.New("connection refused")}
	rec := NewRecorder(store)

	err := rec.Record(context.Background(), Record{Kind: domain.OpStore, EndpointName: "PACS1"})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
}
