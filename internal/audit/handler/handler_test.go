package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"dicomgate/internal/access"
	"dicomgate/internal/audit"
	"dicomgate/internal/audit/store"
	"dicomgate/pkg/domain"
	"dicomgate/pkg/requestcontext"
)

type AuditHandlerSuite struct {
	suite.Suite
	router chi.Router
	store  *store.MemoryStore
}

func TestAuditHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuditHandlerSuite))
}

func (s *AuditHandlerSuite) SetupTest() {
	s.store = store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.store, access.NewPolicy(), logger).Register(s.router)
}

func (s *AuditHandlerSuite) seedQueries(n int) {
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(s.T(), s.store.Append(context.Background(), audit.Record{
			ID:           uuid.New(),
			Kind:         domain.OpQuery,
			StudyUID:     fmt.Sprintf("1.2.3.%d", i),
			EndpointName: "PACS1",
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func (s *AuditHandlerSuite) get(target string, p domain.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(requestcontext.WithPrincipal(req.Context(), p))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

var auditAdmin = domain.Principal{Subject: "admin-1", Role: domain.RoleAdmin}

func (s *AuditHandlerSuite) TestListNewestFirst() {
	s.seedQueries(3)

	w := s.get("/admin/logs?kind=query", auditAdmin)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Logs       []audit.Record `json:"logs"`
		Total      int            `json:"total"`
		Page       int            `json:"page"`
		TotalPages int            `json:"totalPages"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(s.T(), resp.Logs, 3)
	assert.Equal(s.T(), "1.2.3.2", resp.Logs[0].StudyUID)
	assert.Equal(s.T(), "1.2.3.0", resp.Logs[2].StudyUID)
	assert.Equal(s.T(), 3, resp.Total)
	assert.Equal(s.T(), 1, resp.Page)
	assert.Equal(s.T(), 1, resp.TotalPages)
}

func (s *AuditHandlerSuite) TestListPaginates() {
	s.seedQueries(5)

	w := s.get("/admin/logs?kind=query&limit=2&page=2", auditAdmin)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Logs       []audit.Record `json:"logs"`
		Total      int            `json:"total"`
		TotalPages int            `json:"totalPages"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(s.T(), resp.Logs, 2)
	assert.Equal(s.T(), "1.2.3.2", resp.Logs[0].StudyUID)
	assert.Equal(s.T(), "1.2.3.1", resp.Logs[1].StudyUID)
	assert.Equal(s.T(), 5, resp.Total)
	assert.Equal(s.T(), 3, resp.TotalPages)
}

func (s *AuditHandlerSuite) TestListEmptyKind() {
	w := s.get("/admin/logs?kind=store", auditAdmin)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(s.T(), resp["logs"])
	assert.EqualValues(s.T(), 0, resp["total"])
	assert.EqualValues(s.T(), 0, resp["totalPages"])
}

func (s *AuditHandlerSuite) TestListRejectsUnknownKind() {
	w := s.get("/admin/logs?kind=delete", auditAdmin)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuditHandlerSuite) TestListRejectsMissingKind() {
	w := s.get("/admin/logs", auditAdmin)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuditHandlerSuite) TestListRejectsBadPaging() {
	for _, target := range []string{
		"/admin/logs?kind=query&limit=0",
		"/admin/logs?kind=query&limit=9999",
		"/admin/logs?kind=query&page=0",
		"/admin/logs?kind=query&page=abc",
	} {
		w := s.get(target, auditAdmin)
		assert.Equal(s.T(), http.StatusBadRequest, w.Code, target)
	}
}

func (s *AuditHandlerSuite) TestListRequiresAdmin() {
	s.seedQueries(1)

	w := s.get("/admin/logs?kind=query", domain.Principal{Subject: "user-1", Role: domain.RoleUser})

	assert.Equal(s.T(), http.StatusForbidden, w.Code)
}
