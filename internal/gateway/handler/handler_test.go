package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"dicomgate/internal/dimse"
	"dicomgate/internal/gateway"
	"dicomgate/internal/gateway/handler/mocks"
	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
	"dicomgate/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/gateway-mocks.go -package=mocks Service
type GatewayHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *GatewayHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestGatewayHandlerSuite(t *testing.T) {
	suite.Run(t, new(GatewayHandlerSuite))
}

func newTestHandler(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger).Register(r)
	return r, mockService
}

func asPrincipal(req *http.Request, p domain.Principal) *http.Request {
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), p))
}

func (s *GatewayHandlerSuite) TestHandleRetrieve() {
	router, mockService := newTestHandler(s.T())
	caller := domain.Principal{Subject: "user-1", Role: domain.RoleUser}
	mockService.EXPECT().Retrieve(
		gomock.Any(),
		caller,
		gateway.RetrieveRequest{StudyUID: "1.2.3", EndpointName: "PACS1"},
	).Return([]dimse.Dataset{{"StudyInstanceUID": "1.2.3", "PatientName": "DOE^JANE"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/wado?studyUID=1.2.3&aeTitle=PACS1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asPrincipal(req, caller))

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	metadata, ok := resp["metadata"].([]any)
	require.True(s.T(), ok, w.Body.String())
	require.Len(s.T(), metadata, 1)
	dataset := metadata[0].(map[string]any)
	assert.Equal(s.T(), "1.2.3", dataset["StudyInstanceUID"])
	assert.Equal(s.T(), "DOE^JANE", dataset["PatientName"])
}

func (s *GatewayHandlerSuite) TestHandleRetrieveEmptyResult() {
	router, mockService := newTestHandler(s.T())
	caller := domain.Principal{Subject: "user-1", Role: domain.RoleUser}
	mockService.EXPECT().Retrieve(gomock.Any(), caller, gomock.Any()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/wado?studyUID=1.2.3&aeTitle=PACS1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asPrincipal(req, caller))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `{"metadata":[]}`, w.Body.String())
}

func (s *GatewayHandlerSuite) TestHandleRetrieveBadGateway() {
	router, mockService := newTestHandler(s.T())
	caller := domain.Principal{Subject: "user-1", Role: domain.RoleUser}
	mockService.EXPECT().Retrieve(gomock.Any(), caller, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeBadGateway, "retrieve failed: endpoint unreachable"))

	req := httptest.NewRequest(http.MethodGet, "/wado?studyUID=1.2.3&aeTitle=PACS1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asPrincipal(req, caller))

	assert.Equal(s.T(), http.StatusBadGateway, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "bad_gateway", resp["error"])
	assert.Equal(s.T(), "retrieve failed: endpoint unreachable", resp["error_description"])
}

func (s *GatewayHandlerSuite) TestHandleRetrieveForbidden() {
	router, mockService := newTestHandler(s.T())
	caller := domain.Principal{Subject: "user-1", Role: domain.RoleUser}
	mockService.EXPECT().Retrieve(gomock.Any(), caller, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeForbidden, "operation not permitted for role"))

	req := httptest.NewRequest(http.MethodGet, "/wado?studyUID=1.2.3&aeTitle=PACS1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asPrincipal(req, caller))

	assert.Equal(s.T(), http.StatusForbidden, w.Code)
}

func (s *GatewayHandlerSuite) TestHandleRetrieveUnknownEndpoint() {
	router, mockService := newTestHandler(s.T())
	caller := domain.Principal{Subject: "user-1", Role: domain.RoleUser}
	mockService.EXPECT().Retrieve(gomock.Any(), caller, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "unknown endpoint"))

	req := httptest.NewRequest(http.MethodGet, "/wado?studyUID=1.2.3&aeTitle=NOPE", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asPrincipal(req, caller))

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *GatewayHandlerSuite) TestHandleQuery() {
	router, mockService := newTestHandler(s.T())
	caller := domain.Principal{Subject: "user-1", Role: domain.RoleUser}
	mockService.EXPECT().Query(
		gomock.Any(),
		caller,
		gateway.QueryRequest{AccessionNumber: "ACC-9", EndpointName: "PACS1"},
	).Return([]dimse.Dataset{
		{"StudyInstanceUID": "1.2.3", "AccessionNumber": "ACC-9"},
		{"StudyInstanceUID": "1.2.4", "AccessionNumber": "ACC-9"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/qido?accessionNumber=ACC-9&aeTitle=PACS1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asPrincipal(req, caller))

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp []map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(s.T(), resp, 2)
	assert.Equal(s.T(), "1.2.3", resp[0]["StudyInstanceUID"])
	assert.Equal(s.T(), "1.2.4", resp[1]["StudyInstanceUID"])
}

func (s *GatewayHandlerSuite) TestHandleQueryEmptyIsArray() {
	router, mockService := newTestHandler(s.T())
	caller := domain.Principal{Subject: "user-1", Role: domain.RoleUser}
	mockService.EXPECT().Query(gomock.Any(), caller, gomock.Any()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/qido?studyUID=1.2.3&aeTitle=PACS1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asPrincipal(req, caller))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `[]`, w.Body.String())
}

func (s *GatewayHandlerSuite) TestHandleStore() {
	router, mockService := newTestHandler(s.T())
	caller := domain.Principal{Subject: "admin-1", Role: domain.RoleAdmin}
	payload := []byte{0x44, 0x49, 0x43, 0x4d}
	mockService.EXPECT().Store(
		gomock.Any(),
		caller,
		gateway.StoreRequest{
			StudyUID:     "1.2.3",
			SeriesUID:    "1.2.3.1",
			ObjectUID:    "1.2.3.1.1",
			EndpointName: "PACS1",
			Payload:      payload,
		},
	).Return(dimse.StoreAck{
		StudyUID:  "1.2.3",
		SeriesUID: "1.2.3.1",
		ObjectUID: "1.2.3.1.1",
		Status:    "accepted",
	}, nil)

	body, err := json.Marshal(map[string]string{
		"studyUID":  "1.2.3",
		"seriesUID": "1.2.3.1",
		"objectUID": "1.2.3.1.1",
		"aeTitle":   "PACS1",
		"data":      base64.StdEncoding.EncodeToString(payload),
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/stow", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asPrincipal(req, caller))

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), true, resp["success"])
	ack := resp["acknowledgement"].(map[string]any)
	assert.Equal(s.T(), "1.2.3.1.1", ack["objectUID"])
	assert.Equal(s.T(), "accepted", ack["status"])
}

func (s *GatewayHandlerSuite) TestHandleStoreRejectsInvalidBase64() {
	router, mockService := newTestHandler(s.T())
	_ = mockService // no service call may happen

	body, err := json.Marshal(map[string]string{
		"studyUID":  "1.2.3",
		"seriesUID": "1.2.3.1",
		"objectUID": "1.2.3.1.1",
		"aeTitle":   "PACS1",
		"data":      "not-base64!!",
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/stow", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asPrincipal(req, domain.Principal{Subject: "admin-1", Role: domain.RoleAdmin}))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "bad_request", resp["error"])
}

func (s *GatewayHandlerSuite) TestHandleStoreRejectsMalformedBody() {
	router, _ := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodPost, "/stow", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, asPrincipal(req, domain.Principal{Subject: "admin-1", Role: domain.RoleAdmin}))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}
