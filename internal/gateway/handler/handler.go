package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dicomgate/internal/dimse"
	"dicomgate/internal/gateway"
	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
	"dicomgate/pkg/platform/httputil"
	"dicomgate/pkg/requestcontext"
)

// Service defines the interface for proxied imaging operations.
type Service interface {
	Retrieve(ctx context.Context, principal domain.Principal, req gateway.RetrieveRequest) ([]dimse.Dataset, error)
	Query(ctx context.Context, principal domain.Principal, req gateway.QueryRequest) ([]dimse.Dataset, error)
	Store(ctx context.Context, principal domain.Principal, req gateway.StoreRequest) (dimse.StoreAck, error)
}

// Handler wires the proxy endpoints to the gateway service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a gateway handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the proxy endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/wado", h.handleRetrieve)
	r.Get("/qido", h.handleQuery)
	r.Post("/stow", h.handleStore)
}

func (h *Handler) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	datasets, err := h.service.Retrieve(ctx, requestcontext.Principal(ctx), gateway.RetrieveRequest{
		StudyUID:     q.Get("studyUID"),
		SeriesUID:    q.Get("seriesUID"),
		ObjectUID:    q.Get("objectUID"),
		EndpointName: q.Get("aeTitle"),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if datasets == nil {
		datasets = []dimse.Dataset{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"metadata": datasets})
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	datasets, err := h.service.Query(ctx, requestcontext.Principal(ctx), gateway.QueryRequest{
		StudyUID:        q.Get("studyUID"),
		AccessionNumber: q.Get("accessionNumber"),
		EndpointName:    q.Get("aeTitle"),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if datasets == nil {
		datasets = []dimse.Dataset{}
	}
	httputil.WriteJSON(w, http.StatusOK, datasets)
}

// storeBody is the JSON request for POST /stow. Data carries the object
// payload in base64.
type storeBody struct {
	StudyUID  string `json:"studyUID"`
	SeriesUID string `json:"seriesUID"`
	ObjectUID string `json:"objectUID"`
	AETitle   string `json:"aeTitle"`
	Data      string `json:"data"`
}

func (h *Handler) handleStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var body storeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.WarnContext(ctx, "invalid store request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	// A payload that does not decode is malformed and must be rejected before
	// any audit or remote attempt.
	payload, err := base64.StdEncoding.DecodeString(body.Data)
	if err != nil {
		h.logger.WarnContext(ctx, "store payload failed base64 decode",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "payload is not valid base64"))
		return
	}

	ack, err := h.service.Store(ctx, requestcontext.Principal(ctx), gateway.StoreRequest{
		StudyUID:     body.StudyUID,
		SeriesUID:    body.SeriesUID,
		ObjectUID:    body.ObjectUID,
		EndpointName: body.AETitle,
		Payload:      payload,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"acknowledgement": ack,
	})
}
