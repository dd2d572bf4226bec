// Package handler exposes the endpoint registry as an admin JSON API. All
// routes require the admin role; registry edits take effect on the next
// proxied request because nothing caches resolved endpoints.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dicomgate/internal/endpoint"
	"dicomgate/internal/endpoint/store"
	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
	"dicomgate/pkg/platform/httputil"
	"dicomgate/pkg/requestcontext"
)

// Authorizer evaluates a principal against an operation.
type Authorizer interface {
	Authorize(principal domain.Principal, op domain.Operation) error
}

type Handler struct {
	store  store.Store
	policy Authorizer
	logger *slog.Logger
}

func New(s store.Store, policy Authorizer, logger *slog.Logger) *Handler {
	return &Handler{store: s, policy: policy, logger: logger}
}

// Register mounts the registry CRUD routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/endpoints", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{name}", h.handleGet)
		r.Put("/{name}", h.handleUpdate)
		r.Delete("/{name}", h.handleDelete)
	})
}

// endpointBody is the JSON shape for create and update requests.
type endpointBody struct {
	Name          string `json:"name"`
	Host          string `json:"host"`
	Port          int    `json:"port"`
	LocalAETitle  string `json:"localAETitle"`
	RemoteAETitle string `json:"remoteAETitle"`
}

func (b endpointBody) toEndpoint() endpoint.Endpoint {
	return endpoint.Endpoint{
		Name:          b.Name,
		Host:          b.Host,
		Port:          b.Port,
		LocalAETitle:  b.LocalAETitle,
		RemoteAETitle: b.RemoteAETitle,
	}
}

func (h *Handler) admit(w http.ResponseWriter, r *http.Request) bool {
	if err := h.policy.Authorize(requestcontext.Principal(r.Context()), domain.OpAdmin); err != nil {
		h.logger.WarnContext(r.Context(), "registry access denied",
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
		)
		httputil.WriteError(w, err)
		return false
	}
	return true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if !h.admit(w, r) {
		return
	}
	endpoints, err := h.store.List(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "listing endpoints failed", err))
		return
	}
	if endpoints == nil {
		endpoints = []endpoint.Endpoint{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"endpoints": endpoints,
		"total":     len(endpoints),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	if !h.admit(w, r) {
		return
	}
	ep, err := h.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ep)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !h.admit(w, r) {
		return
	}
	var body endpointBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	ep := body.toEndpoint()
	if err := ep.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.store.Create(r.Context(), ep); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "endpoint created",
		"request_id", requestcontext.RequestID(r.Context()),
		"endpoint", ep.Name,
	)
	httputil.WriteJSON(w, http.StatusCreated, ep)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !h.admit(w, r) {
		return
	}
	var body endpointBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	// The path parameter names the endpoint; a conflicting body name is
	// rejected rather than silently renaming.
	name := chi.URLParam(r, "name")
	if body.Name != "" && body.Name != name {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "endpoint name cannot be changed"))
		return
	}
	body.Name = name
	ep := body.toEndpoint()
	if err := ep.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.store.Update(r.Context(), ep); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "endpoint updated",
		"request_id", requestcontext.RequestID(r.Context()),
		"endpoint", ep.Name,
	)
	httputil.WriteJSON(w, http.StatusOK, ep)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.admit(w, r) {
		return
	}
	name := chi.URLParam(r, "name")
	if err := h.store.Delete(r.Context(), name); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "endpoint deleted",
		"request_id", requestcontext.RequestID(r.Context()),
		"endpoint", name,
	)
	w.WriteHeader(http.StatusNoContent)
}
