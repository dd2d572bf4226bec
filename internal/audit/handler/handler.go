// Package handler exposes the audit trail to administrators. Read-only: the
// trail is append-only and no route mutates it.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dicomgate/internal/audit"
	"dicomgate/pkg/domain"
	dErrors "dicomgate/pkg/domain-errors"
	"dicomgate/pkg/platform/httputil"
	"dicomgate/pkg/requestcontext"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Authorizer evaluates a principal against an operation.
type Authorizer interface {
	Authorize(principal domain.Principal, op domain.Operation) error
}

type Handler struct {
	store  audit.Store
	policy Authorizer
	logger *slog.Logger
}

func New(s audit.Store, policy Authorizer, logger *slog.Logger) *Handler {
	return &Handler{store: s, policy: policy, logger: logger}
}

// Register mounts the audit listing route on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/logs", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.policy.Authorize(requestcontext.Principal(ctx), domain.OpAdmin); err != nil {
		h.logger.WarnContext(ctx, "audit trail access denied",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	kind, err := parseKind(r.URL.Query().Get("kind"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	limit, page, err := parsePaging(r.URL.Query().Get("limit"), r.URL.Query().Get("page"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.store.List(ctx, kind, limit, (page-1)*limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail read failed",
			"request_id", requestcontext.RequestID(ctx),
			"kind", kind,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeUnavailable, "audit log unavailable", err))
		return
	}
	total, err := h.store.Count(ctx, kind)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeUnavailable, "audit log unavailable", err))
		return
	}
	if records == nil {
		records = []audit.Record{}
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"logs":       records,
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
	})
}

func parseKind(raw string) (domain.Operation, error) {
	kind := domain.Operation(raw)
	for _, op := range domain.ProxyOperations() {
		if kind == op {
			return kind, nil
		}
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "kind must be one of retrieve, query, store")
}

func parsePaging(rawLimit, rawPage string) (limit, page int, err error) {
	limit = defaultPageSize
	if rawLimit != "" {
		limit, err = strconv.Atoi(rawLimit)
		if err != nil || limit < 1 || limit > maxPageSize {
			return 0, 0, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and 500")
		}
	}
	page = 1
	if rawPage != "" {
		page, err = strconv.Atoi(rawPage)
		if err != nil || page < 1 {
			return 0, 0, dErrors.New(dErrors.CodeBadRequest, "page must be a positive integer")
		}
	}
	return limit, page, nil
}
