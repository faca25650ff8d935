package api

import (
	"context"
	"net/http"
	"strconv"
)

// DiscoveriesDependencies defines the interface for board reads.
type DiscoveriesDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
}

// DiscoveriesHandler handles discovery board requests.
type DiscoveriesHandler struct {
	deps     DiscoveriesDependencies
	maxLimit int
}

// NewDiscoveriesHandler creates a new discoveries handler.
func NewDiscoveriesHandler(deps DiscoveriesDependencies, maxLimit int) *DiscoveriesHandler {
	return &DiscoveriesHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetDiscoveries handles GET /discoveries?limit=N requests.
func (h *DiscoveriesHandler) HandleGetDiscoveries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_discoveries"
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
