package api

import (
	"context"
	"net/http"

	"github.com/okian/chimera/internal/domain/dedupe"
	"github.com/okian/chimera/internal/domain/model"
)

// BreedingDependencies defines the interface for breeding submissions.
type BreedingDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, req model.BreedRequest) bool
	Breeding(ctx context.Context, requestID string) (model.BreedingResult, error)
}

// breedRequest is the body of POST /breedings.
type breedRequest struct {
	RequestID    string   `json:"request_id" validate:"required,max=128,pathsafe"`
	ParentA      string   `json:"parent_a" validate:"required"`
	ParentB      string   `json:"parent_b" validate:"required,nefield=ParentA"`
	DiscovererID string   `json:"discoverer_id" validate:"required,max=128"`
	Location     string   `json:"location" validate:"max=128"`
	Seed         uint64   `json:"seed"`
	MutationRate *float64 `json:"mutation_rate" validate:"omitempty,gte=0,lte=1"`
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	RequestID string `json:"request_id"`
}

// BreedingsHandler handles breeding requests.
type BreedingsHandler struct {
	deps BreedingDependencies
}

// NewBreedingsHandler creates a new breedings handler.
func NewBreedingsHandler(deps BreedingDependencies) *BreedingsHandler {
	return &BreedingsHandler{deps: deps}
}

// HandlePostBreeding handles POST /breedings requests.
func (h *BreedingsHandler) HandlePostBreeding(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_breeding"
	var req breedRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, RequestID: req.RequestID})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), model.BreedRequest{
		RequestID:    req.RequestID,
		ParentA:      req.ParentA,
		ParentB:      req.ParentB,
		DiscovererID: req.DiscovererID,
		Location:     req.Location,
		Seed:         req.Seed,
		MutationRate: req.MutationRate,
	}); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.RequestID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", RequestID: req.RequestID})
}

// HandleGetBreeding handles GET /breedings/{id} requests.
func (h *BreedingsHandler) HandleGetBreeding(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_breeding"
	res, err := h.deps.Breeding(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
