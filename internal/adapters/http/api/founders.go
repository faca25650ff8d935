package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/chimera/internal/app"
	"github.com/okian/chimera/internal/domain/genetics"
)

// FounderDependencies creates founding profiles.
type FounderDependencies interface {
	CreateFounder(ctx context.Context, species string) (genetics.Profile, error)
}

type founderRequest struct {
	Species string `json:"species" validate:"required,max=64"`
}

// FoundersHandler handles founder creation.
type FoundersHandler struct {
	deps FounderDependencies
}

// NewFoundersHandler creates a new founders handler.
func NewFoundersHandler(deps FounderDependencies) *FoundersHandler {
	return &FoundersHandler{deps: deps}
}

// HandlePostFounder handles POST /founders requests.
func (h *FoundersHandler) HandlePostFounder(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_founder"
	var req founderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	p, err := h.deps.CreateFounder(r.Context(), req.Species)
	switch {
	case errors.Is(err, service.ErrUnknownSpecies):
		writeError(w, http.StatusBadRequest, "unknown_species", WrapKind(op, ErrBadRequest, err))
	case err != nil:
		writeLookupError(w, op, err)
	default:
		writeJSON(w, http.StatusCreated, p)
	}
}
