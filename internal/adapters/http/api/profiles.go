package api

import (
	"context"
	"net/http"

	"github.com/okian/chimera/internal/domain/types"
)

// ProfileDependencies reads stored profiles.
type ProfileDependencies interface {
	Profile(ctx context.Context, lineageID string) (types.ProfileReport, error)
}

// ProfilesHandler handles profile lookups.
type ProfilesHandler struct {
	deps ProfileDependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps ProfileDependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

// HandleGetProfile handles GET /profiles/{id} requests.
func (h *ProfilesHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, "api.get_profile", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
