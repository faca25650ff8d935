// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/okian/chimera/internal/adapters/repository"
	service "github.com/okian/chimera/internal/app"
	"github.com/okian/chimera/internal/domain/dedupe"
	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/model"
	"github.com/okian/chimera/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a breeding for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, req model.BreedRequest) bool

	CreateFounder(ctx context.Context, species string) (genetics.Profile, error)
	Breeding(ctx context.Context, requestID string) (model.BreedingResult, error)
	Profile(ctx context.Context, lineageID string) (types.ProfileReport, error)

	// Read operations expose the discovery board.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, discoveryID string) (Entry, error)
}

// Entry mirrors the read shape returned by discovery board queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	foundersHandler     *FoundersHandler
	breedingsHandler    *BreedingsHandler
	profilesHandler     *ProfilesHandler
	discoveriesHandler  *DiscoveriesHandler
	rankHandler         *RankHandler
	significanceHandler *SignificanceHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		foundersHandler:     NewFoundersHandler(deps),
		breedingsHandler:    NewBreedingsHandler(deps),
		profilesHandler:     NewProfilesHandler(deps),
		discoveriesHandler:  NewDiscoveriesHandler(deps, maxLimit),
		rankHandler:         NewRankHandler(deps),
		significanceHandler: NewSignificanceHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /founders", MetricsMiddleware(s.foundersHandler.HandlePostFounder, "founders"))
	mux.HandleFunc("POST /breedings", MetricsMiddleware(s.breedingsHandler.HandlePostBreeding, "breedings"))
	mux.HandleFunc("GET /breedings/{id}", MetricsMiddleware(s.breedingsHandler.HandleGetBreeding, "breeding"))
	mux.HandleFunc("GET /profiles/{id}", MetricsMiddleware(s.profilesHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("GET /discoveries", MetricsMiddleware(s.discoveriesHandler.HandleGetDiscoveries, "discoveries"))
	mux.HandleFunc("GET /rank/{id}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("GET /significance", MetricsMiddleware(s.significanceHandler.HandleGetSignificance, "significance"))
}

// validate checks request bodies against their struct tags.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// identifiers end up in URL paths
	_ = v.RegisterValidation("pathsafe", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "/?# \t\r\n")
	})
	return v
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLookupError maps a failed store call to 404, 409, 503 or 500.
func writeLookupError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", Wrap(op, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// decodeAndValidate reads a JSON body into dst and checks its tags.
func decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}
