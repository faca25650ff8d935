package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/chimera/internal/domain/discovery"
)

type significanceResponse struct {
	Type         discovery.Type   `json:"type"`
	Rarity       discovery.Rarity `json:"rarity"`
	IsFirstTime  bool             `json:"is_first_time"`
	IsWorldFirst bool             `json:"is_world_first"`
	Significance float64          `json:"significance"`
	Name         string           `json:"name"`
}

// SignificanceHandler previews the score and name of a discovery.
type SignificanceHandler struct{}

// NewSignificanceHandler creates a new significance handler.
func NewSignificanceHandler() *SignificanceHandler {
	return &SignificanceHandler{}
}

// HandleGetSignificance handles GET /significance requests. Query params:
// type, rarity, first_time, world_first, the six stats by name and a comma
// separated markers list.
func (h *SignificanceHandler) HandleGetSignificance(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_significance"
	q := r.URL.Query()

	t, ok := discovery.ParseType(q.Get("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("unknown type %q", q.Get("type"))))
		return
	}
	rarity, ok := discovery.ParseRarity(q.Get("rarity"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("unknown rarity %q", q.Get("rarity"))))
		return
	}
	first, err := optionalBool(q, "first_time")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	world, err := optionalBool(q, "world_first")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	stats, err := statsFromQuery(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	markers, err := markersFromQuery(q.Get("markers"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	writeJSON(w, http.StatusOK, significanceResponse{
		Type:         t,
		Rarity:       rarity,
		IsFirstTime:  first,
		IsWorldFirst: world,
		Significance: discovery.CalculateSignificance(t, rarity, first, world),
		Name:         discovery.GenerateDiscoveryName(t, stats, markers),
	})
}

func optionalBool(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func statsFromQuery(q url.Values) (discovery.Stats, error) {
	var s discovery.Stats
	fields := []struct {
		key string
		dst *float64
	}{
		{"strength", &s.Strength},
		{"vitality", &s.Vitality},
		{"agility", &s.Agility},
		{"intelligence", &s.Intelligence},
		{"adaptability", &s.Adaptability},
		{"social", &s.Social},
	}
	for _, f := range fields {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = x
	}
	return s, nil
}

func markersFromQuery(v string) (discovery.Marker, error) {
	var m discovery.Marker
	if v == "" {
		return m, nil
	}
	for _, name := range strings.Split(v, ",") {
		flag, ok := discovery.ParseMarker(strings.TrimSpace(name))
		if !ok {
			return m, fmt.Errorf("unknown marker %q", name)
		}
		m = m.Add(flag)
	}
	return m, nil
}
