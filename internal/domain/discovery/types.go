// Package discovery classifies genetic outcomes for player-facing
// celebration: significance scoring, deterministic naming and detection of
// noteworthy events after a breeding.
package discovery

import "time"

// Type is the category of a discovery.
type Type string

// Discovery types.
const (
	NewTrait         Type = "NewTrait"
	RareMutation     Type = "RareMutation"
	SpecialMarker    Type = "SpecialMarker"
	PerfectGenetics  Type = "PerfectGenetics"
	NewSpecies       Type = "NewSpecies"
	LegendaryLineage Type = "LegendaryLineage"
)

// Types lists every known discovery type.
var Types = []Type{NewTrait, RareMutation, SpecialMarker, PerfectGenetics, NewSpecies, LegendaryLineage}

// Rarity is an ordered tier; higher is rarer.
type Rarity int

// Rarity tiers in ascending order.
const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
	Mythical
)

// Rarities lists every tier in ascending order.
var Rarities = []Rarity{Common, Uncommon, Rare, Epic, Legendary, Mythical}

var rarityNames = map[Rarity]string{
	Common:    "Common",
	Uncommon:  "Uncommon",
	Rare:      "Rare",
	Epic:      "Epic",
	Legendary: "Legendary",
	Mythical:  "Mythical",
}

func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return "Unknown"
}

// ParseRarity maps a tier name to a Rarity.
func ParseRarity(s string) (Rarity, bool) {
	for r, name := range rarityNames {
		if name == s {
			return r, true
		}
	}
	return Common, false
}

// ParseType maps a type name to a Type.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s {
			return t, true
		}
	}
	return Type(s), false
}

// MarshalText keeps the wire format on tier names.
func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts tier names; unknown names decode as Common.
func (r *Rarity) UnmarshalText(b []byte) error {
	parsed, _ := ParseRarity(string(b))
	*r = parsed
	return nil
}

// Marker is a set of special phenotype flags.
type Marker uint8

// Marker flags, listed in naming priority order.
const (
	Bioluminescent Marker = 1 << iota
	ElementalAffinity
	RareLineage
	HybridVigor
	PackLeader
)

// MarkerOrder is the fixed priority used when naming.
var MarkerOrder = []Marker{Bioluminescent, ElementalAffinity, RareLineage, HybridVigor, PackLeader}

var markerNames = map[Marker]string{
	Bioluminescent:    "Bioluminescent",
	ElementalAffinity: "ElementalAffinity",
	RareLineage:       "RareLineage",
	HybridVigor:       "HybridVigor",
	PackLeader:        "PackLeader",
}

// Has checks if the set contains a marker.
func (m Marker) Has(other Marker) bool {
	return m&other != 0
}

// Add adds a marker to the set.
func (m Marker) Add(other Marker) Marker {
	return m | other
}

// Count returns how many markers are set.
func (m Marker) Count() int {
	n := 0
	for _, f := range MarkerOrder {
		if m.Has(f) {
			n++
		}
	}
	return n
}

// Names lists the set markers in priority order.
func (m Marker) Names() []string {
	out := make([]string, 0, len(MarkerOrder))
	for _, f := range MarkerOrder {
		if m.Has(f) {
			out = append(out, markerNames[f])
		}
	}
	return out
}

// ParseMarker maps a marker name to its flag.
func ParseMarker(s string) (Marker, bool) {
	for f, name := range markerNames {
		if name == s {
			return f, true
		}
	}
	return 0, false
}

// Stats holds the six canonical traits used for naming and perfection checks.
type Stats struct {
	Strength     float64 `json:"strength"`
	Vitality     float64 `json:"vitality"`
	Agility      float64 `json:"agility"`
	Intelligence float64 `json:"intelligence"`
	Adaptability float64 `json:"adaptability"`
	Social       float64 `json:"social"`
}

// Values returns the stats in canonical priority order.
func (s Stats) Values() []float64 {
	return []float64{s.Strength, s.Vitality, s.Agility, s.Intelligence, s.Adaptability, s.Social}
}

// Lineage is the immediate ancestry context of a discovery.
type Lineage struct {
	ParentA               string  `json:"parent_a"`
	ParentB               string  `json:"parent_b"`
	GenerationDepth       int     `json:"generation_depth"`
	Linebred              bool    `json:"linebred"`
	Outcrossed            bool    `json:"outcrossed"`
	InbreedingCoefficient float64 `json:"inbreeding_coefficient"`
}

// Event describes a noteworthy genetic outcome. Its significance is derived
// from Type, Rarity and the first-time flags on every call.
type Event struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	Rarity       Rarity    `json:"rarity"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	DiscovererID string    `json:"discoverer_id"`
	ProfileID    string    `json:"profile_id"`
	Location     string    `json:"location,omitempty"`
	Lineage      Lineage   `json:"lineage"`
	IsFirstTime  bool      `json:"is_first_time"`
	IsWorldFirst bool      `json:"is_world_first"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// Significance returns the event's score.
func (e Event) Significance() float64 {
	return CalculateSignificance(e.Type, e.Rarity, e.IsFirstTime, e.IsWorldFirst)
}
