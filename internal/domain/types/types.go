// Package types contains read shapes shared by the service and the HTTP API.
package types

import (
	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/phenotype"
)

// Entry represents a row of the discovery board.
type Entry struct {
	Rank         int              `json:"rank"`
	DiscoveryID  string           `json:"discovery_id"`
	Name         string           `json:"name"`
	Type         discovery.Type   `json:"type"`
	Rarity       discovery.Rarity `json:"rarity"`
	Significance float64          `json:"significance"`
	ProfileID    string           `json:"profile_id"`
	DiscovererID string           `json:"discoverer_id"`
	IsWorldFirst bool             `json:"is_world_first"`
}

// ProfileReport is a stored profile together with what can be derived from
// it.
type ProfileReport struct {
	Profile genetics.Profile  `json:"profile"`
	ParentA string            `json:"parent_a,omitempty"`
	ParentB string            `json:"parent_b,omitempty"`
	Stats   discovery.Stats   `json:"stats"`
	Markers []string          `json:"markers"`
	Summary phenotype.Summary `json:"summary"`
}

// NewProfileReport derives stats, markers and the gene summary of p.
func NewProfileReport(p genetics.Profile, parentA, parentB string) ProfileReport {
	return ProfileReport{
		Profile: p,
		ParentA: parentA,
		ParentB: parentB,
		Stats:   phenotype.Derive(p),
		Markers: phenotype.Markers(p).Names(),
		Summary: phenotype.Summarize(p),
	}
}
