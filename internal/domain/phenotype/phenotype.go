// Package phenotype reads gene values into the observable stats and markers
// used by discovery and the API.
package phenotype

import (
	"github.com/montanaflynn/stats"
	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/domain/genetics"
)

// Canonical stat trait names.
const (
	Strength     = "Strength"
	Vitality     = "Vitality"
	Agility      = "Agility"
	Intelligence = "Intelligence"
	Adaptability = "Adaptability"
	Social       = "Social"
)

// Expression multipliers applied when deriving stats.
const (
	enhancedFactor   = 1.15
	suppressedFactor = 0.75
	// markerThreshold is the gene value at which a marker gene shows
	markerThreshold = 0.5
)

// markerGenes maps marker trait names to their flags.
var markerGenes = map[string]discovery.Marker{
	"Bioluminescence":   discovery.Bioluminescent,
	"ElementalAffinity": discovery.ElementalAffinity,
	"RareLineage":       discovery.RareLineage,
	"HybridVigor":       discovery.HybridVigor,
	"PackLeader":        discovery.PackLeader,
}

// Derive computes the six canonical stats of p. A missing or inactive gene
// reads as zero.
func Derive(p genetics.Profile) discovery.Stats {
	return discovery.Stats{
		Strength:     expressed(p, Strength),
		Vitality:     expressed(p, Vitality),
		Agility:      expressed(p, Agility),
		Intelligence: expressed(p, Intelligence),
		Adaptability: expressed(p, Adaptability),
		Social:       expressed(p, Social),
	}
}

func expressed(p genetics.Profile, name string) float64 {
	g, ok := p.Gene(name)
	if !ok || !g.IsActive {
		return 0
	}
	switch g.Expression {
	case genetics.ExpressionEnhanced:
		return genetics.Clamp01(g.Value * enhancedFactor)
	case genetics.ExpressionSuppressed:
		return genetics.Clamp01(g.Value * suppressedFactor)
	default:
		return g.Value
	}
}

// Markers returns the marker flags shown by p's active marker genes.
func Markers(p genetics.Profile) discovery.Marker {
	var m discovery.Marker
	for name, flag := range markerGenes {
		g, ok := p.Gene(name)
		if ok && g.IsActive && g.Value >= markerThreshold {
			m = m.Add(flag)
		}
	}
	return m
}

// Summary describes the spread of a profile's active gene values.
type Summary struct {
	Active int     `json:"active"`
	Total  int     `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Summarize computes a Summary over p's active genes. Every figure is zero
// when no gene is active.
func Summarize(p genetics.Profile) Summary {
	active := p.ActiveGenes()
	s := Summary{Active: len(active), Total: p.Len()}
	if len(active) == 0 {
		return s
	}

	data := make([]float64, 0, len(active))
	for _, g := range active {
		data = append(data, g.Value)
	}
	s.Mean, _ = stats.Mean(data)
	s.StdDev, _ = stats.StandardDeviation(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	s.Median, _ = stats.Median(data)
	return s
}
