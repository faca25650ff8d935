// Package genetics defines the heritable data model shared by the breeding
// pipeline: genes, genetic profiles, mutation records and the injected
// random source every stochastic operation draws from.
package genetics

import "math"

// TraitType tags which downstream systems consume a gene. It does not affect
// the combination math. Unknown values are carried verbatim.
type TraitType string

// Known trait types.
const (
	TraitPhysical     TraitType = "Physical"
	TraitIntelligence TraitType = "Intelligence"
	TraitMetabolic    TraitType = "Metabolic"
	TraitMagical      TraitType = "Magical"
	TraitUtility      TraitType = "Utility"
	TraitSocial       TraitType = "Social"
	TraitSensory      TraitType = "Sensory"
)

// Expression is a secondary, cosmetic modifier on phenotypic strength.
type Expression string

// Expression levels.
const (
	ExpressionNormal     Expression = "Normal"
	ExpressionEnhanced   Expression = "Enhanced"
	ExpressionSuppressed Expression = "Suppressed"
)

// Gene is one heritable trait instance. TraitName acts as the locus and is
// unique within a Profile.
type Gene struct {
	TraitName  string     `json:"trait_name" yaml:"trait_name" koanf:"trait_name"`
	TraitType  TraitType  `json:"trait_type" yaml:"trait_type" koanf:"trait_type"`
	Value      float64    `json:"value" yaml:"value" koanf:"value"`
	Dominance  float64    `json:"dominance" yaml:"dominance" koanf:"dominance"`
	IsActive   bool       `json:"is_active" yaml:"is_active" koanf:"is_active"`
	Expression Expression `json:"expression" yaml:"expression" koanf:"expression"`
}

// NewGene builds an active, normally expressed gene with clamped inputs.
func NewGene(name string, traitType TraitType, value, dominance float64) Gene {
	return Gene{
		TraitName:  name,
		TraitType:  traitType,
		Value:      value,
		Dominance:  dominance,
		IsActive:   true,
		Expression: ExpressionNormal,
	}.Normalize()
}

// Normalize clamps value and dominance to [0,1] and fills a missing
// expression with Normal.
func (g Gene) Normalize() Gene {
	g.Value = Clamp01(g.Value)
	g.Dominance = Clamp01(g.Dominance)
	if g.Expression == "" {
		g.Expression = ExpressionNormal
	}
	return g
}

// Clamp01 clamps x to [0,1]. NaN maps to 0.
func Clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}
