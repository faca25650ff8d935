// Package inheritance combines two parent genetic profiles into an offspring
// profile using per-gene dominance resolution and bounded random blending.
package inheritance

import (
	"sort"
	"strings"

	"github.com/okian/chimera/internal/domain/genetics"
)

// Default combination parameters.
const (
	defaultBlendVariance       = 0.05
	defaultCarrierDilution     = 0.5
	defaultEnhancedThreshold   = 0.85
	defaultSuppressedThreshold = 0.15
	hybridSeparator            = "×"
)

// Combiner produces offspring profiles. It holds configuration only and is
// safe for concurrent use; randomness always comes from the caller's source.
type Combiner struct {
	variance            float64
	carrierDilution     float64
	enhancedThreshold   float64
	suppressedThreshold float64
}

// NewCombiner creates a Combiner with configuration options.
func NewCombiner(opts ...Option) *Combiner {
	c := &Combiner{
		variance:            defaultBlendVariance,
		carrierDilution:     defaultCarrierDilution,
		enhancedThreshold:   defaultEnhancedThreshold,
		suppressedThreshold: defaultSuppressedThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.suppressedThreshold >= c.enhancedThreshold {
		c.enhancedThreshold = defaultEnhancedThreshold
		c.suppressedThreshold = defaultSuppressedThreshold
	}
	return c
}

// Variance returns the configured blend jitter bound.
func (c *Combiner) Variance() float64 { return c.variance }

// Combine builds the child of p1 and p2. Parents are not modified. The child
// has generation max(p1, p2)+1, a lineage identifier drawn from src and no
// mutations. Given the same parents and source state the child is identical.
func (c *Combiner) Combine(p1, p2 genetics.Profile, src genetics.Source) genetics.Profile {
	child := genetics.Profile{
		Genes:      make(map[string]genetics.Gene, max(p1.Len(), p2.Len())),
		Generation: max(p1.Generation, p2.Generation) + 1,
		Species:    hybridSpecies(p1.Species, p2.Species),
		Mutations:  []genetics.Mutation{},
	}

	for _, name := range unionTraits(p1, p2) {
		a, inA := p1.Gene(name)
		b, inB := p2.Gene(name)
		switch {
		case inA && inB:
			child.Genes[name] = c.blend(a.Normalize(), b.Normalize(), src)
		case inA:
			child.Genes[name] = c.carry(a.Normalize(), src)
		default:
			child.Genes[name] = c.carry(b.Normalize(), src)
		}
	}

	// drawn last so the gene stream is independent of identifier generation
	child.LineageID = genetics.NewLineageID(src)
	return child
}

// blend resolves a locus present in both parents.
func (c *Combiner) blend(a, b genetics.Gene, src genetics.Source) genetics.Gene {
	wa, wb := weights(a.Dominance, b.Dominance)

	jitter := (src.Float64()*2 - 1) * c.variance
	value := genetics.Clamp01(wa*a.Value + wb*b.Value + jitter)

	// p is the share of dominance carried by expressed copies
	var p float64
	if a.IsActive {
		p += wa
	}
	if b.IsActive {
		p += wb
	}
	roll := src.Float64()
	active := (a.IsActive || b.IsActive) && roll < p

	traitType := a.TraitType
	if b.Dominance > a.Dominance {
		traitType = b.TraitType
	}

	return genetics.Gene{
		TraitName:  a.TraitName,
		TraitType:  traitType,
		Value:      value,
		Dominance:  genetics.Clamp01((a.Dominance + b.Dominance) / 2),
		IsActive:   active,
		Expression: c.expression(value, a.Expression, b.Expression),
	}
}

// carry resolves a locus present in one parent only. The missing parent acts
// as a null allele of dominance 0: the gene passes through expressed with
// probability equal to its dominance, otherwise as an inactive carrier copy.
func (c *Combiner) carry(g genetics.Gene, src genetics.Source) genetics.Gene {
	passes := src.Float64() < g.Dominance
	return genetics.Gene{
		TraitName:  g.TraitName,
		TraitType:  g.TraitType,
		Value:      g.Value,
		Dominance:  genetics.Clamp01(g.Dominance * c.carrierDilution),
		IsActive:   g.IsActive && passes,
		Expression: c.expression(g.Value, g.Expression),
	}
}

func (c *Combiner) expression(value float64, parents ...genetics.Expression) genetics.Expression {
	switch {
	case value <= c.suppressedThreshold:
		return genetics.ExpressionSuppressed
	case value >= c.enhancedThreshold:
		for _, e := range parents {
			if e == genetics.ExpressionSuppressed {
				return genetics.ExpressionNormal
			}
		}
		return genetics.ExpressionEnhanced
	default:
		return genetics.ExpressionNormal
	}
}

// weights returns the relative dominance of two alleles; equal when both are 0.
func weights(da, db float64) (float64, float64) {
	total := da + db
	if total <= 0 {
		return 0.5, 0.5
	}
	return da / total, db / total
}

func unionTraits(p1, p2 genetics.Profile) []string {
	seen := make(map[string]struct{}, p1.Len()+p2.Len())
	names := make([]string, 0, p1.Len()+p2.Len())
	for _, p := range []genetics.Profile{p1, p2} {
		for name := range p.Genes {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// hybridSpecies returns the shared species, or both names joined in sorted
// order so A×B and B×A name the same hybrid.
func hybridSpecies(a, b string) string {
	switch {
	case a == b:
		return a
	case a == "":
		return b
	case b == "":
		return a
	}
	parts := []string{a, b}
	sort.Strings(parts)
	return parts[0] + hybridSeparator + parts[1]
}

// IsHybrid reports whether a species name denotes a cross between species.
func IsHybrid(species string) bool {
	return strings.Contains(species, hybridSeparator)
}
