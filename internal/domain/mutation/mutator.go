// Package mutation applies probabilistic post-combination drift to a
// profile's genes and records every alteration.
package mutation

import (
	"math"

	"github.com/okian/chimera/internal/domain/genetics"
	"gonum.org/v1/gonum/stat/distuv"
)

// Default mutation parameters.
const (
	defaultRate         = 0.02
	defaultMaxMagnitude = 0.3
	// normal draws use sigma = maxMagnitude / normalSpread before truncation
	normalSpread = 2.0
)

// Distribution selects how mutation magnitudes are drawn.
type Distribution string

// Supported distributions.
const (
	Uniform Distribution = "uniform"
	Normal  Distribution = "normal"
)

// ParseDistribution maps a config string to a Distribution, defaulting to Uniform.
func ParseDistribution(s string) (Distribution, bool) {
	switch Distribution(s) {
	case Uniform, "":
		return Uniform, true
	case Normal:
		return Normal, true
	default:
		return Uniform, false
	}
}

// Option applies a configuration option to the Mutator.
type Option func(*Mutator)

// WithRate sets the per-gene mutation probability, clamped to [0,1].
func WithRate(rate float64) Option {
	return func(m *Mutator) {
		m.rate = genetics.Clamp01(rate)
	}
}

// WithMaxMagnitude bounds the magnitude of a single mutation.
func WithMaxMagnitude(magnitude float64) Option {
	return func(m *Mutator) {
		if magnitude > 0 && magnitude <= 1 {
			m.maxMagnitude = magnitude
		}
	}
}

// WithDistribution selects the magnitude distribution.
func WithDistribution(d Distribution) Option {
	return func(m *Mutator) {
		if _, ok := ParseDistribution(string(d)); ok {
			m.distribution = d
		}
	}
}

// Mutator applies mutation passes. It holds configuration only.
type Mutator struct {
	rate         float64
	maxMagnitude float64
	distribution Distribution
}

// NewMutator creates a Mutator with configuration options.
func NewMutator(opts ...Option) *Mutator {
	m := &Mutator{
		rate:         defaultRate,
		maxMagnitude: defaultMaxMagnitude,
		distribution: Uniform,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Rate returns the per-gene mutation probability.
func (m *Mutator) Rate() float64 { return m.rate }

// WithRateOverride returns a copy of m using rate instead of its own.
func (m *Mutator) WithRateOverride(rate float64) *Mutator {
	c := *m
	c.rate = genetics.Clamp01(rate)
	return &c
}

// Apply runs one mutation pass over a copy of p. Each gene is rolled
// independently in trait name order. The returned profile carries every
// previous mutation plus the ones created by this pass, which are also
// returned on their own.
func (m *Mutator) Apply(p genetics.Profile, src genetics.Source) (genetics.Profile, []genetics.Mutation) {
	out := p.Clone()
	var created []genetics.Mutation
	if m.rate <= 0 {
		return out, created
	}

	for _, name := range out.TraitNames() {
		if src.Float64() >= m.rate {
			continue
		}
		g := out.Genes[name]
		mutationType := genetics.MutationTypes[src.IntN(len(genetics.MutationTypes))]
		size := m.magnitude(src)

		rec := genetics.Mutation{
			TargetTraitName: name,
			Type:            mutationType,
			PreviousValue:   g.Value,
		}
		switch mutationType {
		case genetics.MutationEnhancement:
			rec.Magnitude = size
			rec.NewValue = g.Value * (1 + size)
		case genetics.MutationSuppression:
			rec.Magnitude = -size
			rec.NewValue = g.Value * (1 - size)
		default:
			if src.IntN(2) == 0 {
				size = -size
			}
			rec.Magnitude = size
			rec.NewValue = g.Value * (1 + size)
		}
		rec.NewValue = genetics.Clamp01(rec.NewValue)
		rec.ID = genetics.NewMutationID(src)

		out.RecordMutation(rec)
		created = append(created, rec)
	}
	return out, created
}

// magnitude draws an unsigned magnitude in [0, maxMagnitude].
func (m *Mutator) magnitude(src genetics.Source) float64 {
	switch m.distribution {
	case Normal:
		d := distuv.Normal{Mu: 0, Sigma: m.maxMagnitude / normalSpread, Src: src}
		return math.Min(math.Abs(d.Rand()), m.maxMagnitude)
	default:
		d := distuv.Uniform{Min: 0, Max: m.maxMagnitude, Src: src}
		return d.Rand()
	}
}
