// Package breeding runs one breeding end to end: combination, mutation,
// phenotype derivation and discovery detection.
package breeding

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/inheritance"
	"github.com/okian/chimera/internal/domain/mutation"
	"github.com/okian/chimera/internal/domain/phenotype"
)

// Option applies a configuration option to the Breeder.
type Option func(*Breeder)

// WithCombiner sets the inheritance stage.
func WithCombiner(c *inheritance.Combiner) Option {
	return func(b *Breeder) {
		if c != nil {
			b.combiner = c
		}
	}
}

// WithMutator sets the mutation stage.
func WithMutator(m *mutation.Mutator) Option {
	return func(b *Breeder) {
		if m != nil {
			b.mutator = m
		}
	}
}

// WithDetector sets the discovery stage.
func WithDetector(d *discovery.Detector) Option {
	return func(b *Breeder) {
		if d != nil {
			b.detector = d
		}
	}
}

// Breeder wires the pipeline stages. It is safe for concurrent use; every
// call builds its own random source.
type Breeder struct {
	combiner *inheritance.Combiner
	mutator  *mutation.Mutator
	detector *discovery.Detector
}

// NewBreeder creates a Breeder with default stages unless overridden.
func NewBreeder(opts ...Option) *Breeder {
	b := &Breeder{
		combiner: inheritance.NewCombiner(),
		mutator:  mutation.NewMutator(),
		detector: discovery.NewDetector(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Detector returns the discovery stage.
func (b *Breeder) Detector() *discovery.Detector { return b.detector }

// Input describes one breeding.
type Input struct {
	ParentA genetics.Profile
	ParentB genetics.Profile
	// Seed drives every random draw; zero picks a random seed.
	Seed uint64
	// MutationRate overrides the configured rate when set.
	MutationRate *float64
	// ChildID names the child when set, and its discoveries are keyed by it.
	// Otherwise the identifiers drawn from the seed are kept.
	ChildID      string
	DiscovererID string
	Location     string
	Lineage      discovery.Lineage
}

// Outcome is the result of a breeding.
type Outcome struct {
	Child     genetics.Profile    `json:"child"`
	Mutations []genetics.Mutation `json:"mutations"`
	Stats     discovery.Stats     `json:"stats"`
	Markers   discovery.Marker    `json:"markers"`
	Events    []discovery.Event   `json:"events"`
}

// Breed runs the pipeline. It only fails when ctx is already done.
func (b *Breeder) Breed(ctx context.Context, in Input) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("breed: %w", err)
	}

	src := genetics.NewRand(in.Seed)

	child := b.combiner.Combine(in.ParentA, in.ParentB, src)
	if in.ChildID != "" {
		child.LineageID = in.ChildID
	}

	mutator := b.mutator
	if in.MutationRate != nil {
		mutator = mutator.WithRateOverride(*in.MutationRate)
	}
	child, mutations := mutator.Apply(child, src)

	stats := phenotype.Derive(child)
	markers := phenotype.Markers(child)

	lineage := in.Lineage
	if lineage.ParentA == "" && lineage.ParentB == "" {
		lineage.ParentA = in.ParentA.LineageID
		lineage.ParentB = in.ParentB.LineageID
	}
	lineage.GenerationDepth = child.Generation

	events := b.detector.Detect(discovery.Input{
		Profile:      child,
		Stats:        stats,
		Markers:      markers,
		Mutations:    mutations,
		Lineage:      lineage,
		DiscovererID: in.DiscovererID,
		Location:     in.Location,
	}, src)
	if in.ChildID != "" {
		for i := range events {
			events[i].ID = genetics.KeyedID(in.ChildID + "/" + strconv.Itoa(i))
		}
	}

	return Outcome{
		Child:     child,
		Mutations: mutations,
		Stats:     stats,
		Markers:   markers,
		Events:    events,
	}, nil
}

// NewFounder builds a generation zero profile from a species template with a
// fresh random lineage identifier.
func NewFounder(species string, template []genetics.Gene) genetics.Profile {
	return genetics.NewProfile(template,
		genetics.WithSpecies(species),
		genetics.WithLineageID(uuid.NewString()),
	)
}
