// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and CHIMERA_ environment variables over New().
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"runtime"

	"github.com/okian/chimera/internal/domain/genetics"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// QueueSize bounds the in-memory breeding queue.
	QueueSize int `koanf:"queue_size" validate:"gte=1"`

	// WorkerCount sets the number of breeding workers.
	WorkerCount int `koanf:"worker_count" validate:"gte=1"`

	// DedupeSize sets how many request IDs are remembered.
	DedupeSize int `koanf:"dedupe_size" validate:"gte=1"`

	// MaxLeaderboardLimit caps GET /discoveries?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gte=1"`

	// BlendVariance bounds the jitter added when blending two parent genes.
	BlendVariance float64 `koanf:"blend_variance" validate:"gte=0,lte=1"`

	// CarrierDilution scales the dominance of a gene inherited from one parent.
	CarrierDilution float64 `koanf:"carrier_dilution" validate:"gte=0,lte=1"`

	// EnhancedThreshold and SuppressedThreshold label blended expression.
	EnhancedThreshold   float64 `koanf:"enhanced_threshold" validate:"gt=0,lte=1"`
	SuppressedThreshold float64 `koanf:"suppressed_threshold" validate:"gte=0,ltfield=EnhancedThreshold"`

	// MutationRate is the per-gene mutation probability.
	MutationRate float64 `koanf:"mutation_rate" validate:"gte=0,lte=1"`

	// MutationMaxMagnitude bounds a single mutation.
	MutationMaxMagnitude float64 `koanf:"mutation_max_magnitude" validate:"gt=0,lte=1"`

	// MutationDistribution is uniform or normal.
	MutationDistribution string `koanf:"mutation_distribution" validate:"oneof=uniform normal"`

	// RareMutationThreshold is the |magnitude| that makes a mutation a discovery.
	RareMutationThreshold float64 `koanf:"rare_mutation_threshold" validate:"gt=0,lte=1"`

	// LegendaryGeneration is the generation at which a lineage becomes legendary.
	LegendaryGeneration int `koanf:"legendary_generation" validate:"gte=1"`

	// Species maps founding species names to their gene templates.
	Species map[string][]GeneTemplate `koanf:"species" validate:"required,min=1,dive,keys,required,endkeys,required,min=1,dive"`
}

// GeneTemplate is one gene of a founding species as written in YAML.
type GeneTemplate struct {
	Trait     string             `koanf:"trait" yaml:"trait" validate:"required"`
	Type      genetics.TraitType `koanf:"type" yaml:"type"`
	Value     float64            `koanf:"value" yaml:"value" validate:"gte=0,lte=1"`
	Dominance float64            `koanf:"dominance" yaml:"dominance" validate:"gte=0,lte=1"`
	// Carrier founders hold the gene without expressing it.
	Carrier bool `koanf:"carrier" yaml:"carrier"`
}

// Gene converts the template to a gene.
func (t GeneTemplate) Gene() genetics.Gene {
	g := genetics.NewGene(t.Trait, t.Type, t.Value, t.Dominance)
	g.IsActive = !t.Carrier
	return g
}

// Template returns the genes of a founding species.
func (c *Config) Template(species string) ([]genetics.Gene, bool) {
	tmpl, ok := c.Species[species]
	if !ok {
		return nil, false
	}
	genes := make([]genetics.Gene, 0, len(tmpl))
	for _, t := range tmpl {
		genes = append(genes, t.Gene())
	}
	return genes, true
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		QueueSize:             10_000,
		WorkerCount:           runtime.NumCPU() * 2,
		DedupeSize:            100_000,
		MaxLeaderboardLimit:   100,
		BlendVariance:         0.05,
		CarrierDilution:       0.5,
		EnhancedThreshold:     0.85,
		SuppressedThreshold:   0.15,
		MutationRate:          0.02,
		MutationMaxMagnitude:  0.3,
		MutationDistribution:  "uniform",
		RareMutationThreshold: 0.2,
		LegendaryGeneration:   10,
		Species:               DefaultSpecies(),
	}
}

// DefaultSpecies returns the built-in founding templates.
func DefaultSpecies() map[string][]GeneTemplate {
	return map[string][]GeneTemplate{
		"Wolf": {
			{Trait: "Strength", Type: genetics.TraitPhysical, Value: 0.75, Dominance: 0.6},
			{Trait: "Vitality", Type: genetics.TraitPhysical, Value: 0.65, Dominance: 0.5},
			{Trait: "Agility", Type: genetics.TraitPhysical, Value: 0.6, Dominance: 0.5},
			{Trait: "Social", Type: genetics.TraitSocial, Value: 0.7, Dominance: 0.55},
			{Trait: "PackLeader", Type: genetics.TraitSocial, Value: 0.6, Dominance: 0.4},
		},
		"Owl": {
			{Trait: "Intelligence", Type: genetics.TraitIntelligence, Value: 0.85, Dominance: 0.7},
			{Trait: "Agility", Type: genetics.TraitPhysical, Value: 0.55, Dominance: 0.45},
			{Trait: "Adaptability", Type: genetics.TraitUtility, Value: 0.6, Dominance: 0.5},
			{Trait: "NightVision", Type: genetics.TraitSensory, Value: 0.9, Dominance: 0.8},
			{Trait: "Bioluminescence", Type: genetics.TraitMagical, Value: 0.55, Dominance: 0.25},
		},
		"Salamander": {
			{Trait: "Vitality", Type: genetics.TraitPhysical, Value: 0.8, Dominance: 0.6},
			{Trait: "Adaptability", Type: genetics.TraitUtility, Value: 0.75, Dominance: 0.55},
			{Trait: "Metabolism", Type: genetics.TraitMetabolic, Value: 0.7, Dominance: 0.5},
			{Trait: "ElementalAffinity", Type: genetics.TraitMagical, Value: 0.65, Dominance: 0.35},
		},
	}
}
