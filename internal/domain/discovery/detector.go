package discovery

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/inheritance"
)

// Default detection thresholds.
const (
	defaultRareMutationThreshold = 0.2
	defaultLegendaryGeneration   = 10
	defaultPerfectMean           = 0.9
	defaultPerfectSpread         = 0.05

	// each marker and each rare mutation lifts the rarity score
	markerRarityBonus   = 0.05
	mutationRarityBonus = 0.05
)

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithRareMutationThreshold sets the minimum |magnitude| of a rare mutation.
func WithRareMutationThreshold(threshold float64) Option {
	return func(d *Detector) {
		if threshold > 0 && threshold <= 1 {
			d.rareMutation = threshold
		}
	}
}

// WithLegendaryGeneration sets the generation at which a lineage becomes legendary.
func WithLegendaryGeneration(generation int) Option {
	return func(d *Detector) {
		if generation > 0 {
			d.legendaryGeneration = generation
		}
	}
}

// WithPerfection sets the mean floor and standard deviation ceiling of the
// canonical stats for PerfectGenetics.
func WithPerfection(mean, spread float64) Option {
	return func(d *Detector) {
		if mean > 0 && mean <= 1 && spread >= 0 {
			d.perfectMean = mean
			d.perfectSpread = spread
		}
	}
}

// WithLedger shares a ledger between detectors.
func WithLedger(l *Ledger) Option {
	return func(d *Detector) {
		if l != nil {
			d.ledger = l
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

// Detector turns breeding outcomes into discovery events.
type Detector struct {
	rareMutation        float64
	legendaryGeneration int
	perfectMean         float64
	perfectSpread       float64
	ledger              *Ledger
	now                 func() time.Time
}

// NewDetector creates a Detector with configuration options.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		rareMutation:        defaultRareMutationThreshold,
		legendaryGeneration: defaultLegendaryGeneration,
		perfectMean:         defaultPerfectMean,
		perfectSpread:       defaultPerfectSpread,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.ledger == nil {
		d.ledger = NewLedger()
	}
	return d
}

// Ledger returns the detector's ledger.
func (d *Detector) Ledger() *Ledger { return d.ledger }

type emitPolicy int

const (
	always emitPolicy = iota
	onFirstTime
	onWorldFirst
)

// Input is everything the detector looks at for one outcome.
type Input struct {
	Profile      genetics.Profile
	Stats        Stats
	Markers      Marker
	Mutations    []genetics.Mutation
	Lineage      Lineage
	DiscovererID string
	Location     string
}

// Detect emits events for in, recording them in the ledger. Events come out
// in a fixed order: new traits by name, rare mutations, special markers,
// perfect genetics, new species, legendary lineage.
func (d *Detector) Detect(in Input, src genetics.Source) []Event {
	var rare []genetics.Mutation
	for _, m := range in.Mutations {
		if math.Abs(m.Magnitude) >= d.rareMutation {
			rare = append(rare, m)
		}
	}
	rarity := ClassifyRarity(d.RarityScore(in.Stats, in.Markers, len(rare)))
	at := d.now().UTC()
	species := in.Profile.Species

	var events []Event
	emit := func(t Type, key, description string, when emitPolicy) {
		first, world := d.ledger.Observe(t, key, in.DiscovererID)
		if (when == onFirstTime && !first) || (when == onWorldFirst && !world) {
			return
		}
		events = append(events, Event{
			ID:           genetics.NewID(src),
			Type:         t,
			Rarity:       rarity,
			Name:         GenerateDiscoveryName(t, in.Stats, in.Markers),
			Description:  description,
			DiscovererID: in.DiscovererID,
			ProfileID:    in.Profile.LineageID,
			Location:     in.Location,
			Lineage:      in.Lineage,
			IsFirstTime:  first,
			IsWorldFirst: world,
			DiscoveredAt: at,
		})
	}

	for _, g := range in.Profile.ActiveGenes() {
		emit(NewTrait, g.TraitName, fmt.Sprintf("%s expressed in %s", g.TraitName, speciesLabel(species)), onFirstTime)
	}

	for _, m := range rare {
		emit(RareMutation, m.TargetTraitName+"/"+string(m.Type),
			fmt.Sprintf("%s %s of %+.2f", m.TargetTraitName, strings.ToLower(string(m.Type)), m.Magnitude), always)
	}

	if in.Markers != 0 {
		names := strings.Join(in.Markers.Names(), "+")
		emit(SpecialMarker, names, "markers "+names, always)
	}

	if d.isPerfect(in.Stats) {
		emit(PerfectGenetics, species, "near-perfect canonical stats", always)
	}

	if inheritance.IsHybrid(species) {
		emit(NewSpecies, species, "first recorded "+species, onWorldFirst)
	}

	if in.Profile.Generation >= d.legendaryGeneration {
		emit(LegendaryLineage, species+"@"+strconv.Itoa(in.Profile.Generation),
			fmt.Sprintf("lineage reached generation %d", in.Profile.Generation), always)
	}

	return events
}

// RarityScore is the mean canonical stat lifted by markers and rare mutations.
func (d *Detector) RarityScore(s Stats, markers Marker, rareMutations int) float64 {
	mean, err := stats.Mean(s.Values())
	if err != nil {
		mean = 0
	}
	return mean + markerRarityBonus*float64(markers.Count()) + mutationRarityBonus*float64(rareMutations)
}

func (d *Detector) isPerfect(s Stats) bool {
	data := s.Values()
	mean, err := stats.Mean(data)
	if err != nil {
		return false
	}
	spread, err := stats.StandardDeviation(data)
	if err != nil {
		return false
	}
	return mean >= d.perfectMean && spread <= d.perfectSpread
}

func speciesLabel(species string) string {
	if species == "" {
		return "an unnamed line"
	}
	return species
}
