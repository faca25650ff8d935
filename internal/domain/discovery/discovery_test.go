package discovery_test

import (
	"sync"
	"testing"
	"time"

	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/domain/genetics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculateSignificance(t *testing.T) {
	Convey("Given a legendary new species found first by the world", t, func() {
		score := discovery.CalculateSignificance(discovery.NewSpecies, discovery.Legendary, true, true)

		Convey("Then the bonuses stack additively", func() {
			So(score, ShouldEqual, 4375.0)
		})
	})

	Convey("Given no context bonus", t, func() {
		So(discovery.CalculateSignificance(discovery.NewTrait, discovery.Common, false, false), ShouldEqual, 10.0)
		So(discovery.CalculateSignificance(discovery.LegendaryLineage, discovery.Mythical, false, false), ShouldEqual, 5000.0)
		So(discovery.CalculateSignificance(discovery.RareMutation, discovery.Rare, true, false), ShouldEqual, 112.5)
	})

	Convey("Given every type and context", t, func() {
		Convey("Then significance strictly increases with rarity", func() {
			for _, typ := range discovery.Types {
				for _, first := range []bool{false, true} {
					for _, world := range []bool{false, true} {
						prev := -1.0
						for _, r := range discovery.Rarities {
							score := discovery.CalculateSignificance(typ, r, first, world)
							So(score, ShouldBeGreaterThan, prev)
							prev = score
						}
					}
				}
			}
		})
	})

	Convey("Given unknown enum values", t, func() {
		Convey("Then the score falls back to a common new trait", func() {
			So(discovery.CalculateSignificance(discovery.Type("Bogus"), discovery.Rarity(42), false, false), ShouldEqual, 10.0)
		})
	})

	Convey("Given an event", t, func() {
		e := discovery.Event{Type: discovery.SpecialMarker, Rarity: discovery.Epic}

		Convey("Then its significance follows its fields", func() {
			So(e.Significance(), ShouldEqual, 200.0)
			e.IsWorldFirst = true
			So(e.Significance(), ShouldEqual, 600.0)
		})
	})
}

func TestGenerateDiscoveryName(t *testing.T) {
	Convey("Given perfect genetics led by intelligence with a rare lineage marker", t, func() {
		stats := discovery.Stats{Strength: 0.9, Vitality: 0.91, Agility: 0.92, Intelligence: 0.99, Adaptability: 0.9, Social: 0.9}
		name := discovery.GenerateDiscoveryName(discovery.PerfectGenetics, stats, discovery.RareLineage)
		So(name, ShouldEqual, "Perfect Genius Prime")
	})

	Convey("Given tied stats", t, func() {
		Convey("Then the earlier canonical stat wins", func() {
			tied := discovery.Stats{Strength: 0.5, Vitality: 0.5, Agility: 0.5, Intelligence: 0.5, Adaptability: 0.5, Social: 0.5}
			So(discovery.GenerateDiscoveryName(discovery.NewTrait, tied, 0), ShouldEqual, "Novel Mighty")

			tail := discovery.Stats{Agility: 0.7, Social: 0.7}
			So(discovery.GenerateDiscoveryName(discovery.RareMutation, tail, 0), ShouldEqual, "Mutant Swift")
		})
	})

	Convey("Given several markers", t, func() {
		Convey("Then the highest priority marker names the suffix", func() {
			markers := discovery.PackLeader.Add(discovery.ElementalAffinity).Add(discovery.HybridVigor)
			stats := discovery.Stats{Social: 0.8}
			So(discovery.GenerateDiscoveryName(discovery.SpecialMarker, stats, markers), ShouldEqual, "Marked Charismatic Elemental")
		})
	})

	Convey("Given an unknown type", t, func() {
		So(discovery.GenerateDiscoveryName(discovery.Type("Bogus"), discovery.Stats{Vitality: 1}, discovery.PackLeader), ShouldEqual, "Unknown Hardy Alpha")
	})
}

func TestClassifyRarity(t *testing.T) {
	Convey("Given scores on the cutoffs", t, func() {
		So(discovery.ClassifyRarity(0.1), ShouldEqual, discovery.Common)
		So(discovery.ClassifyRarity(0.5), ShouldEqual, discovery.Uncommon)
		So(discovery.ClassifyRarity(0.7), ShouldEqual, discovery.Rare)
		So(discovery.ClassifyRarity(0.75), ShouldEqual, discovery.Epic)
		So(discovery.ClassifyRarity(0.9), ShouldEqual, discovery.Legendary)
		So(discovery.ClassifyRarity(1.2), ShouldEqual, discovery.Mythical)
	})

	Convey("Given tier names", t, func() {
		r, ok := discovery.ParseRarity("Epic")
		So(ok, ShouldBeTrue)
		So(r, ShouldEqual, discovery.Epic)
		So(discovery.Mythical.String(), ShouldEqual, "Mythical")

		_, ok = discovery.ParseRarity("Godly")
		So(ok, ShouldBeFalse)
	})
}

func TestMarker(t *testing.T) {
	Convey("Given a marker set", t, func() {
		var m discovery.Marker
		m = m.Add(discovery.HybridVigor).Add(discovery.Bioluminescent)

		So(m.Has(discovery.HybridVigor), ShouldBeTrue)
		So(m.Has(discovery.PackLeader), ShouldBeFalse)
		So(m.Count(), ShouldEqual, 2)
		So(m.Names(), ShouldResemble, []string{"Bioluminescent", "HybridVigor"})

		f, ok := discovery.ParseMarker("PackLeader")
		So(ok, ShouldBeTrue)
		So(f, ShouldEqual, discovery.PackLeader)
	})
}

func TestLedger(t *testing.T) {
	Convey("Given a ledger", t, func() {
		l := discovery.NewLedger()

		Convey("When the first discoverer observes a trait", func() {
			first, world := l.Observe(discovery.NewTrait, "Strength", "alice")
			So(first, ShouldBeTrue)
			So(world, ShouldBeTrue)

			Convey("Then another discoverer gets a first time only", func() {
				first, world := l.Observe(discovery.NewTrait, "Strength", "bob")
				So(first, ShouldBeTrue)
				So(world, ShouldBeFalse)
			})

			Convey("Then repeating it is neither", func() {
				first, world := l.Observe(discovery.NewTrait, "Strength", "alice")
				So(first, ShouldBeFalse)
				So(world, ShouldBeFalse)
				So(l.Seen(discovery.NewTrait, "Strength"), ShouldBeTrue)
				So(l.Size(), ShouldEqual, 1)
			})
		})

		Convey("When many goroutines race for a world first", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			winners := 0
			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, world := l.Observe(discovery.NewSpecies, "Owl×Wolf", string(rune('a'+i%26)))
					if world {
						mu.Lock()
						winners++
						mu.Unlock()
					}
				}(i)
			}
			wg.Wait()

			Convey("Then exactly one wins", func() {
				So(winners, ShouldEqual, 1)
				So(l.Discoverers(), ShouldEqual, 26)
			})
		})
	})
}

func TestDetector(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	Convey("Given a detector and a tenth generation hybrid", t, func() {
		d := discovery.NewDetector(discovery.WithClock(func() time.Time { return fixed }))
		child := genetics.NewProfile([]genetics.Gene{
			genetics.NewGene("Strength", genetics.TraitPhysical, 0.95, 0.5),
			genetics.NewGene("Intelligence", genetics.TraitIntelligence, 0.95, 0.5),
		}, genetics.WithGeneration(10), genetics.WithSpecies("Owl×Wolf"), genetics.WithLineageID("child-1"))

		in := discovery.Input{
			Profile: child,
			Stats: discovery.Stats{
				Strength: 0.95, Vitality: 0.94, Agility: 0.93,
				Intelligence: 0.96, Adaptability: 0.92, Social: 0.91,
			},
			Markers: discovery.RareLineage,
			Mutations: []genetics.Mutation{
				{ID: "m1", TargetTraitName: "Strength", Type: genetics.MutationEnhancement, Magnitude: 0.25},
				{ID: "m2", TargetTraitName: "Intelligence", Type: genetics.MutationShift, Magnitude: -0.05},
			},
			Lineage:      discovery.Lineage{ParentA: "a", ParentB: "b", GenerationDepth: 10},
			DiscovererID: "alice",
			Location:     "lab",
		}

		Convey("When detecting the first time", func() {
			events := d.Detect(in, genetics.NewRand(9))

			Convey("Then every kind is emitted in order", func() {
				types := make([]discovery.Type, 0, len(events))
				for _, e := range events {
					types = append(types, e.Type)
				}
				So(types, ShouldResemble, []discovery.Type{
					discovery.NewTrait, discovery.NewTrait,
					discovery.RareMutation,
					discovery.SpecialMarker,
					discovery.PerfectGenetics,
					discovery.NewSpecies,
					discovery.LegendaryLineage,
				})
			})

			Convey("And events carry context and are world firsts", func() {
				for _, e := range events {
					So(e.ID, ShouldNotBeEmpty)
					So(e.ProfileID, ShouldEqual, "child-1")
					So(e.DiscovererID, ShouldEqual, "alice")
					So(e.Location, ShouldEqual, "lab")
					So(e.Lineage.GenerationDepth, ShouldEqual, 10)
					So(e.DiscoveredAt, ShouldEqual, fixed)
					So(e.IsFirstTime, ShouldBeTrue)
					So(e.IsWorldFirst, ShouldBeTrue)
				}
				So(events[0].Description, ShouldContainSubstring, "Intelligence")
			})

			Convey("And rarity reflects stats, markers and rare mutations", func() {
				// mean 0.935 + one marker + one rare mutation
				for _, e := range events {
					So(e.Rarity, ShouldEqual, discovery.Mythical)
				}
				So(events[4].Name, ShouldEqual, "Perfect Genius Prime")
			})

			Convey("When detecting the same outcome again", func() {
				again := d.Detect(in, genetics.NewRand(10))

				Convey("Then new traits and the species are not repeated", func() {
					for _, e := range again {
						So(e.Type, ShouldNotEqual, discovery.NewTrait)
						So(e.Type, ShouldNotEqual, discovery.NewSpecies)
						So(e.IsWorldFirst, ShouldBeFalse)
					}
					So(again, ShouldHaveLength, 4)
				})
			})
		})
	})

	Convey("Given an unremarkable founder-species child", t, func() {
		d := discovery.NewDetector()
		d.Ledger().Observe(discovery.NewTrait, "Vitality", "bob")
		child := genetics.NewProfile([]genetics.Gene{
			genetics.NewGene("Vitality", genetics.TraitPhysical, 0.3, 0.5),
		}, genetics.WithGeneration(1), genetics.WithSpecies("Wolf"))

		events := d.Detect(discovery.Input{
			Profile:      child,
			Stats:        discovery.Stats{Vitality: 0.3},
			DiscovererID: "bob",
		}, genetics.NewRand(1))

		Convey("Then nothing is emitted", func() {
			So(events, ShouldBeEmpty)
		})
	})

	Convey("Given two detections from the same seed", t, func() {
		mk := func() []discovery.Event {
			d := discovery.NewDetector(discovery.WithClock(func() time.Time { return fixed }))
			child := genetics.NewProfile([]genetics.Gene{
				genetics.NewGene("Agility", genetics.TraitPhysical, 0.6, 0.5),
			}, genetics.WithLineageID("x"))
			return d.Detect(discovery.Input{Profile: child, Stats: discovery.Stats{Agility: 0.6}, DiscovererID: "c"}, genetics.NewRand(4))
		}

		Convey("Then the events are identical", func() {
			So(mk(), ShouldResemble, mk())
		})
	})
}
