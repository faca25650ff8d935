package breeding_test

import (
	"context"
	"sync"
	"testing"

	"github.com/okian/chimera/internal/domain/breeding"
	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/mutation"
	. "github.com/smartystreets/goconvey/convey"
)

func wolfTemplate() []genetics.Gene {
	return []genetics.Gene{
		genetics.NewGene("Strength", genetics.TraitPhysical, 0.7, 0.6),
		genetics.NewGene("Vitality", genetics.TraitPhysical, 0.6, 0.5),
		genetics.NewGene("PackLeader", genetics.TraitSocial, 0.8, 0.9),
	}
}

func owlTemplate() []genetics.Gene {
	return []genetics.Gene{
		genetics.NewGene("Intelligence", genetics.TraitIntelligence, 0.8, 0.7),
		genetics.NewGene("Vitality", genetics.TraitPhysical, 0.4, 0.5),
		genetics.NewGene("Bioluminescence", genetics.TraitMagical, 0.6, 0.3),
	}
}

func TestBreeder_Breed(t *testing.T) {
	Convey("Given two founders of different species", t, func() {
		wolf := breeding.NewFounder("Wolf", wolfTemplate())
		owl := breeding.NewFounder("Owl", owlTemplate())
		b := breeding.NewBreeder(breeding.WithMutator(mutation.NewMutator(mutation.WithRate(0))))

		Convey("When breeding them", func() {
			out, err := b.Breed(context.Background(), breeding.Input{
				ParentA:      wolf,
				ParentB:      owl,
				Seed:         42,
				DiscovererID: "alice",
				Location:     "lab",
			})
			So(err, ShouldBeNil)

			Convey("Then the child is a first generation hybrid with every trait", func() {
				So(out.Child.Generation, ShouldEqual, 1)
				So(out.Child.Species, ShouldEqual, "Owl×Wolf")
				So(out.Child.TraitNames(), ShouldResemble, []string{
					"Bioluminescence", "Intelligence", "PackLeader", "Strength", "Vitality",
				})
				So(out.Mutations, ShouldBeEmpty)
			})

			Convey("And discoveries carry the parents and include the new species", func() {
				var species []discovery.Event
				for _, e := range out.Events {
					So(e.Lineage.ParentA, ShouldEqual, wolf.LineageID)
					So(e.Lineage.ParentB, ShouldEqual, owl.LineageID)
					So(e.Lineage.GenerationDepth, ShouldEqual, 1)
					So(e.ProfileID, ShouldEqual, out.Child.LineageID)
					if e.Type == discovery.NewSpecies {
						species = append(species, e)
					}
				}
				So(species, ShouldHaveLength, 1)
				So(species[0].IsWorldFirst, ShouldBeTrue)
			})

			Convey("And the stats come from the child's genes", func() {
				v, _ := out.Child.Gene("Vitality")
				So(out.Stats.Vitality, ShouldBeGreaterThan, 0.0)
				So(out.Stats.Vitality, ShouldBeLessThanOrEqualTo, 1.0)
				So(v.IsActive, ShouldBeTrue)
			})
		})

		Convey("When breeding twice with the same seed on fresh breeders", func() {
			in := breeding.Input{ParentA: wolf, ParentB: owl, Seed: 7, DiscovererID: "bob"}
			a, _ := breeding.NewBreeder().Breed(context.Background(), in)
			c, _ := breeding.NewBreeder().Breed(context.Background(), in)

			Convey("Then the child profiles are identical", func() {
				So(c.Child, ShouldResemble, a.Child)
				So(c.Mutations, ShouldResemble, a.Mutations)
			})
		})

		Convey("When the caller names the child", func() {
			id := genetics.KeyedID("req-9")
			out, err := b.Breed(context.Background(), breeding.Input{
				ParentA: wolf, ParentB: owl, Seed: 7, ChildID: id,
			})
			So(err, ShouldBeNil)

			Convey("Then the child and its discoveries carry that identifier", func() {
				So(out.Child.LineageID, ShouldEqual, id)
				So(out.Events, ShouldNotBeEmpty)
				seen := map[string]bool{}
				for _, e := range out.Events {
					So(e.ProfileID, ShouldEqual, id)
					So(seen[e.ID], ShouldBeFalse)
					seen[e.ID] = true
				}
			})

			Convey("And the genes match an unnamed breeding from the same seed", func() {
				plain, err := b.Breed(context.Background(), breeding.Input{ParentA: wolf, ParentB: owl, Seed: 7})
				So(err, ShouldBeNil)
				So(out.Child.Genes, ShouldResemble, plain.Child.Genes)
				So(plain.Child.LineageID, ShouldNotEqual, id)
			})
		})

		Convey("When overriding the mutation rate", func() {
			rate := 1.0
			out, err := b.Breed(context.Background(), breeding.Input{
				ParentA: wolf, ParentB: owl, Seed: 3, MutationRate: &rate,
			})
			So(err, ShouldBeNil)

			Convey("Then every gene mutates once", func() {
				So(out.Mutations, ShouldHaveLength, 5)
				So(out.Child.Mutations, ShouldHaveLength, 5)
			})
		})

		Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := b.Breed(ctx, breeding.Input{ParentA: wolf, ParentB: owl})

			Convey("Then the breeding is refused", func() {
				So(err, ShouldWrap, context.Canceled)
			})
		})

		Convey("When breeding concurrently", func() {
			var wg sync.WaitGroup
			results := make([]breeding.Outcome, 16)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], _ = b.Breed(context.Background(), breeding.Input{
						ParentA: wolf, ParentB: owl, Seed: uint64(i + 1), DiscovererID: "crowd",
					})
				}(i)
			}
			wg.Wait()

			Convey("Then exactly one breeding claims the new species", func() {
				count := 0
				for _, r := range results {
					for _, e := range r.Events {
						if e.Type == discovery.NewSpecies {
							count++
						}
					}
				}
				So(count, ShouldEqual, 1)
			})
		})
	})
}

func TestNewFounder(t *testing.T) {
	Convey("Given a species template", t, func() {
		a := breeding.NewFounder("Wolf", wolfTemplate())
		b := breeding.NewFounder("Wolf", wolfTemplate())
		c := breeding.NewFounder("Owl", owlTemplate())

		Convey("Then founders are generation zero with independent lineage", func() {
			So(a.Generation, ShouldEqual, 0)
			So(a.Species, ShouldEqual, "Wolf")
			So(a.LineageID, ShouldNotBeEmpty)
			So(a.LineageID, ShouldNotEqual, b.LineageID)
			So(a.LineageID, ShouldNotEqual, c.LineageID)
			So(a.Genes, ShouldResemble, b.Genes)
		})
	})
}
