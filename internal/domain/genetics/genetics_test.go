package genetics_test

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/chimera/internal/domain/genetics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClamp01(t *testing.T) {
	Convey("Given values outside the unit interval", t, func() {
		So(genetics.Clamp01(-0.5), ShouldEqual, 0)
		So(genetics.Clamp01(1.7), ShouldEqual, 1)
		So(genetics.Clamp01(0.42), ShouldEqual, 0.42)
		So(genetics.Clamp01(math.NaN()), ShouldEqual, 0)
		So(genetics.Clamp01(math.Inf(1)), ShouldEqual, 1)
	})
}

func TestNewProfile(t *testing.T) {
	Convey("Given a list of genes with a duplicate trait name", t, func() {
		genes := []genetics.Gene{
			genetics.NewGene("Strength", genetics.TraitPhysical, 0.4, 0.5),
			{TraitName: "Agility", Value: 2, Dominance: -1},
			genetics.NewGene("Strength", genetics.TraitPhysical, 0.9, 0.7),
			{TraitName: "", Value: 0.5},
		}

		Convey("When building a profile", func() {
			p := genetics.NewProfile(genes, genetics.WithSpecies("Wolf"))

			Convey("Then the last duplicate wins", func() {
				g, ok := p.Gene("Strength")
				So(ok, ShouldBeTrue)
				So(g.Value, ShouldEqual, 0.9)
				So(g.Dominance, ShouldEqual, 0.7)
			})

			Convey("And unnamed genes are dropped", func() {
				So(p.Len(), ShouldEqual, 2)
			})

			Convey("And out of range inputs are clamped", func() {
				g, _ := p.Gene("Agility")
				So(g.Value, ShouldEqual, 1)
				So(g.Dominance, ShouldEqual, 0)
				So(g.Expression, ShouldEqual, genetics.ExpressionNormal)
			})

			Convey("And lineage metadata is populated", func() {
				So(p.Generation, ShouldEqual, 0)
				So(p.Species, ShouldEqual, "Wolf")
				_, err := uuid.Parse(p.LineageID)
				So(err, ShouldBeNil)
				So(p.Mutations, ShouldBeEmpty)
			})

			Convey("And trait names come back sorted", func() {
				So(p.TraitNames(), ShouldResemble, []string{"Agility", "Strength"})
			})
		})
	})
}

func TestProfileClone(t *testing.T) {
	Convey("Given a profile", t, func() {
		p := genetics.NewProfile([]genetics.Gene{genetics.NewGene("Vitality", genetics.TraitPhysical, 0.5, 0.5)})

		Convey("When the clone is mutated", func() {
			c := p.Clone()
			ok := c.RecordMutation(genetics.Mutation{TargetTraitName: "Vitality", NewValue: 0.8})
			So(ok, ShouldBeTrue)

			Convey("Then the original is untouched", func() {
				g, _ := p.Gene("Vitality")
				So(g.Value, ShouldEqual, 0.5)
				So(p.Mutations, ShouldBeEmpty)
				So(c.Mutations, ShouldHaveLength, 1)
			})
		})

		Convey("When a mutation targets an unknown trait", func() {
			c := p.Clone()
			ok := c.RecordMutation(genetics.Mutation{TargetTraitName: "Wings", NewValue: 0.8})

			Convey("Then nothing is recorded", func() {
				So(ok, ShouldBeFalse)
				So(c.Mutations, ShouldBeEmpty)
				So(c.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestActiveGenes(t *testing.T) {
	Convey("Given a profile with an inactive carrier gene", t, func() {
		carrier := genetics.NewGene("Bioluminescence", genetics.TraitMagical, 0.7, 0.3)
		carrier.IsActive = false
		p := genetics.NewProfile([]genetics.Gene{
			genetics.NewGene("Strength", genetics.TraitPhysical, 0.5, 0.5),
			carrier,
		})

		Convey("Then only active genes are expressed but the carrier is retained", func() {
			active := p.ActiveGenes()
			So(active, ShouldHaveLength, 1)
			So(active[0].TraitName, ShouldEqual, "Strength")
			So(p.Len(), ShouldEqual, 2)
		})
	})
}

func TestLineageID(t *testing.T) {
	Convey("Given two sources with the same seed", t, func() {
		a := genetics.NewRand(7)
		b := genetics.NewRand(7)

		Convey("Then lineage identifiers match", func() {
			So(genetics.NewLineageID(a), ShouldEqual, genetics.NewLineageID(b))
		})

		Convey("And successive draws differ", func() {
			first := genetics.NewLineageID(a)
			second := genetics.NewLineageID(a)
			So(first, ShouldNotEqual, second)
			parsed, err := uuid.Parse(first)
			So(err, ShouldBeNil)
			So(parsed.Version(), ShouldEqual, uuid.Version(4))
		})
	})

	Convey("Given keyed lineage identifiers", t, func() {
		Convey("Then the same key names the same profile", func() {
			So(genetics.KeyedID("req-1"), ShouldEqual, genetics.KeyedID("req-1"))
		})

		Convey("And different keys never collide", func() {
			So(genetics.KeyedID("req-1"), ShouldNotEqual, genetics.KeyedID("req-2"))
			parsed, err := uuid.Parse(genetics.KeyedID("req-1"))
			So(err, ShouldBeNil)
			So(parsed.Version(), ShouldEqual, uuid.Version(5))
		})
	})
}
