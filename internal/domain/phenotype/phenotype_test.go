package phenotype_test

import (
	"testing"

	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/phenotype"
	. "github.com/smartystreets/goconvey/convey"
)

func gene(name string, value float64, active bool, expr genetics.Expression) genetics.Gene {
	g := genetics.NewGene(name, genetics.TraitPhysical, value, 0.5)
	g.IsActive = active
	g.Expression = expr
	return g
}

func TestDerive(t *testing.T) {
	Convey("Given a profile with mixed expression", t, func() {
		p := genetics.NewProfile([]genetics.Gene{
			gene(phenotype.Strength, 0.8, true, genetics.ExpressionNormal),
			gene(phenotype.Vitality, 0.9, true, genetics.ExpressionEnhanced),
			gene(phenotype.Agility, 0.4, true, genetics.ExpressionSuppressed),
			gene(phenotype.Intelligence, 0.7, false, genetics.ExpressionNormal),
			gene(phenotype.Social, 0.2, true, genetics.ExpressionEnhanced),
		})

		s := phenotype.Derive(p)

		Convey("Then expression scales and clamps the stats", func() {
			So(s.Strength, ShouldEqual, 0.8)
			So(s.Vitality, ShouldEqual, 1.0)
			So(s.Agility, ShouldAlmostEqual, 0.3, 1e-9)
			So(s.Social, ShouldAlmostEqual, 0.23, 1e-9)
		})

		Convey("And inactive or missing genes read as zero", func() {
			So(s.Intelligence, ShouldEqual, 0.0)
			So(s.Adaptability, ShouldEqual, 0.0)
		})
	})
}

func TestMarkers(t *testing.T) {
	Convey("Given marker genes of different strength", t, func() {
		p := genetics.NewProfile([]genetics.Gene{
			gene("Bioluminescence", 0.6, true, genetics.ExpressionNormal),
			gene("PackLeader", 0.5, true, genetics.ExpressionNormal),
			gene("HybridVigor", 0.9, false, genetics.ExpressionNormal),
			gene("RareLineage", 0.49, true, genetics.ExpressionNormal),
		})

		m := phenotype.Markers(p)

		Convey("Then only active genes at the threshold show", func() {
			So(m.Has(discovery.Bioluminescent), ShouldBeTrue)
			So(m.Has(discovery.PackLeader), ShouldBeTrue)
			So(m.Has(discovery.HybridVigor), ShouldBeFalse)
			So(m.Has(discovery.RareLineage), ShouldBeFalse)
			So(m.Has(discovery.ElementalAffinity), ShouldBeFalse)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given active and carrier genes", t, func() {
		p := genetics.NewProfile([]genetics.Gene{
			gene("A", 0.2, true, genetics.ExpressionNormal),
			gene("B", 0.4, true, genetics.ExpressionNormal),
			gene("C", 0.6, true, genetics.ExpressionNormal),
			gene("D", 1.0, false, genetics.ExpressionNormal),
		})

		s := phenotype.Summarize(p)

		Convey("Then only active values are summarized", func() {
			So(s.Active, ShouldEqual, 3)
			So(s.Total, ShouldEqual, 4)
			So(s.Mean, ShouldAlmostEqual, 0.4, 1e-9)
			So(s.Min, ShouldEqual, 0.2)
			So(s.Max, ShouldEqual, 0.6)
			So(s.Median, ShouldAlmostEqual, 0.4, 1e-9)
			So(s.StdDev, ShouldBeGreaterThan, 0.0)
		})
	})

	Convey("Given an empty profile", t, func() {
		s := phenotype.Summarize(genetics.NewProfile(nil))
		So(s, ShouldResemble, phenotype.Summary{})
	})
}
