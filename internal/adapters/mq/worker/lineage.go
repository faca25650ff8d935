package worker

import (
	"context"

	"github.com/okian/chimera/internal/adapters/repository"
	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/domain/genetics"
)

// Inbreeding coefficients by relationship between the two parents.
const (
	coefficientParentOffspring = 0.25
	coefficientFullSiblings    = 0.25
	coefficientHalfSiblings    = 0.125
	coefficientPerGrandparent  = 0.03125
)

// ParentLookup resolves recorded parentage.
type ParentLookup interface {
	Parents(ctx context.Context, lineageID string) (repository.Parentage, error)
}

// LineageContext derives the ancestry flags of a breeding between a and b
// from up to two generations of recorded parentage. Unknown ancestry counts
// as unrelated.
func LineageContext(ctx context.Context, lookup ParentLookup, a, b genetics.Profile) discovery.Lineage {
	l := discovery.Lineage{
		ParentA:    a.LineageID,
		ParentB:    b.LineageID,
		Outcrossed: a.Species != b.Species,
	}

	pa := parentsOf(ctx, lookup, a.LineageID)
	pb := parentsOf(ctx, lookup, b.LineageID)

	var coeff float64
	switch {
	case contains(pa, b.LineageID) || contains(pb, a.LineageID):
		coeff = coefficientParentOffspring
	case len(pa) == 2 && len(pb) == 2 && shared(pa, pb) == 2:
		coeff = coefficientFullSiblings
	case shared(pa, pb) == 1:
		coeff = coefficientHalfSiblings
	default:
		ga := grandparentsOf(ctx, lookup, pa)
		gb := grandparentsOf(ctx, lookup, pb)
		coeff = float64(shared(ga, gb)) * coefficientPerGrandparent
	}

	l.InbreedingCoefficient = coeff
	l.Linebred = coeff > 0
	return l
}

func parentsOf(ctx context.Context, lookup ParentLookup, id string) []string {
	if id == "" {
		return nil
	}
	p, err := lookup.Parents(ctx, id)
	if err != nil || p.Founder() {
		return nil
	}
	out := make([]string, 0, 2)
	for _, v := range []string{p.ParentA, p.ParentB} {
		if v != "" && !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func grandparentsOf(ctx context.Context, lookup ParentLookup, parents []string) []string {
	var out []string
	for _, p := range parents {
		for _, g := range parentsOf(ctx, lookup, p) {
			if !contains(out, g) {
				out = append(out, g)
			}
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func shared(a, b []string) int {
	n := 0
	for _, v := range a {
		if contains(b, v) {
			n++
		}
	}
	return n
}
