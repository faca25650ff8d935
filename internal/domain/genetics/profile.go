package genetics

import (
	"sort"

	"github.com/google/uuid"
)

// Profile is the full gene set of one creature plus lineage metadata.
// Profiles have value semantics: Clone before handing one to another owner.
type Profile struct {
	Genes      map[string]Gene `json:"genes" yaml:"genes"`
	Generation int             `json:"generation" yaml:"generation"`
	LineageID  string          `json:"lineage_id" yaml:"lineage_id"`
	Species    string          `json:"species,omitempty" yaml:"species,omitempty"`
	Mutations  []Mutation      `json:"mutations" yaml:"mutations"`
}

// ProfileOption configures NewProfile.
type ProfileOption func(*Profile)

// WithGeneration sets the generation counter. Negative values become 0.
func WithGeneration(generation int) ProfileOption {
	return func(p *Profile) {
		if generation > 0 {
			p.Generation = generation
		}
	}
}

// WithLineageID sets the lineage identifier.
func WithLineageID(id string) ProfileOption {
	return func(p *Profile) {
		if id != "" {
			p.LineageID = id
		}
	}
}

// WithSpecies sets the species or template name.
func WithSpecies(species string) ProfileOption {
	return func(p *Profile) {
		p.Species = species
	}
}

// NewProfile builds a profile from genes. Duplicate trait names are resolved
// last-write-wins, genes without a name are dropped and every gene is clamped.
// Without WithLineageID a random lineage identifier is assigned.
func NewProfile(genes []Gene, opts ...ProfileOption) Profile {
	p := Profile{
		Genes:     make(map[string]Gene, len(genes)),
		Mutations: []Mutation{},
	}
	for _, g := range genes {
		if g.TraitName == "" {
			continue
		}
		p.Genes[g.TraitName] = g.Normalize()
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.LineageID == "" {
		p.LineageID = uuid.NewString()
	}
	return p
}

// Gene returns the gene for a trait name.
func (p Profile) Gene(name string) (Gene, bool) {
	g, ok := p.Genes[name]
	return g, ok
}

// Len returns the number of genes.
func (p Profile) Len() int {
	return len(p.Genes)
}

// TraitNames returns trait names in sorted order. All stochastic operations
// iterate in this order so map ordering never changes their outcome.
func (p Profile) TraitNames() []string {
	names := make([]string, 0, len(p.Genes))
	for name := range p.Genes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActiveGenes returns active genes in trait name order.
func (p Profile) ActiveGenes() []Gene {
	out := make([]Gene, 0, len(p.Genes))
	for _, name := range p.TraitNames() {
		if g := p.Genes[name]; g.IsActive {
			out = append(out, g)
		}
	}
	return out
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	c := p
	c.Genes = make(map[string]Gene, len(p.Genes))
	for k, v := range p.Genes {
		c.Genes[k] = v
	}
	c.Mutations = make([]Mutation, len(p.Mutations))
	copy(c.Mutations, p.Mutations)
	return c
}

// RecordMutation appends m and sets its target gene's value to m.NewValue.
// Mutations targeting an unknown trait are ignored; genes are never added,
// removed or renamed.
func (p *Profile) RecordMutation(m Mutation) bool {
	g, ok := p.Genes[m.TargetTraitName]
	if !ok {
		return false
	}
	m.NewValue = Clamp01(m.NewValue)
	g.Value = m.NewValue
	p.Genes[m.TargetTraitName] = g
	p.Mutations = append(p.Mutations, m)
	return true
}
