package genetics

// MutationType classifies how a mutation altered its target gene.
type MutationType string

// Mutation types.
const (
	MutationEnhancement MutationType = "Enhancement"
	MutationSuppression MutationType = "Suppression"
	MutationShift       MutationType = "Shift"
)

// MutationTypes lists the types in the order mutation rolls index into.
var MutationTypes = []MutationType{MutationEnhancement, MutationSuppression, MutationShift}

// Mutation records a single probabilistic alteration to one gene.
type Mutation struct {
	ID              string       `json:"mutation_id" yaml:"mutation_id"`
	TargetTraitName string       `json:"target_trait_name" yaml:"target_trait_name"`
	Type            MutationType `json:"mutation_type" yaml:"mutation_type"`
	// Magnitude is the signed change relative to PreviousValue. Shift picks
	// its sign at random.
	Magnitude     float64 `json:"magnitude" yaml:"magnitude"`
	PreviousValue float64 `json:"previous_value" yaml:"previous_value"`
	NewValue      float64 `json:"new_value" yaml:"new_value"`
}

// NewMutationID draws a mutation identifier from src.
func NewMutationID(src Source) string {
	return newID(src)
}
