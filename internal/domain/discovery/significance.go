package discovery

// Scoring tables.
var (
	rarityBaseScore = map[Rarity]float64{
		Common:    10,
		Uncommon:  25,
		Rare:      50,
		Epic:      100,
		Legendary: 250,
		Mythical:  500,
	}

	typeMultiplier = map[Type]float64{
		NewTrait:         1.0,
		RareMutation:     1.5,
		SpecialMarker:    2.0,
		PerfectGenetics:  3.0,
		NewSpecies:       5.0,
		LegendaryLineage: 10.0,
	}
)

// Context bonuses. They add to each other rather than multiply.
const (
	baseContextBonus   = 1.0
	firstTimeBonus     = 0.5
	worldFirstBonus    = 2.0
	fallbackBaseScore  = 10.0
	fallbackMultiplier = 1.0
)

// CalculateSignificance scores a discovery as base(rarity) * multiplier(type)
// * context bonus. Unknown enum values score like a Common NewTrait.
func CalculateSignificance(t Type, r Rarity, isFirstTime, isWorldFirst bool) float64 {
	base, ok := rarityBaseScore[r]
	if !ok {
		base = fallbackBaseScore
	}
	mult, ok := typeMultiplier[t]
	if !ok {
		mult = fallbackMultiplier
	}

	bonus := baseContextBonus
	if isFirstTime {
		bonus += firstTimeBonus
	}
	if isWorldFirst {
		bonus += worldFirstBonus
	}
	return base * mult * bonus
}

// Rarity score cutoffs; a score at or above cutoff i maps to tier i+1.
var rarityCutoffs = []float64{0.5, 0.65, 0.75, 0.85, 0.95}

// ClassifyRarity maps a normalized outcome score to a tier.
func ClassifyRarity(score float64) Rarity {
	r := Common
	for i, cutoff := range rarityCutoffs {
		if score >= cutoff {
			r = Rarity(i + 1)
		}
	}
	return r
}
