package discovery

var namePrefix = map[Type]string{
	NewTrait:         "Novel",
	RareMutation:     "Mutant",
	SpecialMarker:    "Marked",
	PerfectGenetics:  "Perfect",
	NewSpecies:       "Primordial",
	LegendaryLineage: "Legendary",
}

// descriptors follow the tie-break order of Stats.Values.
var descriptors = []string{"Mighty", "Hardy", "Swift", "Genius", "Adaptive", "Charismatic"}

var markerSuffix = map[Marker]string{
	Bioluminescent:    " Lumina",
	ElementalAffinity: " Elemental",
	RareLineage:       " Prime",
	HybridVigor:       " Hybrid",
	PackLeader:        " Alpha",
}

// GenerateDiscoveryName builds "{prefix} {descriptor}{suffix}". The
// descriptor names the highest canonical stat, ties going to the earlier of
// Strength, Vitality, Agility, Intelligence, Adaptability, Social. The suffix
// comes from the first set marker in MarkerOrder.
func GenerateDiscoveryName(t Type, stats Stats, markers Marker) string {
	prefix, ok := namePrefix[t]
	if !ok {
		prefix = "Unknown"
	}

	values := stats.Values()
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}

	suffix := ""
	for _, m := range MarkerOrder {
		if markers.Has(m) {
			suffix = markerSuffix[m]
			break
		}
	}

	return prefix + " " + descriptors[best] + suffix
}
