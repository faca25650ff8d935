// Package labsim drives a running breeding service over HTTP the way a set
// of competing labs would: seed founders, breed them for several rounds and
// check the discovery board that results.
package labsim

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL            string        // Base URL of the service
	Labs               int           // Number of competing labs
	FoundersPerSpecies int           // Founders each lab creates per species
	Generations        int           // Breeding rounds
	BreedingsPerRound  int           // Breedings each lab submits per round
	Workers            int           // Concurrent HTTP workers
	TopN               int           // Board entries to fetch at the end
	Seed               uint64        // Seed for pairing and breeding seeds
	Timeout            time.Duration // HTTP request timeout
	PollInterval       time.Duration // Delay between breeding status polls
}

// Defaults for zero valued Config fields.
const (
	DefaultLabs               = 4
	DefaultFoundersPerSpecies = 2
	DefaultGenerations        = 3
	DefaultBreedingsPerRound  = 5
	DefaultWorkers            = 8
	DefaultTopN               = 20
	DefaultTimeout            = 10 * time.Second
	DefaultPollInterval       = 10 * time.Millisecond
)

func (c Config) withDefaults() Config {
	if c.Labs < 1 {
		c.Labs = DefaultLabs
	}
	if c.FoundersPerSpecies < 1 {
		c.FoundersPerSpecies = DefaultFoundersPerSpecies
	}
	if c.Generations < 1 {
		c.Generations = DefaultGenerations
	}
	if c.BreedingsPerRound < 1 {
		c.BreedingsPerRound = DefaultBreedingsPerRound
	}
	if c.Workers < 1 {
		c.Workers = DefaultWorkers
	}
	if c.TopN < 1 {
		c.TopN = DefaultTopN
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// Entry is a discovery board row as served by GET /discoveries.
type Entry struct {
	Rank         int     `json:"rank" yaml:"rank"`
	DiscoveryID  string  `json:"discovery_id" yaml:"discovery_id"`
	Name         string  `json:"name" yaml:"name"`
	Type         string  `json:"type" yaml:"type"`
	Rarity       string  `json:"rarity" yaml:"rarity"`
	Significance float64 `json:"significance" yaml:"significance"`
	DiscovererID string  `json:"discoverer_id" yaml:"discoverer_id"`
	IsWorldFirst bool    `json:"is_world_first" yaml:"is_world_first"`
}

// Report summarizes a run.
type Report struct {
	BaseURL       string         `yaml:"base_url"`
	Labs          int            `yaml:"labs"`
	Generations   int            `yaml:"generations"`
	Founders      int            `yaml:"founders"`
	Submitted     int            `yaml:"submitted"`
	Duplicates    int            `yaml:"duplicates"`
	Completed     int            `yaml:"completed"`
	Failed        int            `yaml:"failed"`
	Discoveries   int            `yaml:"discoveries"`
	MaxGeneration int            `yaml:"max_generation"`
	PerLab        map[string]int `yaml:"discoveries_per_lab"`
	Significance  Summary        `yaml:"significance"`
	Duration      string         `yaml:"duration"`
	Top           []Entry        `yaml:"top"`
}

// Summary describes the significance spread on the fetched board.
type Summary struct {
	Mean   float64 `yaml:"mean"`
	Median float64 `yaml:"median"`
	Max    float64 `yaml:"max"`
}
