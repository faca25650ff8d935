package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/labsim"
	"github.com/okian/chimera/pkg/logger"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	discoveryType string
	rarityName    string
	firstTime     bool
	worldFirst    bool
	statValues    map[string]string
	markerNames   []string

	simCfg     labsim.Config
	simOutput  string
	logFormat  string
	simTimeout time.Duration

	rootCmd = &cobra.Command{
		Use:           "chimera-cli",
		Short:         "Tools for the Chimera breeding service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	significanceCmd = &cobra.Command{
		Use:   "significance",
		Short: "Score a discovery from its type, rarity and context",
		RunE:  runSignificance,
	}

	nameCmd = &cobra.Command{
		Use:   "name",
		Short: "Generate the display name of a discovery",
		RunE:  runName,
	}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Run competing labs against a live service and print a YAML report",
		RunE:  runSimulate,
	}
)

func init() {
	significanceCmd.Flags().StringVar(&discoveryType, "type", string(discovery.NewTrait), "Discovery type")
	significanceCmd.Flags().StringVar(&rarityName, "rarity", discovery.Common.String(), "Rarity tier")
	significanceCmd.Flags().BoolVar(&firstTime, "first-time", false, "First time this discoverer found it")
	significanceCmd.Flags().BoolVar(&worldFirst, "world-first", false, "First time anyone found it")

	nameCmd.Flags().StringVar(&discoveryType, "type", string(discovery.NewTrait), "Discovery type")
	nameCmd.Flags().StringToStringVar(&statValues, "stats", nil,
		"Stat values, e.g. strength=80,agility=95")
	nameCmd.Flags().StringSliceVar(&markerNames, "markers", nil,
		"Special markers, e.g. Bioluminescent,PackLeader")

	simulateCmd.Flags().StringVar(&simCfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	simulateCmd.Flags().IntVar(&simCfg.Labs, "labs", labsim.DefaultLabs, "Number of competing labs")
	simulateCmd.Flags().IntVar(&simCfg.FoundersPerSpecies, "founders", labsim.DefaultFoundersPerSpecies, "Founders per species per lab")
	simulateCmd.Flags().IntVar(&simCfg.Generations, "generations", labsim.DefaultGenerations, "Breeding rounds")
	simulateCmd.Flags().IntVar(&simCfg.BreedingsPerRound, "breedings", labsim.DefaultBreedingsPerRound, "Breedings per lab per round")
	simulateCmd.Flags().IntVar(&simCfg.Workers, "workers", labsim.DefaultWorkers, "Concurrent HTTP workers")
	simulateCmd.Flags().IntVar(&simCfg.TopN, "top", labsim.DefaultTopN, "Board entries to include in the report")
	simulateCmd.Flags().Uint64Var(&simCfg.Seed, "seed", 1, "Seed for pairing and breeding seeds")
	simulateCmd.Flags().DurationVar(&simCfg.Timeout, "request-timeout", labsim.DefaultTimeout, "HTTP request timeout")
	simulateCmd.Flags().DurationVar(&simTimeout, "timeout", 10*time.Minute, "Overall run timeout")
	simulateCmd.Flags().StringVarP(&simOutput, "output", "o", "", "Write the report to a file instead of stdout")
	simulateCmd.Flags().StringVar(&logFormat, "log-format", logger.FormatText, "Log format: text or json")

	rootCmd.AddCommand(significanceCmd, nameCmd, simulateCmd)
}

func parseType() (discovery.Type, error) {
	t, ok := discovery.ParseType(discoveryType)
	if !ok {
		return t, fmt.Errorf("unknown discovery type %q", discoveryType)
	}
	return t, nil
}

func runSignificance(cmd *cobra.Command, _ []string) error {
	t, err := parseType()
	if err != nil {
		return err
	}
	r, ok := discovery.ParseRarity(rarityName)
	if !ok {
		return fmt.Errorf("unknown rarity %q", rarityName)
	}
	score := discovery.CalculateSignificance(t, r, firstTime, worldFirst)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%g\n", score)
	return err
}

func runName(cmd *cobra.Command, _ []string) error {
	t, err := parseType()
	if err != nil {
		return err
	}
	stats, err := statsFromFlags(statValues)
	if err != nil {
		return err
	}
	var markers discovery.Marker
	for _, n := range markerNames {
		m, ok := discovery.ParseMarker(strings.TrimSpace(n))
		if !ok {
			return fmt.Errorf("unknown marker %q", n)
		}
		markers = markers.Add(m)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), discovery.GenerateDiscoveryName(t, stats, markers))
	return err
}

func statsFromFlags(values map[string]string) (discovery.Stats, error) {
	var s discovery.Stats
	fields := map[string]*float64{
		"strength":     &s.Strength,
		"vitality":     &s.Vitality,
		"agility":      &s.Agility,
		"intelligence": &s.Intelligence,
		"adaptability": &s.Adaptability,
		"social":       &s.Social,
	}
	for k, v := range values {
		dst, ok := fields[strings.ToLower(k)]
		if !ok {
			return s, fmt.Errorf("unknown stat %q", k)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, fmt.Errorf("stat %s: %w", k, err)
		}
		*dst = f
	}
	return s, nil
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	// logs go to stderr so stdout stays a clean YAML document
	if err := logger.Init(logger.WithFormat(logFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, simTimeout)
	defer cancel()

	report, err := labsim.Run(ctx, simCfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if simOutput != "" {
		f, err := os.Create(simOutput)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return labsim.WriteReport(out, report)
}
