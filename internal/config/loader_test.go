package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/chimera/internal/config"
	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.Species, convey.ShouldHaveLength, 3)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CHIMERA_ADDR", ":8080")
			_ = os.Setenv("CHIMERA_QUEUE_SIZE", "500")
			_ = os.Setenv("CHIMERA_WORKER_COUNT", "16")
			_ = os.Setenv("CHIMERA_MUTATION_RATE", "0.05")
			_ = os.Setenv("CHIMERA_MUTATION_DISTRIBUTION", "normal")
			_ = os.Setenv("CHIMERA_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.MutationRate, convey.ShouldEqual, 0.05)
				convey.So(cfg.MutationDistribution, convey.ShouldEqual, "normal")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 300
worker_count: 4
blend_variance: 0.1
legendary_generation: 6
species:
  Fox:
    - trait: Agility
      type: Physical
      value: 0.9
      dominance: 0.6
    - trait: Bioluminescence
      type: Magical
      value: 0.4
      dominance: 0.2
      carrier: true
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CHIMERA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.BlendVariance, convey.ShouldEqual, 0.1)
				convey.So(cfg.LegendaryGeneration, convey.ShouldEqual, 6)
			})

			convey.Convey("Then file species replace the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Species, convey.ShouldHaveLength, 1)
				genes, ok := cfg.Template("Fox")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(genes, convey.ShouldHaveLength, 2)
				convey.So(genes[0].TraitType, convey.ShouldEqual, genetics.TraitPhysical)
				convey.So(genes[1].IsActive, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 300
worker_count: 24
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CHIMERA_CONFIG", tmpFile)
			_ = os.Setenv("CHIMERA_ADDR", ":8080")
			_ = os.Setenv("CHIMERA_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
				convey.So(cfg.Species, convey.ShouldHaveLength, 3)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CHIMERA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CHIMERA_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CHIMERA_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Addr")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with zero sizes", func() {
			_ = os.Setenv("CHIMERA_QUEUE_SIZE", "0")
			_ = os.Setenv("CHIMERA_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CHIMERA_QUEUE_SIZE", "invalid")
			_ = os.Setenv("CHIMERA_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# This is a comment
addr: ":9090"  # Inline comment
mutation_rate: 0.1
# Another comment
dedupe_size: 600
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CHIMERA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MutationRate, convey.ShouldEqual, 0.1)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 600)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"CHIMERA_CONFIG",
		"CHIMERA_ADDR",
		"CHIMERA_QUEUE_SIZE",
		"CHIMERA_WORKER_COUNT",
		"CHIMERA_MUTATION_RATE",
		"CHIMERA_MUTATION_DISTRIBUTION",
		"CHIMERA_LOG_FORMAT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "chimera-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
