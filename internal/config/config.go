// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for the analysis pipeline tunables.
const (
	DefaultMaxPaths        = 1_000_000
	DefaultGranularity     = 0.5
	DefaultValuationFactor = 1.3
	DefaultDraws           = 10_000
	DefaultPortfolioSize   = 5
	DefaultTopM            = 20
	DefaultWeightDecimals  = 3
	DefaultSeed            = uint64(1)
)

// Config holds application configuration
type Config struct {
	LogLevel string
	DevMode  bool

	// Scenario tree
	MaxPaths int // fail-fast ceiling on the Cartesian product size

	// Distribution aggregation
	Granularity     float64 // impact bin width
	ValuationFactor float64 // rich/cheap scale factor F

	// Portfolio sampling
	Draws           int    // number of random portfolios
	PortfolioSize   int    // distinct instruments per portfolio
	TopM            int    // size of the top-ranked subset
	WeightDecimals  int    // weight rounding precision
	Seed            uint64 // base seed for the portfolio sampler
	UseFullUniverse bool   // sample from all instruments instead of the non-dominated subset

	// Parallelism
	Workers int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		MaxPaths:        getEnvAsInt("FORESIGHT_MAX_PATHS", DefaultMaxPaths),
		Granularity:     getEnvAsFloat("FORESIGHT_GRANULARITY", DefaultGranularity),
		ValuationFactor: getEnvAsFloat("FORESIGHT_VALUATION_FACTOR", DefaultValuationFactor),
		Draws:           getEnvAsInt("FORESIGHT_DRAWS", DefaultDraws),
		PortfolioSize:   getEnvAsInt("FORESIGHT_PORTFOLIO_SIZE", DefaultPortfolioSize),
		TopM:            getEnvAsInt("FORESIGHT_TOP_M", DefaultTopM),
		WeightDecimals:  getEnvAsInt("FORESIGHT_WEIGHT_DECIMALS", DefaultWeightDecimals),
		Seed:            getEnvAsUint("FORESIGHT_SEED", DefaultSeed),
		UseFullUniverse: getEnvAsBool("FORESIGHT_USE_FULL_UNIVERSE", false),
		Workers:         getEnvAsInt("FORESIGHT_WORKERS", runtime.NumCPU()),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all tunables are in their sane ranges. Returned
// errors are configuration errors and abort the run before any computation.
func (c *Config) Validate() error {
	if c.MaxPaths < 1 {
		return fmt.Errorf("max paths must be positive, got %d", c.MaxPaths)
	}
	if c.Granularity <= 0 {
		return fmt.Errorf("granularity must be positive, got %f", c.Granularity)
	}
	if c.ValuationFactor <= 0 {
		return fmt.Errorf("valuation factor must be positive, got %f", c.ValuationFactor)
	}
	if c.Draws < 1 {
		return fmt.Errorf("draw count must be positive, got %d", c.Draws)
	}
	if c.PortfolioSize < 1 {
		return fmt.Errorf("portfolio size must be positive, got %d", c.PortfolioSize)
	}
	if c.TopM < 1 {
		return fmt.Errorf("top-M must be positive, got %d", c.TopM)
	}
	if c.WeightDecimals < 0 {
		return fmt.Errorf("weight decimals must be non-negative, got %d", c.WeightDecimals)
	}
	if c.Workers < 1 {
		return fmt.Errorf("worker count must be positive, got %d", c.Workers)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
