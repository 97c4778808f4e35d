package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
	"github.com/AlexKyriacou92/RadioPropa/pkg/discontinuity"
	"github.com/AlexKyriacou92/RadioPropa/pkg/geometry"
	"github.com/AlexKyriacou92/RadioPropa/pkg/perturbation"
	"github.com/spf13/cobra"
)

// Config holds application configuration
type Config struct {
	N1, N2       float64
	Angle        float64 // Degrees from the surface normal
	Depth        float64 // Depth of the source below the surface in metres
	SurfaceMode  bool
	Fraction     float64
	Tolerance    float64
	Step         float64
	MaxLength    float64
	MinAmplitude float64
	Workers      int
	Seed         int64
	Verbose      bool

	LayerDepth     float64 // Depth of a perturbation layer in metres; zero disables it
	LayerThickness float64
}

// LoadConfig loads configuration from environment variables and command flags
// Flags take precedence over environment variables
func LoadConfig(cmd *cobra.Command) Config {
	cfg := Config{}

	cfg.N1 = getConfigFloat(cmd, "n1", "RADIOPROPA_N1", 1.78)
	cfg.N2 = getConfigFloat(cmd, "n2", "RADIOPROPA_N2", 1.0)
	cfg.Angle = getConfigFloat(cmd, "angle", "RADIOPROPA_ANGLE", 30)
	cfg.Depth = getConfigFloat(cmd, "depth", "RADIOPROPA_DEPTH", 10)
	cfg.SurfaceMode = getConfigBool(cmd, "surface-mode", "RADIOPROPA_SURFACE_MODE", false)
	cfg.Fraction = getConfigFloat(cmd, "fraction", "RADIOPROPA_FRACTION", discontinuity.DefaultFraction)
	cfg.Tolerance = getConfigFloat(cmd, "tolerance", "RADIOPROPA_TOLERANCE", discontinuity.DefaultTolerance)
	cfg.Step = getConfigFloat(cmd, "step", "RADIOPROPA_STEP", 1.0)
	cfg.MaxLength = getConfigFloat(cmd, "max-length", "RADIOPROPA_MAX_LENGTH", 50)
	cfg.MinAmplitude = getConfigFloat(cmd, "min-amplitude", "RADIOPROPA_MIN_AMPLITUDE", 1e-3)
	cfg.Workers = getConfigInt(cmd, "workers", "RADIOPROPA_WORKERS", 0)
	cfg.Seed = int64(getConfigInt(cmd, "seed", "RADIOPROPA_SEED", 1))
	cfg.Verbose = getConfigBool(cmd, "verbose", "RADIOPROPA_VERBOSE", false)
	cfg.LayerDepth = getConfigFloat(cmd, "layer-depth", "RADIOPROPA_LAYER_DEPTH", 0)
	cfg.LayerThickness = getConfigFloat(cmd, "layer-thickness", "RADIOPROPA_LAYER_THICKNESS", 1)

	return cfg
}

// Logger returns the logger matching the verbosity
func (c *Config) Logger() core.Logger {
	if c.Verbose {
		return core.NewDefaultLogger()
	}
	return core.NopLogger{}
}

// CreateDiscontinuity creates the ice/air surface at z=0 from the configuration
func (c *Config) CreateDiscontinuity() (*discontinuity.Discontinuity, error) {
	d, err := discontinuity.NewDiscontinuityWithConfig(discontinuity.Config{
		Surface:     geometry.NewHorizontalPlane(0),
		N1:          c.N1,
		N2:          c.N2,
		SurfaceMode: c.SurfaceMode,
		Fraction:    c.Fraction,
		Tolerance:   c.Tolerance,
	})
	if err != nil {
		return nil, err
	}
	d.SetLogger(c.Logger())
	return d, nil
}

// CreateLayer creates the perturbation layer below the surface, or returns
// nil if none is configured
func (c *Config) CreateLayer() (*perturbation.Layer, error) {
	if c.LayerDepth == 0 {
		return nil, nil
	}
	layer, err := perturbation.NewHorizontalLayer(-c.LayerDepth, c.LayerThickness)
	if err != nil {
		return nil, err
	}
	if err := layer.SetFraction(c.Fraction); err != nil {
		return nil, err
	}
	return layer, nil
}

// Validate checks the values the library does not validate itself
func (c *Config) Validate() error {
	if c.Angle < 0 || c.Angle >= 90 {
		return fmt.Errorf("angle must be in [0, 90) degrees, got %g", c.Angle)
	}
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %g", c.Step)
	}
	if c.MaxLength <= 0 {
		return fmt.Errorf("max-length must be positive, got %g", c.MaxLength)
	}
	if c.LayerDepth < 0 {
		return fmt.Errorf("layer-depth must not be negative, got %g", c.LayerDepth)
	}
	return nil
}

// getConfigFloat gets a float64 value from flag, then env, then default
func getConfigFloat(cmd *cobra.Command, flagName, envName string, defaultValue float64) float64 {
	// Check if flag was explicitly set
	if flag := cmd.Flags().Lookup(flagName); flag != nil && flag.Changed {
		val, _ := cmd.Flags().GetFloat64(flagName)
		return val
	}

	// Check environment variable
	if v := os.Getenv(envName); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}

	// Use default
	return defaultValue
}

// getConfigInt gets an int value from flag, then env, then default
func getConfigInt(cmd *cobra.Command, flagName, envName string, defaultValue int) int {
	if flag := cmd.Flags().Lookup(flagName); flag != nil && flag.Changed {
		val, _ := cmd.Flags().GetInt(flagName)
		return val
	}

	if v := os.Getenv(envName); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return defaultValue
}

// getConfigBool gets a bool value from flag, then env, then default
func getConfigBool(cmd *cobra.Command, flagName, envName string, defaultValue bool) bool {
	if flag := cmd.Flags().Lookup(flagName); flag != nil && flag.Changed {
		val, _ := cmd.Flags().GetBool(flagName)
		return val
	}

	if v := os.Getenv(envName); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}

	return defaultValue
}
