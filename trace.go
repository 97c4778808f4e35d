package main

import (
	"fmt"
	"io"
	"math"

	"github.com/AlexKyriacou92/RadioPropa/pkg/candidate"
	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
	"github.com/AlexKyriacou92/RadioPropa/pkg/discontinuity"
	"github.com/AlexKyriacou92/RadioPropa/pkg/propagation"
	"github.com/AlexKyriacou92/RadioPropa/pkg/simulation"
	"github.com/spf13/cobra"
)

// newTraceCmd creates the trace command
func newTraceCmd() *cobra.Command {
	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "Trace a ray from the ice through the ice/air surface",
		Long: `Launch a ray from below a horizontal surface at z=0 and propagate it and
every ray split off at the surface.

Examples:
  radiopropa trace --angle 20
  radiopropa trace --angle 45 --surface-mode --depth 5
  radiopropa trace --n1 1.0 --n2 1.5 --angle 0 --fraction 0
  radiopropa trace --angle 80 --layer-depth 2 --layer-thickness 0.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runTrace(cmd, cfg)
		},
	}

	traceCmd.Flags().Float64P("depth", "d", 10, "Depth of the source below the surface in metres")
	traceCmd.Flags().Bool("surface-mode", false, "Spawn rays travelling along the surface on total internal reflection")
	traceCmd.Flags().Float64("fraction", discontinuity.DefaultFraction, "Split threshold and surface ray amplitude fraction")
	traceCmd.Flags().Float64("tolerance", discontinuity.DefaultTolerance, "Width of the surface band in metres")
	traceCmd.Flags().Float64("step", 1.0, "Maximum propagation step in metres")
	traceCmd.Flags().Float64("max-length", 50, "Maximum trajectory length in metres")
	traceCmd.Flags().Float64("min-amplitude", 1e-3, "Rays below this amplitude are dropped")
	traceCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (0 = CPU count)")
	traceCmd.Flags().Int("seed", 1, "Random seed for single-path decisions")
	traceCmd.Flags().Float64("layer-depth", 0, "Depth of a density perturbation layer in metres (0 = none)")
	traceCmd.Flags().Float64("layer-thickness", 1, "Thickness of the perturbation layer in metres")
	return traceCmd
}

func runTrace(cmd *cobra.Command, cfg Config) error {
	surface, err := cfg.CreateDiscontinuity()
	if err != nil {
		return err
	}

	layer, err := cfg.CreateLayer()
	if err != nil {
		return err
	}

	modules := simulation.NewModuleList(propagation.NewLinear(cfg.Step), surface)
	descriptions := []string{surface.Description()}
	if layer != nil {
		modules.Add(layer)
		descriptions = append(descriptions, layer.Description())
	}
	modules.Add(propagation.NewMaximumTrajectoryLength(cfg.MaxLength))
	modules.Add(propagation.NewMinimumAmplitude(cfg.MinAmplitude))

	logger := cfg.Logger()
	logger.Printf("%s", modules.Description())

	runConfig := simulation.DefaultRunConfig()
	runConfig.NumWorkers = cfg.Workers
	runner := simulation.NewRunner(modules, runConfig, logger)

	theta := cfg.Angle * math.Pi / 180
	source := candidate.NewCandidate(candidate.NewParticleState(
		core.NewVec3(0, 0, -cfg.Depth),
		core.NewVec3(math.Sin(theta), 0, math.Cos(theta)),
		1.0,
		1e8,
	))
	source.Sampler = core.NewSeededSampler(cfg.Seed)

	finished, stats, err := runner.Run(cmd.Context(), []*candidate.Candidate{source})
	if err != nil {
		return err
	}

	logger.Printf("Traced %d candidates (%d secondaries, %d steps) in %v\n",
		stats.Candidates, stats.Secondaries, stats.Steps, stats.Duration)
	printCandidates(cmd.OutOrStdout(), finished, descriptions)
	return nil
}

func printCandidates(w io.Writer, candidates []*candidate.Candidate, descriptions []string) {
	for _, d := range descriptions {
		fmt.Fprintf(w, "%s\n", d)
	}
	fmt.Fprintf(w, "%-6s %-8s %-36s %-30s %-10s %s\n", "id", "parent", "position", "direction", "amplitude", "length")
	for _, c := range candidates {
		parent := "-"
		if p := c.Parent(); p != nil {
			parent = fmt.Sprint(p.SerialNumber())
		}
		fmt.Fprintf(w, "%-6d %-8s %-36v %-30v %-10.6f %.3f\n",
			c.SerialNumber(), parent, c.Current.Position, c.Current.Direction, c.Current.Amplitude, c.TrajectoryLength)
	}
}
