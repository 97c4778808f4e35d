package main

import (
	"os"

	"github.com/spf13/cobra"
)

// newRootCmd builds the base command with all subcommands attached
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "radiopropa",
		Short: "Radio ray propagation across refractive index discontinuities",
		Long: `RadioPropa propagates radio rays through ice and splits them at
boundaries where the refractive index jumps, such as the ice/air surface.

It provides commands to:
- Fresnel: print reflection and transmission coefficients for an interface
- Trace: launch a ray at an ice/air surface and list all resulting rays

Configuration can be set via environment variables or command-line flags.`,
		SilenceUsage: true,
	}

	// Interface flags shared by all commands
	rootCmd.PersistentFlags().Float64("n1", 1.78, "Refractive index below the surface (ice)")
	rootCmd.PersistentFlags().Float64("n2", 1.0, "Refractive index above the surface (air)")
	rootCmd.PersistentFlags().Float64P("angle", "a", 30, "Angle of incidence in degrees from the surface normal")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log skipped steps and run statistics")

	rootCmd.AddCommand(newFresnelCmd())
	rootCmd.AddCommand(newTraceCmd())
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
