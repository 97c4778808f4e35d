package main

import (
	"fmt"
	"io"
	"math"

	"github.com/AlexKyriacou92/RadioPropa/pkg/fresnel"
	"github.com/spf13/cobra"
)

// newFresnelCmd creates the fresnel command
func newFresnelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fresnel",
		Short: "Print Fresnel coefficients for an interface",
		Long: `Print the Fresnel amplitude and power coefficients for a ray going from
a medium with index n1 into one with index n2.

Examples:
  radiopropa fresnel --n1 1.78 --n2 1.0 --angle 20
  radiopropa fresnel --n1 1.0 --n2 1.5 --angle 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			if err := cfg.Validate(); err != nil {
				return err
			}
			printCoefficients(cmd.OutOrStdout(), cfg.N1, cfg.N2, cfg.Angle)
			return nil
		},
	}
}

func printCoefficients(w io.Writer, n1, n2, angle float64) {
	r := fresnel.Coefficients(n1, n2, math.Cos(angle*math.Pi/180))

	fmt.Fprintf(w, "n1 = %g, n2 = %g, angle of incidence = %g°\n", n1, n2, angle)
	if critical, ok := fresnel.CriticalAngle(n1, n2); ok {
		fmt.Fprintf(w, "Critical angle: %.4f°\n", critical*180/math.Pi)
	}
	if r.TotalInternalReflection {
		fmt.Fprintln(w, "Total internal reflection")
	} else {
		fmt.Fprintf(w, "Angle of refraction: %.4f°\n", math.Acos(r.CosT)*180/math.Pi)
	}
	fmt.Fprintf(w, "Amplitude:  rs = %+.6f  rp = %+.6f  ts = %+.6f  tp = %+.6f\n", r.Rs, r.Rp, r.Ts, r.Tp)
	fmt.Fprintf(w, "Power:      Rs = %.6f  Rp = %.6f  Ts = %.6f  Tp = %.6f\n",
		r.ReflectanceS, r.ReflectanceP, r.TransmittanceS, r.TransmittanceP)
	fmt.Fprintf(w, "Unpolarized: R = %.6f  T = %.6f\n", r.Reflectance, r.Transmittance)
}
