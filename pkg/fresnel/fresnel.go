// Package fresnel computes how power splits between the reflected and the
// transmitted ray at a planar interface between two dielectric media.
//
// Amplitude coefficients follow the usual s (perpendicular) and p (parallel)
// polarization conventions. The unpolarized Reflectance and Transmittance are
// the average of the s and p power coefficients.
package fresnel

import "math"

// Result holds the Fresnel coefficients for one incidence
type Result struct {
	// Amplitude coefficients
	Rs, Rp float64
	Ts, Tp float64

	// Power coefficients per polarization
	ReflectanceS, ReflectanceP     float64
	TransmittanceS, TransmittanceP float64

	// Unpolarized power coefficients
	Reflectance   float64
	Transmittance float64

	CosI                    float64 // Cosine of the angle of incidence
	CosT                    float64 // Cosine of the angle of refraction (0 under total internal reflection)
	TotalInternalReflection bool
}

// Coefficients computes the Fresnel coefficients for a ray travelling from a
// medium with index n1 into one with index n2, hitting the interface with
// cosI = cos(angle of incidence). cosI is clamped to [0, 1].
func Coefficients(n1, n2, cosI float64) Result {
	cosI = max(0.0, min(1.0, math.Abs(cosI)))

	// No index change, no interface
	if n1 == n2 {
		return Result{
			Ts: 1, Tp: 1,
			TransmittanceS: 1, TransmittanceP: 1,
			Transmittance: 1,
			CosI:          cosI,
			CosT:          cosI,
		}
	}

	ratio := n1 / n2
	sin2T := ratio * ratio * (1.0 - cosI*cosI)
	if sin2T >= 1.0 {
		return totalInternalReflection(cosI)
	}
	cosT := math.Sqrt(1.0 - sin2T)

	denomS := n1*cosI + n2*cosT
	denomP := n2*cosI + n1*cosT
	if denomS == 0 || denomP == 0 {
		return totalInternalReflection(cosI)
	}

	r := Result{CosI: cosI, CosT: cosT}
	r.Rs = (n1*cosI - n2*cosT) / denomS
	r.Rp = (n2*cosI - n1*cosT) / denomP
	r.Ts = 2 * n1 * cosI / denomS
	r.Tp = 2 * n1 * cosI / denomP

	r.ReflectanceS = r.Rs * r.Rs
	r.ReflectanceP = r.Rp * r.Rp
	// T = (n2 cosT)/(n1 cosI) * t^2, written without the division so grazing
	// incidence (cosI = 0) stays finite
	cross := 4 * n1 * n2 * cosI * cosT
	r.TransmittanceS = cross / (denomS * denomS)
	r.TransmittanceP = cross / (denomP * denomP)

	r.Reflectance = 0.5 * (r.ReflectanceS + r.ReflectanceP)
	r.Transmittance = 0.5 * (r.TransmittanceS + r.TransmittanceP)
	return r
}

func totalInternalReflection(cosI float64) Result {
	return Result{
		Rs: 1, Rp: 1,
		ReflectanceS: 1, ReflectanceP: 1,
		Reflectance:             1,
		CosI:                    cosI,
		TotalInternalReflection: true,
	}
}

// CriticalAngle returns the critical angle in radians for light going from n1
// into n2. The second value is false when n1 <= n2 and no critical angle exists.
func CriticalAngle(n1, n2 float64) (float64, bool) {
	if n1 <= n2 {
		return 0, false
	}
	return math.Asin(n2 / n1), true
}
