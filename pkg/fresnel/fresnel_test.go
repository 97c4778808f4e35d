package fresnel

import (
	"math"
	"testing"
)

func TestCoefficients_EnergyConservation(t *testing.T) {
	indices := []struct {
		name   string
		n1, n2 float64
	}{
		{"air to glass", 1.0, 1.5},
		{"air to ice", 1.0, 1.78},
		{"ice to water", 1.78, 9.0},
		{"ice to air below critical", 1.78, 1.0},
	}

	for _, idx := range indices {
		t.Run(idx.name, func(t *testing.T) {
			for deg := 0.0; deg < 90.0; deg += 0.5 {
				r := Coefficients(idx.n1, idx.n2, math.Cos(deg*math.Pi/180))
				sum := r.Reflectance + r.Transmittance
				if math.Abs(sum-1.0) > 1e-12 {
					t.Fatalf("θ=%.1f°: R+T = %.15f, expected 1", deg, sum)
				}
				if r.Reflectance < 0 || r.Transmittance < 0 {
					t.Fatalf("θ=%.1f°: negative coefficient R=%f T=%f", deg, r.Reflectance, r.Transmittance)
				}
			}
		})
	}
}

func TestCoefficients_NormalIncidence(t *testing.T) {
	r := Coefficients(1.0, 1.5, 1.0)

	expected := math.Pow((1.5-1.0)/(1.5+1.0), 2)
	if math.Abs(r.Reflectance-expected) > 1e-12 {
		t.Errorf("Expected reflectance %f, got %f", expected, r.Reflectance)
	}
	if math.Abs(r.Reflectance-0.04) > 1e-12 {
		t.Errorf("Expected reflectance 0.04, got %f", r.Reflectance)
	}
	// At normal incidence both polarizations agree
	if math.Abs(r.ReflectanceS-r.ReflectanceP) > 1e-12 {
		t.Errorf("Rs=%f and Rp=%f should agree at normal incidence", r.ReflectanceS, r.ReflectanceP)
	}
	if math.Abs(r.CosT-1.0) > 1e-12 {
		t.Errorf("Expected no bending at normal incidence, cosT=%f", r.CosT)
	}
}

func TestCoefficients_TotalInternalReflection(t *testing.T) {
	n1, n2 := 1.78, 1.0
	critical, ok := CriticalAngle(n1, n2)
	if !ok {
		t.Fatal("Expected a critical angle for n1 > n2")
	}

	for _, offset := range []float64{1e-6, 0.01, 0.2, 0.5} {
		theta := critical + offset
		if theta >= math.Pi/2 {
			continue
		}
		r := Coefficients(n1, n2, math.Cos(theta))
		if !r.TotalInternalReflection {
			t.Errorf("θ=%f: expected total internal reflection", theta)
		}
		if r.Reflectance != 1 || r.Transmittance != 0 {
			t.Errorf("θ=%f: expected R=1, T=0 exactly, got R=%v T=%v", theta, r.Reflectance, r.Transmittance)
		}
	}

	// Just below the critical angle something is transmitted
	r := Coefficients(n1, n2, math.Cos(critical-0.01))
	if r.TotalInternalReflection || r.Transmittance <= 0 {
		t.Errorf("Expected partial transmission below the critical angle, got %+v", r)
	}
}

func TestCoefficients_EqualIndices(t *testing.T) {
	for _, deg := range []float64{0, 30, 60, 89} {
		r := Coefficients(1.33, 1.33, math.Cos(deg*math.Pi/180))
		if r.Reflectance != 0 || r.Transmittance != 1 {
			t.Errorf("θ=%.0f°: expected R=0, T=1 exactly, got R=%v T=%v", deg, r.Reflectance, r.Transmittance)
		}
	}
}

func TestCoefficients_BrewsterAngle(t *testing.T) {
	n1, n2 := 1.0, 1.5
	brewster := math.Atan(n2 / n1)

	r := Coefficients(n1, n2, math.Cos(brewster))
	if r.ReflectanceP > 1e-12 {
		t.Errorf("Expected no p-polarized reflection at Brewster's angle, got %e", r.ReflectanceP)
	}
	if r.ReflectanceS <= 0 {
		t.Error("Expected s-polarized reflection at Brewster's angle")
	}
}

func TestCriticalAngle_NoneForDenserTarget(t *testing.T) {
	if _, ok := CriticalAngle(1.0, 1.5); ok {
		t.Error("No critical angle expected when going into a denser medium")
	}
}
