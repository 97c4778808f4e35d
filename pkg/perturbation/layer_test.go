package perturbation

import (
	"errors"
	"math"
	"testing"

	"github.com/AlexKyriacou92/RadioPropa/pkg/candidate"
	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
)

// grazingRay returns a ray that entered the layer at z=-100 from far below
func grazingRay() *candidate.Candidate {
	c := candidate.NewCandidate(candidate.NewParticleState(core.NewVec3(1, 0, -100.199), core.NewVec3(1, 0, 0.001), 1.0, 1e8))
	c.Previous.Position = core.NewVec3(0, 0, -100.2)
	c.Created.Position = core.NewVec3(-500, 0, -200)
	return c
}

func TestNewLayer_Validation(t *testing.T) {
	if _, err := NewHorizontalLayer(-100, 0); !errors.Is(err, ErrInvalidThickness) {
		t.Errorf("Expected ErrInvalidThickness, got %v", err)
	}
	if _, err := NewLayer(nil, 1); err == nil {
		t.Error("Expected error for nil surface")
	}
}

func TestLayer_SpawnsTrappedRay(t *testing.T) {
	layer, err := NewHorizontalLayer(-100, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	c := grazingRay()

	layer.Process(c)

	secondaries := c.Secondaries()
	if len(secondaries) != 1 {
		t.Fatalf("Expected 1 trapped ray, got %d", len(secondaries))
	}
	s := secondaries[0]
	if math.Abs(s.Current.Amplitude-DefaultFraction) > 1e-12 {
		t.Errorf("Expected amplitude %f, got %f", DefaultFraction, s.Current.Amplitude)
	}
	if s.Current.Direction != core.NewVec3(1, 0, 0) {
		t.Errorf("Trapped ray should travel along the layer, got %v", s.Current.Direction)
	}
	if !layer.CreatedInLayer(s) {
		t.Error("Trapped ray should be created in the layer")
	}
	if layer.CreatedInLayer(c) {
		t.Error("Primary was not created in the layer")
	}

	// The primary spawns only once
	layer.Process(c)
	if len(c.Secondaries()) != 1 {
		t.Errorf("Expected no further spawns, got %d secondaries", len(c.Secondaries()))
	}
}

func TestLayer_CloneOfSpawningRaySpawnsAgain(t *testing.T) {
	layer, err := NewHorizontalLayer(-100, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	c := grazingRay()
	layer.Process(c)
	if len(c.Secondaries()) != 1 {
		t.Fatalf("Expected 1 trapped ray, got %d", len(c.Secondaries()))
	}

	// A fresh clone crossing the layer gets its own trapped ray
	clone := c.Clone(false)
	layer.Process(clone)
	if len(clone.Secondaries()) != 1 {
		t.Errorf("Expected the clone to spawn 1 trapped ray, got %d", len(clone.Secondaries()))
	}
	layer.Process(clone)
	if len(clone.Secondaries()) != 1 {
		t.Errorf("Clone should spawn only once, got %d", len(clone.Secondaries()))
	}
}

func TestLayer_SetThreshold(t *testing.T) {
	layer, err := NewHorizontalLayer(-100, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, threshold := range []float64{-0.1, 1.5, math.NaN()} {
		if err := layer.SetThreshold(threshold); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("Expected ErrInvalidThreshold for %g, got %v", threshold, err)
		}
	}
	if layer.Threshold() != DefaultThreshold {
		t.Errorf("Threshold should be unchanged, got %g", layer.Threshold())
	}
	if err := layer.SetThreshold(0.05); err != nil || layer.Threshold() != 0.05 {
		t.Errorf("Expected threshold 0.05, got %g (%v)", layer.Threshold(), err)
	}
}

func TestLayer_KeepsTrappedRayParallel(t *testing.T) {
	layer, err := NewHorizontalLayer(-100, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	c := candidate.NewCandidate(candidate.NewParticleState(core.NewVec3(0, 0, -100), core.NewVec3(1, 0, -0.01), 0.1, 1e8))
	c.Previous.Position = core.NewVec3(-1, 0, -100)

	layer.Process(c)

	if c.Current.Direction != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected direction along the layer, got %v", c.Current.Direction)
	}
	if math.Abs(c.Current.Position.X-1) > 1e-12 || c.Current.Position.Z != -100 {
		t.Errorf("Expected position moved one step along the layer, got %v", c.Current.Position)
	}
}

func TestLayer_SteepRayUntouched(t *testing.T) {
	layer, err := NewHorizontalLayer(-100, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	c := grazingRay()
	c.Current.SetDirection(core.NewVec3(1, 0, 1))

	layer.Process(c)
	if len(c.Secondaries()) != 0 {
		t.Error("Steep ray should not be trapped")
	}
}

func TestLayer_LimitsStepToBoundary(t *testing.T) {
	layer, err := NewHorizontalLayer(-100, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	c := candidate.NewCandidate(candidate.NewParticleState(core.NewVec3(0, 0, -90), core.NewVec3(0, 0, -1), 1, 1e8))

	layer.Process(c)
	if math.Abs(c.NextStep()-9.5) > 1e-12 {
		t.Errorf("Expected next step 9.5, got %f", c.NextStep())
	}
}
