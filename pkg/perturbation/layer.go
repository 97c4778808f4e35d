// Package perturbation models thin layers of perturbed density in the ice.
// Part of a ray crossing such a layer at a grazing angle is trapped and
// travels along the layer.
package perturbation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync/atomic"

	"github.com/AlexKyriacou92/RadioPropa/pkg/candidate"
	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
	"github.com/AlexKyriacou92/RadioPropa/pkg/geometry"
)

const (
	DefaultThreshold = 0.01
	DefaultFraction  = 0.023

	// SpawnedProperty marks a candidate that already spawned a trapped ray.
	// The value names the layer and the candidate; clones start unmarked.
	SpawnedProperty = "SpawnedInLayer"
)

var (
	ErrInvalidThickness = errors.New("layer thickness must be positive")
	ErrInvalidThreshold = errors.New("layer threshold must be within [0, 1]")
)

var nextID atomic.Uint64

// Layer is a slab of the given thickness centred on a surface
type Layer struct {
	surface   geometry.Surface
	thickness float64
	threshold float64 // |cos| below which a ray counts as grazing
	fraction  float64 // Amplitude fraction handed to the trapped ray
	tag       string
}

// NewLayer creates a layer around surface
func NewLayer(surface geometry.Surface, thickness float64) (*Layer, error) {
	if surface == nil {
		return nil, errors.New("perturbation: surface is nil")
	}
	if !(thickness > 0) {
		return nil, fmt.Errorf("perturbation: thickness = %g: %w", thickness, ErrInvalidThickness)
	}
	return &Layer{
		surface:   surface,
		thickness: thickness,
		threshold: DefaultThreshold,
		fraction:  DefaultFraction,
		tag:       strconv.FormatUint(nextID.Add(1), 10),
	}, nil
}

// NewHorizontalLayer creates a layer centred on the plane at depth z
func NewHorizontalLayer(z, thickness float64) (*Layer, error) {
	return NewLayer(geometry.NewHorizontalPlane(z), thickness)
}

func (l *Layer) Thickness() float64 { return l.thickness }
func (l *Layer) Threshold() float64 { return l.threshold }
func (l *Layer) Fraction() float64 { return l.fraction }

func (l *Layer) SetThickness(thickness float64) error {
	if !(thickness > 0) {
		return fmt.Errorf("perturbation: thickness = %g: %w", thickness, ErrInvalidThickness)
	}
	l.thickness = thickness
	return nil
}

func (l *Layer) SetThreshold(threshold float64) error {
	if !(threshold >= 0 && threshold <= 1) {
		return fmt.Errorf("perturbation: threshold = %g: %w", threshold, ErrInvalidThreshold)
	}
	l.threshold = threshold
	return nil
}

func (l *Layer) SetFraction(fraction float64) error {
	if !(fraction >= 0 && fraction <= 1) {
		return fmt.Errorf("perturbation: fraction = %g must be within [0, 1]", fraction)
	}
	l.fraction = fraction
	return nil
}

// InLayer reports whether position lies within the slab
func (l *Layer) InLayer(position core.Vec3) bool {
	return math.Abs(l.surface.Distance(position)) <= l.thickness/2
}

// CreatedInLayer reports whether c started inside the slab
func (l *Layer) CreatedInLayer(c *candidate.Candidate) bool {
	return l.InLayer(c.Created.Position)
}

// ParallelToLayer reports whether direction grazes the layer at position
func (l *Layer) ParallelToLayer(position, direction core.Vec3) bool {
	return math.Abs(direction.Dot(l.surface.Normal(position))) < l.threshold
}

// Process traps grazing rays in the layer and keeps trapped rays inside it
func (l *Layer) Process(c *candidate.Candidate) {
	position := c.Current.Position
	if l.InLayer(position) {
		normal := l.surface.Normal(position)
		direction := c.Current.Direction
		along := direction.ProjectOnPlane(normal)

		switch {
		case along.IsZero() || normal.IsZero():
			// Undefined tangent plane; leave the ray alone
		case l.CreatedInLayer(c):
			c.Current.SetDirection(along)
			l.positionCorrection(c, along)
		case l.InLayer(c.Previous.Position) && l.ParallelToLayer(position, direction) && !l.spawnedBy(c):
			secondary := c.Clone(false)
			secondary.Created = c.Current
			secondary.Current.Amplitude = c.Current.Amplitude * l.fraction
			secondary.Current.SetDirection(along)
			l.positionCorrection(secondary, along)
			secondary.LimitNextStep(l.boundaryDistance(secondary.Current.Position))
			c.SetProperty(SpawnedProperty, l.markFor(c))
			c.AddSecondary(secondary)
		}
	}
	c.LimitNextStep(l.boundaryDistance(c.Current.Position))
}

func (l *Layer) spawnedBy(c *candidate.Candidate) bool {
	tag, ok := c.Property(SpawnedProperty)
	return ok && tag == l.markFor(c)
}

func (l *Layer) markFor(c *candidate.Candidate) string {
	return l.tag + ":" + strconv.FormatUint(c.SerialNumber(), 10)
}

// positionCorrection repeats the last step along the new direction.
// The propagation bends the ray slightly off the layer; this undoes it.
func (l *Layer) positionCorrection(c *candidate.Candidate, direction core.Vec3) {
	stepSize := c.Current.Position.Subtract(c.Previous.Position).Length()
	c.Current.Position = c.Current.Position.Add(direction.Normalize().Multiply(stepSize))
}

// boundaryDistance is the distance from position to the nearest slab face
func (l *Layer) boundaryDistance(position core.Vec3) float64 {
	return math.Abs(math.Abs(l.surface.Distance(position)) - l.thickness/2)
}

// Description returns a summary of the configuration
func (l *Layer) Description() string {
	return fmt.Sprintf("Perturbation layer: %s, thickness: %g, threshold: %g, fraction: %g",
		l.surface.Description(), l.thickness, l.threshold, l.fraction)
}
