// Package discontinuity implements the pipeline stage that splits rays at a
// jump in refractive index, e.g. the ice/air boundary at the surface of a
// glacier.
//
// The side of the surface with negative signed distance has index n1, the
// other side n2. Fresnel coefficients are computed for unpolarized radiation,
// i.e. as the average of the s and p polarized power coefficients.
package discontinuity

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/AlexKyriacou92/RadioPropa/pkg/candidate"
	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
	"github.com/AlexKyriacou92/RadioPropa/pkg/fresnel"
	"github.com/AlexKyriacou92/RadioPropa/pkg/geometry"
)

const (
	DefaultFraction  = 0.023 // Default split threshold and surface ray amplitude fraction
	DefaultTolerance = 0.01  // Default width of the "at surface" band in metres

	// InteractionProperty tags candidates produced at a discontinuity.
	// Its value identifies the stage and the tagged candidate, so clones
	// never pass for a candidate the stage produced.
	InteractionProperty = "CreatedAtDiscontinuity"
)

var (
	ErrNilSurface       = errors.New("surface is nil")
	ErrInvalidIndex     = errors.New("refractive index must be positive")
	ErrInvalidFraction  = errors.New("fraction must be within [0, 1]")
	ErrInvalidTolerance = errors.New("tolerance must be positive")
)

var nextID atomic.Uint64

// Outcome describes what a call to Interact did to the candidate
type Outcome int

const (
	NoInteraction Outcome = iota
	Reflected             // Candidate follows the reflected ray
	Transmitted           // Candidate follows the refracted ray
	Split                 // Candidate transmits, a secondary carries the reflection
	SurfaceGuided         // Candidate kept travelling along the surface
)

func (o Outcome) String() string {
	switch o {
	case NoInteraction:
		return "none"
	case Reflected:
		return "reflected"
	case Transmitted:
		return "transmitted"
	case Split:
		return "split"
	case SurfaceGuided:
		return "surface guided"
	default:
		return "Outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// Config holds the construction parameters of a Discontinuity
type Config struct {
	Surface     geometry.Surface
	N1, N2      float64 // Index on the negative / positive side of the surface
	SurfaceMode bool    // Spawn and guide rays travelling along the surface
	Fraction    float64 // Split threshold, and amplitude fraction of surface rays
	Tolerance   float64 // Width of the surface band; zero selects DefaultTolerance
}

// DefaultConfig returns the configuration used by NewDiscontinuity
func DefaultConfig(surface geometry.Surface, n1, n2 float64) Config {
	return Config{
		Surface:   surface,
		N1:        n1,
		N2:        n2,
		Fraction:  DefaultFraction,
		Tolerance: DefaultTolerance,
	}
}

// Discontinuity is a surface across which the refractive index changes.
//
// Process is safe to call concurrently for different candidates. SetFraction
// and SetSurfaceMode must not race with Process.
type Discontinuity struct {
	surface     geometry.Surface
	n1, n2      float64
	fraction    float64
	surfaceMode bool
	tolerance   float64
	tag         string
	logger      core.Logger
}

// NewDiscontinuity creates a discontinuity with the default fraction and
// tolerance and surface mode disabled
func NewDiscontinuity(surface geometry.Surface, n1, n2 float64) (*Discontinuity, error) {
	return NewDiscontinuityWithConfig(DefaultConfig(surface, n1, n2))
}

// NewDiscontinuityWithConfig creates a discontinuity from cfg
func NewDiscontinuityWithConfig(cfg Config) (*Discontinuity, error) {
	if cfg.Surface == nil {
		return nil, fmt.Errorf("discontinuity: %w", ErrNilSurface)
	}
	if !(cfg.N1 > 0) || math.IsInf(cfg.N1, 0) {
		return nil, fmt.Errorf("discontinuity: n1 = %g: %w", cfg.N1, ErrInvalidIndex)
	}
	if !(cfg.N2 > 0) || math.IsInf(cfg.N2, 0) {
		return nil, fmt.Errorf("discontinuity: n2 = %g: %w", cfg.N2, ErrInvalidIndex)
	}
	if !validFraction(cfg.Fraction) {
		return nil, fmt.Errorf("discontinuity: fraction = %g: %w", cfg.Fraction, ErrInvalidFraction)
	}
	tolerance := cfg.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}
	if !(tolerance > 0) || math.IsInf(tolerance, 0) {
		return nil, fmt.Errorf("discontinuity: tolerance = %g: %w", cfg.Tolerance, ErrInvalidTolerance)
	}

	return &Discontinuity{
		surface:     cfg.Surface,
		n1:          cfg.N1,
		n2:          cfg.N2,
		fraction:    cfg.Fraction,
		surfaceMode: cfg.SurfaceMode,
		tolerance:   tolerance,
		tag:         strconv.FormatUint(nextID.Add(1), 10),
		logger:      core.NopLogger{},
	}, nil
}

func validFraction(f float64) bool {
	return f >= 0 && f <= 1
}

// Surface returns the shared surface
func (d *Discontinuity) Surface() geometry.Surface { return d.surface }

// N1 returns the index on the negative side of the surface
func (d *Discontinuity) N1() float64 { return d.n1 }

// N2 returns the index on the positive side of the surface
func (d *Discontinuity) N2() float64 { return d.n2 }

// Tolerance returns the width of the surface band
func (d *Discontinuity) Tolerance() float64 { return d.tolerance }

// Fraction returns the split threshold
func (d *Discontinuity) Fraction() float64 { return d.fraction }

// SetFraction updates the split threshold. Values outside [0, 1] are
// rejected and leave the fraction unchanged.
func (d *Discontinuity) SetFraction(fraction float64) error {
	if !validFraction(fraction) {
		return fmt.Errorf("discontinuity: fraction = %g: %w", fraction, ErrInvalidFraction)
	}
	d.fraction = fraction
	return nil
}

// SurfaceMode reports whether surface rays are spawned and guided
func (d *Discontinuity) SurfaceMode() bool { return d.surfaceMode }

// SetSurfaceMode toggles surface mode for all subsequent calls to Process
func (d *Discontinuity) SetSurfaceMode(mode bool) {
	d.surfaceMode = mode
}

// SetLogger sets the logger used to report skipped degenerate steps
func (d *Discontinuity) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	d.logger = logger
}

// Description returns a summary of the configuration
func (d *Discontinuity) Description() string {
	return fmt.Sprintf("Discontinuity: %s, n1: %g, n2: %g, fraction: %g, surface mode: %t, tolerance: %g",
		d.surface.Description(), d.n1, d.n2, d.fraction, d.surfaceMode, d.tolerance)
}

// AtSurface reports whether position lies within the tolerance band
func (d *Discontinuity) AtSurface(position core.Vec3) bool {
	return math.Abs(d.surface.Distance(position)) <= d.tolerance
}

// ParallelToSurface reports whether direction grazes the surface at
// position, i.e. |cos| of the angle to the normal is below the tolerance.
// Degenerate directions or normals are never parallel.
func (d *Discontinuity) ParallelToSurface(position, direction core.Vec3) bool {
	normal, ok := d.normalAt(position)
	if !ok || !validDirection(direction) {
		return false
	}
	return math.Abs(direction.Normalize().Dot(normal)) < d.tolerance
}

// CreatedAtSurface reports whether the most recent discontinuity interaction
// of c happened at this surface and c has not left the surface band since
func (d *Discontinuity) CreatedAtSurface(c *candidate.Candidate) bool {
	tag, ok := c.Property(InteractionProperty)
	return ok && tag == d.markFor(c)
}

// markFor is the interaction tag value this stage gives c
func (d *Discontinuity) markFor(c *candidate.Candidate) string {
	return d.tag + ":" + strconv.FormatUint(c.SerialNumber(), 10)
}

// PositionCorrection moves the candidate one tolerance along newDirection
func (d *Discontinuity) PositionCorrection(c *candidate.Candidate, newDirection core.Vec3) {
	c.Current.Position = c.Current.Position.Add(newDirection.Normalize().Multiply(d.tolerance))
}

// Process applies the discontinuity to c. A spawned secondary is attached to
// c and left for the driver to collect.
func (d *Discontinuity) Process(c *candidate.Candidate) {
	if _, secondary := d.Interact(c); secondary != nil {
		c.AddSecondary(secondary)
	}
}

// Interact is Process with the result made explicit: it mutates c and
// returns the secondary, if any, without attaching it.
func (d *Discontinuity) Interact(c *candidate.Candidate) (Outcome, *candidate.Candidate) {
	position := c.Current.Position
	direction := c.Current.Direction

	distance := d.surface.Distance(position)
	if math.IsNaN(distance) {
		d.logger.Printf("discontinuity: undefined distance at %v, skipping candidate %d\n", position, c.SerialNumber())
		return NoInteraction, nil
	}
	if math.Abs(distance) > d.tolerance {
		// Also drops marks inherited from a parent this stage redirected
		if tag, ok := c.Property(InteractionProperty); ok && strings.HasPrefix(tag, d.tag+":") {
			c.RemoveProperty(InteractionProperty)
		}
		c.LimitNextStep(math.Abs(distance))
		return NoInteraction, nil
	}

	normal, ok := d.normalAt(position)
	if !ok || !validDirection(direction) {
		d.logger.Printf("discontinuity: degenerate normal %v or direction %v at %v, skipping candidate %d\n",
			d.surface.Normal(position), direction, position, c.SerialNumber())
		return NoInteraction, nil
	}
	direction = direction.Normalize()
	cosTheta := direction.Dot(normal)

	if d.CreatedAtSurface(c) {
		if d.surfaceMode && math.Abs(cosTheta) < d.tolerance {
			d.guide(c, position, direction, normal, distance)
			return SurfaceGuided, nil
		}
		return NoInteraction, nil
	}
	if math.Abs(cosTheta) < d.tolerance {
		return NoInteraction, nil
	}

	// Travelling along the normal means coming from the n1 side
	nI, nT := d.n1, d.n2
	facing := normal.Negate()
	if cosTheta < 0 {
		nI, nT = d.n2, d.n1
		facing = normal
	}

	coefficients := fresnel.Coefficients(nI, nT, cosTheta)
	reflected := fresnel.Reflect(direction, facing)
	transmitted := direction
	if nI != nT {
		var refracted bool
		transmitted, refracted = fresnel.Refract(direction, facing, nI/nT)
		if !refracted {
			coefficients.Reflectance, coefficients.Transmittance = 1, 0
		}
	}

	R, T := coefficients.Reflectance, coefficients.Transmittance
	switch {
	case T == 0:
		var secondary *candidate.Candidate
		if d.surfaceMode {
			secondary = d.spawnSurfaceRay(c, direction, normal, distance)
		}
		d.redirect(c, reflected)
		return Reflected, secondary
	case R == 0:
		d.redirect(c, transmitted)
		return Transmitted, nil
	case math.Min(R, T) < d.fraction:
		reflect, weight := d.choosePath(c, R, T)
		c.Current.Amplitude *= weight
		if reflect {
			d.redirect(c, reflected)
			return Reflected, nil
		}
		d.redirect(c, transmitted)
		return Transmitted, nil
	default:
		secondary := d.spawn(c, reflected, c.Current.Amplitude*math.Sqrt(R))
		c.Current.Amplitude *= math.Sqrt(T)
		d.redirect(c, transmitted)
		return Split, secondary
	}
}

// normalAt returns the unit surface normal, false if it is undefined
func (d *Discontinuity) normalAt(position core.Vec3) (core.Vec3, bool) {
	normal := d.surface.Normal(position)
	if !normal.IsFinite() || normal.IsZero() {
		return core.Vec3{}, false
	}
	return normal.Normalize(), true
}

func validDirection(direction core.Vec3) bool {
	return direction.IsFinite() && !direction.IsZero()
}

// choosePath picks the single path and the amplitude weight it carries.
// With a sampler reflection is drawn with probability R and the amplitude is
// kept. Without one the stronger branch wins and is weighted by the square
// root of its coefficient.
func (d *Discontinuity) choosePath(c *candidate.Candidate, R, T float64) (reflect bool, weight float64) {
	if c.Sampler == nil {
		if R > T {
			return true, math.Sqrt(R)
		}
		return false, math.Sqrt(T)
	}
	return c.Sampler.Get1D() < R, 1
}

func (d *Discontinuity) redirect(c *candidate.Candidate, newDirection core.Vec3) {
	c.Current.SetDirection(newDirection)
	d.PositionCorrection(c, newDirection)
	c.SetProperty(InteractionProperty, d.markFor(c))
}

// spawn clones c at the interaction point onto a new path
func (d *Discontinuity) spawn(c *candidate.Candidate, direction core.Vec3, amplitude float64) *candidate.Candidate {
	secondary := c.Clone(false)
	secondary.Current.Amplitude = amplitude
	d.redirect(secondary, direction)
	secondary.Created = secondary.Current
	return secondary
}

// spawnSurfaceRay creates a ray travelling along the surface, carrying the
// fraction of the amplitude that couples into the surface
func (d *Discontinuity) spawnSurfaceRay(c *candidate.Candidate, direction, normal core.Vec3, distance float64) *candidate.Candidate {
	along := direction.ProjectOnPlane(normal)
	if along.IsZero() {
		return nil
	}
	secondary := c.Clone(false)
	secondary.Current.Position = secondary.Current.Position.Subtract(normal.Multiply(distance))
	secondary.Current.Amplitude = c.Current.Amplitude * d.fraction
	d.redirect(secondary, along)
	secondary.Created = secondary.Current
	return secondary
}

// guide keeps a surface ray on the surface: direction projected onto the
// tangent plane and position projected onto the surface
func (d *Discontinuity) guide(c *candidate.Candidate, position, direction, normal core.Vec3, distance float64) {
	along := direction.ProjectOnPlane(normal)
	if along.IsZero() {
		return
	}
	c.Current.SetDirection(along)
	c.Current.Position = position.Subtract(normal.Multiply(distance))
}
