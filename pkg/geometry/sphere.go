package geometry

import (
	"fmt"

	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
)

// Sphere represents a spherical surface, e.g. a curved ice boundary
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Distance returns |point - center| - radius: negative inside, positive outside
func (s *Sphere) Distance(point core.Vec3) float64 {
	return point.Subtract(s.Center).Length() - s.Radius
}

// Normal returns the outward normal. At the centre the normal is undefined
// and a zero vector is returned.
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Description returns a human readable summary
func (s *Sphere) Description() string {
	return fmt.Sprintf("Sphere: center %v, radius %g", s.Center, s.Radius)
}
