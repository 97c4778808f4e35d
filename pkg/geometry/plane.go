package geometry

import (
	"fmt"

	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point      core.Vec3 // A point on the plane
	UnitNormal core.Vec3 // Normal vector (normalized on construction)
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3) *Plane {
	return &Plane{
		Point:      point,
		UnitNormal: normal.Normalize(), // Ensure normal is normalized
	}
}

// NewHorizontalPlane creates a plane at height z with normal +Z
func NewHorizontalPlane(z float64) *Plane {
	return NewPlane(core.NewVec3(0, 0, z), core.NewVec3(0, 0, 1))
}

// Distance returns the signed distance along the plane normal
func (p *Plane) Distance(point core.Vec3) float64 {
	return point.Subtract(p.Point).Dot(p.UnitNormal)
}

// Normal returns the plane normal; it is the same everywhere
func (p *Plane) Normal(point core.Vec3) core.Vec3 {
	return p.UnitNormal
}

// Description returns a human readable summary
func (p *Plane) Description() string {
	return fmt.Sprintf("Plane: point %v, normal %v", p.Point, p.UnitNormal)
}
