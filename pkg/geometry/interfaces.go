package geometry

import "github.com/AlexKyriacou92/RadioPropa/pkg/core"

// Surface is a queryable boundary between two media.
// Implementations must be safe for concurrent reads.
type Surface interface {
	// Distance returns the signed distance from point to the surface.
	// Positive values lie on the side the normal points to.
	Distance(point core.Vec3) float64
	// Normal returns the unit normal at the surface point closest to point.
	// A zero vector signals that the normal is undefined there.
	Normal(point core.Vec3) core.Vec3
	// Description returns a human readable summary
	Description() string
}
