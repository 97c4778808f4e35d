package fresnel

import (
	"math"

	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
)

// Reflect calculates the mirror reflection of v off a surface with unit normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract calculates the refraction of the unit vector uv using Snell's law.
// n is the unit normal facing the incoming ray (uv·n <= 0) and etaiOverEtat
// the ratio of the incident to the transmitted index. The second value is
// false under total internal reflection.
func Refract(uv, n core.Vec3, etaiOverEtat float64) (core.Vec3, bool) {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	sin2Theta := math.Max(0.0, 1.0-cosTheta*cosTheta)
	if etaiOverEtat*etaiOverEtat*sin2Theta > 1.0 {
		return core.Vec3{}, false
	}
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel), true
}
