package candidate

import (
	"fmt"

	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
)

// ParticleState is a snapshot of a ray at one point along its trajectory
type ParticleState struct {
	Position  core.Vec3 // Position in metres
	Direction core.Vec3 // Unit direction of travel
	Amplitude float64   // Field amplitude carried by the ray
	Frequency float64   // Frequency in Hz
}

// NewParticleState creates a state with a normalized direction
func NewParticleState(position, direction core.Vec3, amplitude, frequency float64) ParticleState {
	return ParticleState{
		Position:  position,
		Direction: direction.Normalize(),
		Amplitude: amplitude,
		Frequency: frequency,
	}
}

// SetDirection stores the normalized direction
func (s *ParticleState) SetDirection(direction core.Vec3) {
	s.Direction = direction.Normalize()
}

func (s ParticleState) String() string {
	return fmt.Sprintf("pos %v, dir %v, amplitude %g", s.Position, s.Direction, s.Amplitude)
}
