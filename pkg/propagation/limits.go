package propagation

import (
	"fmt"
	"math"

	"github.com/AlexKyriacou92/RadioPropa/pkg/candidate"
)

// MaximumTrajectoryLength deactivates candidates that travelled too far
type MaximumTrajectoryLength struct {
	MaxLength float64
}

// NewMaximumTrajectoryLength creates the limiter
func NewMaximumTrajectoryLength(maxLength float64) *MaximumTrajectoryLength {
	return &MaximumTrajectoryLength{MaxLength: maxLength}
}

func (m *MaximumTrajectoryLength) Process(c *candidate.Candidate) {
	remaining := m.MaxLength - c.TrajectoryLength
	if remaining <= 0 {
		c.Deactivate()
		return
	}
	c.LimitNextStep(remaining)
}

func (m *MaximumTrajectoryLength) Description() string {
	return fmt.Sprintf("Maximum trajectory length: %g m", m.MaxLength)
}

// MinimumAmplitude deactivates candidates whose amplitude dropped below a
// threshold, which bounds the number of secondaries a split cascade produces
type MinimumAmplitude struct {
	MinAmplitude float64
}

// NewMinimumAmplitude creates the limiter
func NewMinimumAmplitude(minAmplitude float64) *MinimumAmplitude {
	return &MinimumAmplitude{MinAmplitude: minAmplitude}
}

func (m *MinimumAmplitude) Process(c *candidate.Candidate) {
	if math.Abs(c.Current.Amplitude) < m.MinAmplitude {
		c.Deactivate()
	}
}

func (m *MinimumAmplitude) Description() string {
	return fmt.Sprintf("Minimum amplitude: %g", m.MinAmplitude)
}
