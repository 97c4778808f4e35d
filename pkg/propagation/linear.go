// Package propagation moves candidates between interactions. Rays travel in
// straight lines here; bending in index gradients is not modelled.
package propagation

import (
	"fmt"
	"math"

	"github.com/AlexKyriacou92/RadioPropa/pkg/candidate"
)

// Linear moves candidates along their direction by a fixed step, or less if
// another stage limited the next step
type Linear struct {
	Step    float64 // Maximum step size in metres
	MinStep float64 // Smallest step taken, keeps rays from stalling on step limits
}

// NewLinear creates a straight-line propagator
func NewLinear(step float64) *Linear {
	return &Linear{Step: step, MinStep: step * 1e-6}
}

// Process advances the candidate by one step
func (l *Linear) Process(c *candidate.Candidate) {
	step := math.Max(math.Min(l.Step, c.NextStep()), l.MinStep)

	c.Previous = c.Current
	c.Current.Position = c.Current.Position.Add(c.Current.Direction.Multiply(step))
	c.TrajectoryLength += step
	c.ResetNextStep()
}

// Description returns a summary of the configuration
func (l *Linear) Description() string {
	return fmt.Sprintf("Linear propagation: step %g m", l.Step)
}
