// Package candidate holds the ray candidates passed through the simulation
// pipeline. A candidate is processed by at most one goroutine at a time;
// none of its methods are synchronized.
package candidate

import (
	"math"
	"sync/atomic"

	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
)

var nextSerial atomic.Uint64

// Candidate is a ray being propagated through the simulation
type Candidate struct {
	Current  ParticleState // State after the last step
	Previous ParticleState // State before the last step
	Created  ParticleState // State at creation

	Active           bool
	TrajectoryLength float64      // Total distance travelled
	Sampler          core.Sampler // Random source for stochastic decisions; may be nil

	serial      uint64
	parent      *Candidate
	nextStep    float64
	properties  map[string]string
	secondaries []*Candidate
}

// NewCandidate creates an active candidate starting in state
func NewCandidate(state ParticleState) *Candidate {
	return &Candidate{
		Current:    state,
		Previous:   state,
		Created:    state,
		Active:     true,
		serial:     nextSerial.Add(1),
		nextStep:   math.Inf(1),
		properties: make(map[string]string),
	}
}

// SerialNumber is unique per candidate within the process
func (c *Candidate) SerialNumber() uint64 {
	return c.serial
}

// Parent returns the candidate this one was cloned from, or nil
func (c *Candidate) Parent() *Candidate {
	return c.parent
}

// Clone returns a copy with its own serial number, properties and sampler.
// Secondaries are copied only when recursive is true.
func (c *Candidate) Clone(recursive bool) *Candidate {
	clone := &Candidate{
		Current:          c.Current,
		Previous:         c.Previous,
		Created:          c.Created,
		Active:           c.Active,
		TrajectoryLength: c.TrajectoryLength,
		Sampler:          core.ForkSampler(c.Sampler),
		serial:           nextSerial.Add(1),
		parent:           c,
		nextStep:         math.Inf(1),
		properties:       make(map[string]string, len(c.properties)),
	}
	for k, v := range c.properties {
		clone.properties[k] = v
	}
	if recursive {
		for _, s := range c.secondaries {
			clone.AddSecondary(s.Clone(true))
		}
	}
	return clone
}

// AddSecondary attaches a new candidate spawned from this one. The secondary
// stays with this candidate until the driver drains it.
func (c *Candidate) AddSecondary(secondary *Candidate) {
	secondary.parent = c
	c.secondaries = append(c.secondaries, secondary)
}

// Secondaries returns the secondaries not yet drained
func (c *Candidate) Secondaries() []*Candidate {
	return c.secondaries
}

// TakeSecondaries removes and returns all pending secondaries
func (c *Candidate) TakeSecondaries() []*Candidate {
	taken := c.secondaries
	c.secondaries = nil
	return taken
}

// SetProperty tags the candidate
func (c *Candidate) SetProperty(key, value string) {
	c.properties[key] = value
}

// Property returns the value of a tag
func (c *Candidate) Property(key string) (string, bool) {
	v, ok := c.properties[key]
	return v, ok
}

// HasProperty reports whether the tag is set
func (c *Candidate) HasProperty(key string) bool {
	_, ok := c.properties[key]
	return ok
}

// RemoveProperty deletes a tag
func (c *Candidate) RemoveProperty(key string) {
	delete(c.properties, key)
}

// NextStep is the largest step the propagation may take next
func (c *Candidate) NextStep() float64 {
	return c.nextStep
}

// LimitNextStep lowers the next step size to at most step
func (c *Candidate) LimitNextStep(step float64) {
	c.nextStep = math.Min(c.nextStep, step)
}

// ResetNextStep clears any step limit, called after each propagation step
func (c *Candidate) ResetNextStep() {
	c.nextStep = math.Inf(1)
}

// Deactivate stops further processing of the candidate
func (c *Candidate) Deactivate() {
	c.Active = false
}
