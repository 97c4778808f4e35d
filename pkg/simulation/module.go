// Package simulation drives candidates through a pipeline of modules
package simulation

import (
	"strings"

	"github.com/AlexKyriacou92/RadioPropa/pkg/candidate"
)

// Module is one stage of the propagation pipeline. Process is called once per
// step for each active candidate and may be called concurrently for different
// candidates.
type Module interface {
	Process(c *candidate.Candidate)
	Description() string
}

// ModuleList runs modules in insertion order
type ModuleList struct {
	modules []Module
}

// NewModuleList creates a pipeline from modules
func NewModuleList(modules ...Module) *ModuleList {
	return &ModuleList{modules: modules}
}

// Add appends a module to the pipeline
func (ml *ModuleList) Add(module Module) {
	ml.modules = append(ml.modules, module)
}

// Modules returns the pipeline stages
func (ml *ModuleList) Modules() []Module {
	return ml.modules
}

// Process runs one step: every module once, stopping early if the candidate
// is deactivated
func (ml *ModuleList) Process(c *candidate.Candidate) {
	for _, module := range ml.modules {
		if !c.Active {
			return
		}
		module.Process(c)
	}
}

// Description lists the modules, one per line
func (ml *ModuleList) Description() string {
	var sb strings.Builder
	sb.WriteString("ModuleList\n")
	for _, module := range ml.modules {
		sb.WriteString("  ")
		sb.WriteString(module.Description())
		sb.WriteString("\n")
	}
	return sb.String()
}
