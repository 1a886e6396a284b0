// Package trace serializes an ir2.Program to YAML for debugging, the way
// the teacher externalizes linage.Identity/linage.Scope with yaml tags for
// inspection tooling. It is a snapshot view only — never read back into the
// compiler, so every field is named for a human rather than round-tripped.
package trace

import (
	"github.com/viant/flowc/ir2"
	"github.com/viant/flowc/symtab"
	"gopkg.in/yaml.v3"
)

// ComponentSnapshot is one component's debug view.
type ComponentSnapshot struct {
	Name         string            `yaml:"name"`
	Inputs       []string          `yaml:"inputs,omitempty"`
	Outputs      []string          `yaml:"outputs,omitempty"`
	StateBuffers []string          `yaml:"stateBuffers,omitempty"`
	StateCalls   map[string]string `yaml:"stateCalls,omitempty"`
	StepOrder    []string          `yaml:"stepOrder,omitempty"`
}

// Snapshot is the whole-program debug view.
type Snapshot struct {
	Components []ComponentSnapshot `yaml:"components"`
}

// Build projects an ir2.Program into a Snapshot using table for id-to-name
// resolution.
func Build(prog *ir2.Program, table *symtab.Table) Snapshot {
	names := func(ids []symtab.ID) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = table.GetName(id)
		}
		return out
	}
	snap := Snapshot{Components: make([]ComponentSnapshot, len(prog.Components))}
	for i, c := range prog.Components {
		stateCalls := make(map[string]string, len(c.StateCalls))
		for slot, calleeID := range c.StateCalls {
			stateCalls[table.GetName(slot)] = table.GetName(calleeID)
		}
		snap.Components[i] = ComponentSnapshot{
			Name:         table.GetName(c.ID),
			Inputs:       names(c.Input),
			Outputs:      names(c.Output),
			StateBuffers: names(c.StateBuffers),
			StateCalls:   stateCalls,
			StepOrder:    names(c.Step),
		}
	}
	return snap
}

// Marshal renders a Snapshot as YAML text.
func Marshal(snap Snapshot) ([]byte, error) {
	return yaml.Marshal(snap)
}
