package pattern

import (
	"fmt"
	"math/rand"
)

// ExecPattern is a concrete, fully-generated unit of load: a sequence of
// commands paired one-to-one with the response each command is predicted to
// receive from a correct server. Once constructed it is immutable and
// self-contained — nothing about its execution depends on any other
// pattern's state.
type ExecPattern struct {
	Commands    []Command
	Predictions []string
}

// New generates a pattern from template t, drawing keys and values of the
// given lengths from rng, and computes its predicted responses by
// simulating the generated commands against a fresh ghost store.
func New(rng *rand.Rand, t Template, keyLen, valueLen int) *ExecPattern {
	commands := Generate(rng, t, keyLen, valueLen)
	return &ExecPattern{
		Commands:    commands,
		Predictions: Predict(commands),
	}
}

// Validate checks the |commands| = |predictions| invariant every ExecPattern
// must hold.
func (p *ExecPattern) Validate() error {
	if len(p.Commands) != len(p.Predictions) {
		return fmt.Errorf("exec pattern invariant violated: %d commands but %d predictions", len(p.Commands), len(p.Predictions))
	}
	return nil
}

// TemplateString reconstructs the dash-separated template this pattern was
// generated from, e.g. "SET-GET-GET-DEL". Used to group patterns by shape
// for offline comparison (internal/aggregator).
func (p *ExecPattern) TemplateString() string {
	t := Template{Kinds: make([]Kind, len(p.Commands))}
	for i, c := range p.Commands {
		t.Kinds[i] = c.Kind
	}
	return t.String()
}
