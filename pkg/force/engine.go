package force

import (
	"github.com/matzehuels/courseflow/pkg/hierarchy"
	"github.com/matzehuels/courseflow/pkg/projection"
)

// Engine owns at most one active simulation run.
type Engine struct {
	opts       Options
	generation uint64
	run        *Simulation
}

// NewEngine returns an engine whose runs use opts.
func NewEngine(opts Options) *Engine {
	opts.SetDefaults()
	return &Engine{opts: opts}
}

// Start supersedes the active run, if any, and starts a new run over g
// under the next generation.
func (e *Engine) Start(g *projection.Graph, charge func(*hierarchy.Node) float64) *Simulation {
	if e.run != nil {
		e.run.supersede()
	}
	e.generation++

	sim := New(g, charge, e.opts)
	sim.generation = e.generation
	e.run = sim
	sim.Start()
	return sim
}

// Tick advances the active run if gen is the current generation. It
// reports whether a tick was executed; stale generations and terminal runs
// report false.
func (e *Engine) Tick(gen uint64) bool {
	if e.run == nil || gen != e.generation {
		return false
	}
	return e.run.Step()
}

// Cancel stops the active run, discarding its per-node state, and
// invalidates every tick scheduled for it.
func (e *Engine) Cancel() {
	if e.run == nil {
		return
	}
	e.run.Stop()
	e.generation++
}

// Generation returns the generation that Tick currently accepts.
func (e *Engine) Generation() uint64 { return e.generation }

// Current returns the most recent run, or nil before the first Start.
func (e *Engine) Current() *Simulation { return e.run }

// Active reports whether a run is currently Running.
func (e *Engine) Active() bool {
	return e.run != nil && e.run.state == Running
}
