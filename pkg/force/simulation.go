package force

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/courseflow/pkg/hierarchy"
	"github.com/matzehuels/courseflow/pkg/observability"
	"github.com/matzehuels/courseflow/pkg/projection"
)

const (
	initialRadius   = 10.0
	distanceMin2    = 1.0
	jiggleMagnitude = 1e-6
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// State is the lifecycle state of a simulation run.
type State int

const (
	Idle       State = iota // Prepared, not yet ticking
	Running                 // Accepting ticks
	Converged               // Alpha fell below StopAlpha
	Stopped                 // Cancelled or tick limit reached
	Superseded              // Replaced by a newer run
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Stopped:
		return "stopped"
	case Superseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further ticks can change the run.
func (s State) Terminal() bool {
	return s == Converged || s == Stopped || s == Superseded
}

// Point is a snapshot of one node position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type body struct {
	x, y, vx, vy float64
}

type link struct {
	source, target     int
	distance, strength float64
	bias               float64
}

// Simulation is one layout run over a projected graph. Per-node state is
// owned here and only leaves as [Point] snapshots.
type Simulation struct {
	opts       Options
	generation uint64

	bodies  []body
	links   []link
	charges []float64

	alpha   float64
	ticks   int
	state   State
	rng     *rand.Rand
	started time.Time
}

// New prepares an idle simulation for g. charge returns the many-body
// strength of a tree node; nil uses [DefaultCharge] for every node.
func New(g *projection.Graph, charge func(*hierarchy.Node) float64, opts Options) *Simulation {
	opts.SetDefaults()
	s := &Simulation{
		opts:  opts,
		alpha: opts.Alpha,
		rng:   rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef)),
	}

	n := g.Len()
	s.bodies = make([]body, n)
	s.charges = make([]float64, n)
	for i := range s.bodies {
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		s.bodies[i] = body{x: r * math.Cos(a), y: r * math.Sin(a)}

		s.charges[i] = DefaultCharge
		if charge != nil {
			if c := charge(g.Nodes[i].Ref); !math.IsNaN(c) && !math.IsInf(c, 0) {
				s.charges[i] = c
			}
		}
	}

	s.links = make([]link, len(g.Edges))
	for i, e := range g.Edges {
		ds, dt := float64(g.Degree(e.Source)), float64(g.Degree(e.Target))
		s.links[i] = link{
			source:   e.Source,
			target:   e.Target,
			distance: e.Distance,
			strength: e.Strength,
			bias:     ds / (ds + dt),
		}
	}
	return s
}

// Generation returns the run generation assigned by an [Engine], or 0 for a
// standalone simulation.
func (s *Simulation) Generation() uint64 { return s.generation }

// State returns the current lifecycle state.
func (s *Simulation) State() State { return s.state }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Ticks returns the number of steps executed.
func (s *Simulation) Ticks() int { return s.ticks }

// Len returns the number of simulated nodes, 0 once state is discarded.
func (s *Simulation) Len() int { return len(s.bodies) }

// Start moves an idle run to Running. An empty graph converges immediately.
func (s *Simulation) Start() {
	if s.state != Idle {
		return
	}
	s.state = Running
	s.started = time.Now()
	observability.Layout().OnRunStart(s.generation, len(s.bodies))
	s.opts.Logger.Debug("layout run started", "generation", s.generation, "nodes", len(s.bodies))
	if len(s.bodies) == 0 {
		s.finish(Converged, false)
	}
}

// Step advances a running simulation by one tick. It reports whether a
// tick was executed.
func (s *Simulation) Step() bool {
	if s.state != Running {
		return false
	}

	s.alpha += (s.opts.AlphaTarget - s.alpha) * s.opts.AlphaDecay
	s.applyLinks()
	s.applyManyBody()

	retain := 1 - s.opts.VelocityDecay
	for i := range s.bodies {
		b := &s.bodies[i]
		b.vx *= retain
		b.vy *= retain
		b.x += b.vx
		b.y += b.vy
	}
	s.ticks++

	switch {
	case s.alpha < s.opts.StopAlpha:
		s.finish(Converged, false)
	case s.ticks >= s.opts.MaxTicks:
		s.opts.Logger.Warn("layout run hit tick limit", "generation", s.generation, "ticks", s.ticks, "alpha", s.alpha)
		s.finish(Stopped, false)
	}
	return true
}

// Stop cancels the run and discards per-node state. It is a no-op on a
// terminal run.
func (s *Simulation) Stop() {
	if s.state.Terminal() {
		return
	}
	s.finish(Stopped, true)
}

func (s *Simulation) supersede() {
	if s.state.Terminal() {
		return
	}
	s.finish(Superseded, true)
}

func (s *Simulation) finish(state State, discard bool) {
	wasRunning := s.state == Running
	s.state = state
	if discard {
		s.bodies = nil
	}
	if wasRunning {
		d := time.Since(s.started)
		observability.Layout().OnRunEnd(s.generation, state.String(), s.ticks, d)
		s.opts.Logger.Debug("layout run ended", "generation", s.generation, "state", state, "ticks", s.ticks, "duration", d)
	}
}

// Positions returns a copy of the current node positions, indexed like the
// projected graph. It returns nil once per-node state has been discarded.
func (s *Simulation) Positions() []Point {
	if s.bodies == nil {
		return nil
	}
	out := make([]Point, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = Point{X: b.x, Y: b.y}
	}
	return out
}

// Run steps the simulation until it leaves the Running state and returns
// the number of ticks executed by this call.
func (s *Simulation) Run() int {
	n := 0
	for s.Step() {
		n++
	}
	return n
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * jiggleMagnitude
}
