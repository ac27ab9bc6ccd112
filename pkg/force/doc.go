// Package force implements an iterative force-directed layout with an
// explicit step function and run-generation tokens.
//
// # Numerics
//
// The solver follows d3-force so that layouts match what a browser running
// d3 would draw for the same input:
//
//   - Nodes start on a phyllotaxis spiral: radius 10·√(0.5+i), angle
//     i·π(3-√5).
//   - Each tick first cools alpha towards its target:
//     alpha += (target - alpha) · decay, with decay 1 - alphaMin^(1/300).
//   - A link force pulls each edge towards its rest distance. The correction
//     is split between the endpoints by degree, bias deg(s)/(deg(s)+deg(t)).
//   - A many-body force applies pairwise charge between every pair of nodes.
//     Negative charges repel. Squared distances below 1 are clamped.
//   - Velocities decay by 40% and positions integrate.
//
// Coincident nodes are separated by a tiny jiggle drawn from a PCG source
// seeded by [Options.Seed], so a given graph and seed always produce the
// same layout.
//
// # Lifecycle
//
// A [Simulation] moves through a small state machine:
//
//	Idle ──Start──▶ Running ──alpha < StopAlpha──▶ Converged
//	                   │  ────ticks ≥ MaxTicks────▶ Stopped (positions kept)
//	                   │  ────Stop────────────────▶ Stopped (positions discarded)
//	                   └────superseded by Engine──▶ Superseded (positions discarded)
//
// Converged, Stopped and Superseded are terminal. [Simulation.Step] on a
// terminal run does nothing and reports false.
//
// # Engine
//
// [Engine] owns at most one active run. [Engine.Start] supersedes the
// current run before starting the next, and every run carries a generation
// number that only grows. Host schedulers tick with [Engine.Tick] passing
// the generation they were scheduled for; a stale generation is ignored,
// which is how callbacks queued before a scope change are invalidated.
//
// # Concurrency
//
// Simulations and engines are not safe for concurrent use. Ticks are
// cooperative and single-threaded, driven by the host.
package force
