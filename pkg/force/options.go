package force

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// Default solver parameters.
const (
	DefaultAlpha         = 1.0
	DefaultAlphaMin      = 0.001
	DefaultAlphaTarget   = 0.0
	DefaultVelocityDecay = 0.4
	DefaultStopAlpha     = 0.05
	DefaultMaxTicks      = 1000
	DefaultSeed          = uint64(42)
	DefaultCharge        = -30.0
)

// DefaultAlphaDecay cools alpha from 1 to alphaMin in 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// Options configures a simulation. Zero fields take their defaults.
type Options struct {
	Alpha         float64 // Starting alpha
	AlphaMin      float64 // Lower bound used to derive AlphaDecay
	AlphaDecay    float64 // Per-tick cooling rate
	AlphaTarget   float64 // Value alpha decays towards
	VelocityDecay float64 // Fraction of velocity lost per tick
	StopAlpha     float64 // Run converges once alpha drops below this
	MaxTicks      int     // Safety bound on ticks per run
	DistanceMax   float64 // Many-body cutoff distance (0 = unbounded)
	Seed          uint64  // Jiggle source seed

	Logger *log.Logger
}

// SetDefaults fills zero fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.Alpha == 0 {
		o.Alpha = DefaultAlpha
	}
	if o.AlphaMin == 0 {
		o.AlphaMin = DefaultAlphaMin
	}
	if o.AlphaDecay == 0 {
		o.AlphaDecay = 1 - math.Pow(o.AlphaMin, 1.0/300)
	}
	if o.VelocityDecay == 0 {
		o.VelocityDecay = DefaultVelocityDecay
	}
	if o.StopAlpha == 0 {
		o.StopAlpha = DefaultStopAlpha
	}
	if o.MaxTicks <= 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if o.DistanceMax <= 0 {
		o.DistanceMax = math.Inf(1)
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
