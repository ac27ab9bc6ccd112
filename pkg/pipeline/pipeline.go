// Package pipeline provides the batch load → layout → render pipeline for
// courseflow.
//
// The CLI, the HTTP server and tests all render catalog graphs the same way:
// open a session over a source, load a grouping mode, optionally drill into
// a scope, tick the layout until it settles and render the resulting frame.
// Centralising that here keeps every entry point consistent.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, cat, pipeline.Options{
//	    Mode:    "faculty",
//	    Scope:   "faculty:science",
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	frame, stats, err := runner.Layout(ctx, cat, opts)
//	artifacts, err := pipeline.Render(frame, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/courseflow/pkg/catalog"
	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/force"
	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/style"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = force.DefaultSeed

	// DefaultMaxTicks bounds the layout of one pipeline run.
	DefaultMaxTicks = force.DefaultMaxTicks

	// DefaultPadding is the canvas margin used when fitting the viewport.
	DefaultPadding = 24.0

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = graph.FormatSVG

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run. It supports JSON
// for server requests.
type Options struct {
	// Load options
	Mode  string `json:"mode,omitempty"`  // Grouping mode; empty uses catalog.DefaultMode
	Scope string `json:"scope,omitempty"` // Node ID to drill into after loading

	// Layout options
	Seed      uint64  `json:"seed,omitempty"`
	MaxTicks  int     `json:"max_ticks,omitempty"`
	StopAlpha float64 `json:"stop_alpha,omitempty"`
	Fit       bool    `json:"fit,omitempty"` // Replace the initial zoom with a fit-to-content transform
	Padding   float64 `json:"padding,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Interactive bool     `json:"interactive,omitempty"` // SVG hover and click scripts
	Titles      bool     `json:"titles,omitempty"`      // SVG description tooltips
	Detailed    bool     `json:"detailed,omitempty"`    // DOT labels with group and depth
	Graphviz    bool     `json:"graphviz,omitempty"`    // Draw svg/png/pdf with Graphviz from the DOT output
	MaxLabel    int      `json:"max_label,omitempty"`
	PNGScale    float64  `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Properties *style.Properties `json:"-"`
	Logger     *log.Logger       `json:"-"`
	OnTick     func(ticks int)   `json:"-"` // Called after every layout tick with the running total

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Frame is the settled snapshot that was rendered.
	Frame graph.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Ticks      int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !graph.ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(graph.ValidFormats))
	for f := range graph.ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout normalises the grouping mode and sets layout defaults.
func (o *Options) ValidateForLayout() error {
	mode, err := catalog.ParseMode(o.Mode)
	if err != nil {
		return err
	}
	o.Mode = string(mode)
	if o.Scope != "" {
		if err := apperrors.ValidateNodeID(o.Scope); err != nil {
			return err
		}
	}
	o.SetLayoutDefaults()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.MaxTicks <= 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.Properties == nil {
		o.Properties = style.DefaultProperties()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates formats and sets render defaults.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions returns the solver settings for a session.
func (o *Options) LayoutOptions() force.Options {
	return force.Options{
		Seed:      o.Seed,
		MaxTicks:  o.MaxTicks,
		StopAlpha: o.StopAlpha,
		Logger:    o.Logger,
	}
}
