package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/courseflow/pkg/catalog"
	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/session"
)

// Runner executes pipeline runs. It holds no per-run state, so one Runner
// can serve concurrent runs with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, src session.Source, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	frame, stats, err := r.Layout(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, err := Render(frame, opts)
	if err != nil {
		return nil, err
	}
	stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", stats.RenderTime)

	return &Result{Frame: frame, Artifacts: artifacts, Stats: stats}, nil
}

// Layout loads the grouping mode, drills into opts.Scope if set and ticks
// the layout until it settles or ctx is done.
func (r *Runner) Layout(ctx context.Context, src session.Source, opts Options) (graph.Frame, Stats, error) {
	r.applyLogger(&opts)
	var stats Stats
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Frame{}, stats, err
	}

	s := session.New(src, session.Options{
		Properties: opts.Properties,
		Layout:     opts.LayoutOptions(),
		Logger:     opts.Logger,
	})
	defer s.Dispose()

	loadStart := time.Now()
	if err := s.Load(ctx, catalog.GroupingMode(opts.Mode)); err != nil {
		return graph.Frame{}, stats, err
	}
	if opts.Scope != "" {
		if err := s.OnNodeActivated(opts.Scope); err != nil {
			return graph.Frame{}, stats, err
		}
	}
	stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded catalog",
		"mode", opts.Mode,
		"scope", s.Scope().Root.ID,
		"nodes", s.Scope().Graph.Len(),
		"duration", stats.LoadTime)

	layoutStart := time.Now()
	ticks, err := settle(ctx, s, opts.OnTick)
	if err != nil {
		return graph.Frame{}, stats, apperrors.Wrap(apperrors.ErrCodeInternal, err, "layout interrupted after %d ticks", ticks)
	}
	if opts.Fit {
		s.Fit(opts.Padding)
	}
	frame := s.Frame()

	stats.Ticks = ticks
	stats.LayoutTime = time.Since(layoutStart)
	stats.NodeCount = len(frame.Nodes)
	stats.EdgeCount = len(frame.Edges)

	r.Logger.Info("computed layout",
		"state", frame.Run.State,
		"ticks", ticks,
		"duration", stats.LayoutTime)

	return frame, stats, nil
}

// settle ticks s until its run ends or ctx is done, reporting each tick to
// onTick when set.
func settle(ctx context.Context, s *session.Session, onTick func(int)) (int, error) {
	if onTick == nil {
		return s.Settle(ctx)
	}
	n := 0
	for s.Tick() {
		n++
		onTick(n)
		if err := ctx.Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
