package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/pipeline"
)

// renderCommand creates the render command for generating output files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		flags      pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "render [catalog.json]",
		Short: "Render a catalog graph to SVG, DOT, JSON, PNG or PDF",
		Long: `Render a catalog graph to SVG, DOT, JSON, PNG or PDF.

The render command runs the same layout as 'layout' and writes one file per
requested format. SVG is drawn by the built-in renderer unless --graphviz is
set, in which case the DOT description is drawn by Graphviz at the settled
positions. PNG and PDF conversion of built-in SVG requires rsvg-convert.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(flags.opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, &flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, png, pdf (comma-separated)")
	flags.register(cmd)

	// Render flags
	cmd.Flags().BoolVar(&flags.opts.Interactive, "interactive", false, "embed hover and click scripts in SVG")
	cmd.Flags().BoolVar(&flags.opts.Titles, "titles", true, "add description tooltips to SVG nodes")
	cmd.Flags().BoolVar(&flags.opts.Detailed, "detailed", false, "include group and depth in DOT labels")
	cmd.Flags().BoolVar(&flags.opts.Graphviz, "graphviz", false, "draw svg/png/pdf with Graphviz")
	cmd.Flags().IntVar(&flags.opts.MaxLabel, "max-label", 0, "truncate labels to this many characters")
	cmd.Flags().Float64Var(&flags.opts.PNGScale, "png-scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")

	return cmd
}

// runRender lays out the catalog and writes every requested format.
func (c *CLI) runRender(ctx context.Context, args []string, flags *pipelineFlags, output string) error {
	cat, input, err := c.loadCatalog(args)
	if err != nil {
		return err
	}
	opts, err := c.pipelineOptions(flags)
	if err != nil {
		return err
	}

	var ticks atomic.Int64
	opts.OnTick = func(n int) { ticks.Store(int64(n)) }
	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")), tickStatus(&ticks)).start()

	result, err := c.newRunner().Execute(ctx, cat, opts)
	if err != nil {
		spin.fail("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spin.stop()

	if spin.interrupted() {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.Ticks, result.Frame.Run.State)
	if result.Frame.Scope != "" {
		printDetail("scope %s (%s tier)", result.Frame.Scope, result.Frame.Tier)
	}
	return nil
}

// writeArtifacts writes each format to its own file and returns the paths
// in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if graph.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
