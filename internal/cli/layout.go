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

// layoutCommand creates the layout command for settling a catalog graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [catalog.json]",
		Short: "Settle a catalog graph and write the frame as JSON",
		Long: `Settle a catalog graph and write the frame as JSON.

The layout command loads the catalog, groups its units by the selected mode,
optionally drills into --scope and ticks the force simulation until it
converges. The output is a frame.json file (same format as 'render -f json')
holding node positions, edges, styles and the viewport transform.

When no catalog is given, catalog.path from the config file is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args, &flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.frame.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the catalog, settles the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, args []string, flags *pipelineFlags, output string) error {
	cat, input, err := c.loadCatalog(args)
	if err != nil {
		return err
	}
	opts, err := c.pipelineOptions(flags)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	var ticks atomic.Int64
	opts.OnTick = func(n int) { ticks.Store(int64(n)) }
	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Settling %s layout...", opts.Mode), tickStatus(&ticks)).start()

	frame, stats, err := c.newRunner().Layout(ctx, cat, opts)
	if err != nil {
		spin.fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spin.stop()

	if spin.interrupted() {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".frame.json"
	}
	if err := graph.WriteFrameFile(frame, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done("Layout written")

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(stats.NodeCount, stats.EdgeCount, stats.Ticks, frame.Run.State)
	if frame.Run.State != "converged" {
		printWarning("simulation stopped before converging; raise --max-ticks for a calmer layout")
	}
	printNewline()
	printNextStep("Render", fmt.Sprintf("%s render %s -f %s", appName, input, pipeline.DefaultFormat))

	return nil
}
