package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/courseflow/internal/server"
	"github.com/matzehuels/courseflow/pkg/observability"
	"github.com/matzehuels/courseflow/pkg/observability/prom"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		properties string
		ttl        time.Duration
		noMetrics  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [catalog.json]",
		Short: "Serve graph sessions over HTTP",
		Long: `Serve graph sessions over HTTP.

Each client creates a session with POST /sessions and drives it with the
tick, activate, up, reset and gesture endpoints. Frames are returned as
JSON; /sessions/{id}/svg and /dot render the current frame. Prometheus
metrics are exposed at /metrics unless disabled.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args, addr, properties, ttl, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&properties, "properties", "", "graph properties TOML file")
	cmd.Flags().DurationVar(&ttl, "session-ttl", 0, "idle session lifetime (default from config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, args []string, addr, properties string, ttl time.Duration, metrics bool) error {
	cat, input, err := c.loadCatalog(args)
	if err != nil {
		return err
	}
	props, err := c.properties(properties)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = c.Config.Server.Addr
	}
	if ttl <= 0 {
		ttl = c.Config.Server.SessionTTL.Duration
	}

	layout := c.Config.LayoutOptions()
	layout.Logger = c.Logger
	opts := server.Options{
		Source:     cat,
		Properties: props,
		Layout:     layout,
		TTL:        ttl,
		Logger:     c.Logger,
	}
	if metrics && c.Config.Server.Metrics {
		opts.Metrics = registerMetrics()
	}

	printSuccess("Serving %s", cat.Name)
	printKeyValue("catalog", input)
	printKeyValue("address", StyleLink.Render("http://"+addr))
	printKeyValue("session ttl", ttl.String())
	if opts.Metrics != nil {
		printKeyValue("metrics", StyleLink.Render("http://"+addr+"/metrics"))
	}
	printNewline()

	if err := server.New(opts).Run(ctx, addr); err != nil {
		return err
	}
	printInfo("Server stopped")
	return nil
}

// registerMetrics installs Prometheus-backed observability hooks and
// returns the handler that exposes them.
func registerMetrics() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := prom.New(reg)
	observability.SetSessionHooks(m)
	observability.SetLayoutHooks(m)
	observability.SetStyleHooks(m)
	observability.SetHTTPHooks(m)

	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
