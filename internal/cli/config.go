package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/courseflow/internal/config"
)

// configCommand creates the config command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, c.configPathOrDefault())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.EnsureExists(); err != nil {
				return fmt.Errorf("create config: %w", err)
			}
			printSuccess("Config ready")
			printFile(config.Path())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.printConfig()
			return nil
		},
	})

	return cmd
}

func (c *CLI) printConfig() {
	cfg := c.Config
	orNone := func(s string) string {
		if s == "" {
			return StyleDim.Render("(none)")
		}
		return s
	}

	fmt.Fprintln(stdout, StyleTitle.Render("Configuration"))
	printDetail("%s", c.configPathOrDefault())
	printKeyValue("catalog", orNone(cfg.Catalog.Path))
	printKeyValue("mode", cfg.Catalog.Mode)
	printKeyValue("properties", orNone(cfg.Style.Properties))
	printKeyValue("seed", strconv.FormatUint(cfg.Layout.Seed, 10))
	printKeyValue("max ticks", strconv.Itoa(cfg.Layout.MaxTicks))
	printKeyValue("stop alpha", strconv.FormatFloat(cfg.Layout.StopAlpha, 'g', -1, 64))
	printKeyValue("addr", cfg.Server.Addr)
	printKeyValue("session ttl", cfg.Server.SessionTTL.String())
	printKeyValue("metrics", strconv.FormatBool(cfg.Server.Metrics))
	printKeyValue("tick", cfg.Explore.TickInterval.String())
}
