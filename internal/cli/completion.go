package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/courseflow/pkg/catalog"
	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/hierarchy"
)

// completionCommand creates the completion command. Beyond subcommands and
// flags, the generated scripts complete grouping modes, output formats,
// catalog files and the node IDs of the catalog being worked on.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: fmt.Sprintf(`Generate a shell completion script for %[1]s.

Completions cover grouping modes (--mode), output formats (--format),
catalog JSON files and node IDs for --scope, read from the catalog named on
the command line or in the config file.

Load for the current shell:
  bash:        source <(%[1]s completion bash)
  zsh:         source <(%[1]s completion zsh)
  fish:        %[1]s completion fish | source
  powershell:  %[1]s completion powershell | Out-String | Invoke-Expression`, appName),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// registerCompletions attaches completion to cmd's catalog argument and to
// whichever of --mode, --scope and --format it defines.
func (c *CLI) registerCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeCatalogFile
	funcs := map[string]func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective){
		"mode":   completeModes,
		"scope":  c.completeScope,
		"format": completeFormats,
	}
	for name, fn := range funcs {
		if cmd.Flags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, fn)
		}
	}
}

func completeModes(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, m := range catalog.Modes {
		if strings.HasPrefix(string(m), strings.ToLower(toComplete)) {
			out = append(out, string(m))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last element of a comma-separated format
// list, skipping formats already named.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	chosen := strings.Split(prefix, ",")

	var out []string
	for f := range graph.ValidFormats {
		if strings.HasPrefix(f, last) && !slices.Contains(chosen, f) {
			out = append(out, prefix+f)
		}
	}
	slices.Sort(out)
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeCatalogFile limits the positional argument to JSON files.
func completeCatalogFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeScope lists the node IDs of the catalog for the selected mode,
// each described by its label.
func (c *CLI) completeScope(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if c.Config == nil {
		if err := c.loadConfig(); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}
	cat, _, err := c.loadCatalog(args)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	modeName, _ := cmd.Flags().GetString("mode")
	if modeName == "" {
		modeName = c.Config.Catalog.Mode
	}
	mode, err := catalog.ParseMode(modeName)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	root, err := cat.HierarchicalData(context.Background(), mode)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return scopeCandidates(root, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// scopeCandidates returns "id\tlabel" entries for every node whose ID starts
// with prefix, in pre-order.
func scopeCandidates(root *hierarchy.Node, prefix string) []string {
	var out []string
	root.Walk(func(n *hierarchy.Node) bool {
		if strings.HasPrefix(n.ID, prefix) {
			out = append(out, n.ID+"\t"+n.Label())
		}
		return true
	})
	return out
}
