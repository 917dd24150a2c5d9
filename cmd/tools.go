package cmd

import (
	"fmt"
	"io"
	"os"

	"sentinelmcp/internal/config"
	"sentinelmcp/internal/operations"
	"sentinelmcp/internal/tools"
	"sentinelmcp/pkg/logging"

	"github.com/spf13/cobra"
)

// toolsCmd lists the tool catalogue without connecting to Azure. Discovery
// only registers metadata, so no credentials are needed.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server would expose",
	Long: `Runs tool discovery and prints the resulting catalogue with each
tool's description, without authenticating against Azure or starting a
server. Useful to verify configuration and to see what an MCP client will be
offered.`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.LevelWarn, cfg.Logging.Format, os.Stderr)

	registry, err := tools.Discover(operations.Providers(cfg))
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	printToolCatalogue(cmd.OutOrStdout(), registry)
	return nil
}

func printToolCatalogue(w io.Writer, registry *tools.Registry) {
	fmt.Fprintf(w, "%d tools registered:\n\n", registry.Len())
	for _, name := range registry.Names() {
		tool, _ := registry.Get(name)
		def := tool.Definition()
		fmt.Fprintf(w, "  %s\n      %s\n", def.Name, def.Description)
	}
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
