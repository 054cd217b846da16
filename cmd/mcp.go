package cmd

import (
	"github.com/huangsam/trendspot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Trendspot MCP server",
	Long:  `Launch an MCP server that allows AI agents to run trend evaluations via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Evaluation output must not pollute stdio, which carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
