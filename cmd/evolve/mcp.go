package main

import (
	"github.com/Inventure71/EvolveProject/mcp"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol commands",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool registry over MCP stdio",
	Long:  `Expose every builtin, manifest and upstream MCP tool to MCP clients over stdin and stdout. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, remote, err := buildRegistry(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer remote.Close()

		name, _ := cmd.Flags().GetString("name")
		return mcp.ServeStdio(registry, mcp.WithName(name), mcp.WithVersion(mcp.Version))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpServeCmd)
	mcpServeCmd.Flags().String("name", "evolve", "server name announced to clients")
}
