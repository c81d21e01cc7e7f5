package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/scout"
	"github.com/aretw0/scout/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the lookup and collection tools to an MCP client.

Transports:
  stdio  the client spawns scout and talks over stdin/stdout (default)
  sse    Server-Sent Events on /sse with messages posted to /message`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, logger, err := newService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		if !cmd.Flags().Changed("port") {
			port = svc.Config().Server.Port
		}

		srv := mcp.NewServer(svc.Dispatcher(), scout.Version, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("starting scout MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting scout MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port, svc.Config().Server.BaseURL); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8080, "SSE listen port (defaults to server.port from config)")
}
