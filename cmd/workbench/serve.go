package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atelierlabs/workbench"
	"github.com/atelierlabs/workbench/internal/logging"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Workbench as an MCP server.
This lets AI agents (like Claude Desktop) call the project tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			dir = args[0]
		}

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		levelName, _ := cmd.Flags().GetString("log-level")

		// Logs go to stderr so stdio transport keeps stdout for JSON-RPC.
		logger := logging.New(logging.ParseLevel(levelName))

		wb, err := workbench.New(dir, workbench.WithLogger(logger))
		if err != nil {
			log.Fatalf("Error initializing workbench: %v", err)
		}
		defer wb.Close()

		srv := wb.Server()

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			logger.Info("starting MCP server (stdio)", "workspace", wb.Workspace())
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			logger.Info("starting MCP server (SSE)", "port", port, "workspace", wb.Workspace())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					logger.Error("MCP server execution failed", "err", err)
					os.Exit(1)
				}
			}
			logger.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	serveCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	serveCmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
}
