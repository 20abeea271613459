// Package mcp exposes the tool registry over the Model Context Protocol.
// JSON-RPC framing is owned by the mcp-go SDK; this adapter only translates
// between registry definitions and MCP tool declarations, and routes every
// call through the dispatcher.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atelierlabs/workbench/pkg/dispatch"
	"github.com/atelierlabs/workbench/pkg/registry"
)

// Server wraps an MCP SDK server around a registry and dispatcher.
type Server struct {
	dispatcher *dispatch.Dispatcher
	mcpServer  *server.MCPServer
	logger     *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer advertises every definition in reg as an MCP tool.
func NewServer(name, version string, reg *registry.Registry, d *dispatch.Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		mcpServer:  server.NewMCPServer(name, version),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools(reg)
	return s
}

// ServeStdio starts the server on Stdin/Stdout. Logs must go to Stderr so
// they do not corrupt the JSON-RPC stream.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE, alongside health
// and metrics endpoints. It shuts down gracefully when ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Handle("/sse", sseServer.SSEHandler())
	r.Handle("/message", sseServer.MessageHandler())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools(reg *registry.Registry) {
	for _, def := range reg.List() {
		s.mcpServer.AddTool(declareTool(def), s.handlerFor(def.Name))
	}
}

// handlerFor routes a CallToolRequest through the dispatcher. The dispatcher
// owns validation and failure normalization, so this handler never returns
// a transport-level error for tool failures.
func (s *Server) handlerFor(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reply := s.dispatcher.Dispatch(ctx, invocationFrom(name, request))
		if reply.Result.IsError {
			return mcp.NewToolResultError(reply.Result.Text()), nil
		}
		return mcp.NewToolResultText(reply.Result.Text()), nil
	}
}
