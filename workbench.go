package workbench

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/atelierlabs/workbench/internal/config"
	"github.com/atelierlabs/workbench/internal/tools/database"
	"github.com/atelierlabs/workbench/internal/tools/email"
	"github.com/atelierlabs/workbench/internal/tools/envfile"
	"github.com/atelierlabs/workbench/internal/tools/file"
	"github.com/atelierlabs/workbench/internal/tools/network"
	"github.com/atelierlabs/workbench/internal/tools/process"
	mcpadapter "github.com/atelierlabs/workbench/pkg/adapters/mcp"
	"github.com/atelierlabs/workbench/pkg/dispatch"
	"github.com/atelierlabs/workbench/pkg/registry"
)

// Version is the release version reported by the version command and the
// MCP handshake.
const Version = "0.1.0"

// Workbench is the high-level entry point for the library. It owns the
// tool registry, the dispatcher, and the resources the tools share.
type Workbench struct {
	cfg      *config.Config
	registry *registry.Registry
	dispatch *dispatch.Dispatcher
	server   *mcpadapter.Server
	dbHolder *database.Holder
	logger   *slog.Logger
	reg      prometheus.Registerer
	extra    []registry.Definition
}

// Option configures a Workbench.
type Option func(*Workbench)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workbench) {
		w.logger = logger
	}
}

// WithRegisterer sets the Prometheus registerer for dispatch metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(w *Workbench) {
		w.reg = reg
	}
}

// WithTools registers additional tool definitions alongside the built-in
// toolsets.
func WithTools(defs ...registry.Definition) Option {
	return func(w *Workbench) {
		w.extra = append(w.extra, defs...)
	}
}

// New assembles a Workbench rooted at dir: it loads configuration from
// the directory, builds every toolset, registers the tools, and wires the
// dispatcher and MCP adapter.
func New(dir string, opts ...Option) (*Workbench, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	w := &Workbench{
		cfg:      cfg,
		dbHolder: database.NewHolder(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if w.reg == nil {
		w.reg = prometheus.DefaultRegisterer
	}

	reg := registry.New()
	toolsets := []interface {
		Register(*registry.Registry) error
	}{
		process.New(cfg, w.logger),
		file.New(cfg),
		envfile.New(cfg),
		network.New(nil),
		email.New(cfg),
		database.New(w.dbHolder),
	}
	for _, ts := range toolsets {
		if err := ts.Register(reg); err != nil {
			return nil, err
		}
	}
	if err := reg.RegisterAll(w.extra...); err != nil {
		return nil, err
	}

	w.registry = reg
	w.dispatch = dispatch.New(reg,
		dispatch.WithLogger(w.logger),
		dispatch.WithMetrics(dispatch.NewMetrics(w.reg)),
	)
	w.server = mcpadapter.NewServer("workbench", Version, reg, w.dispatch, mcpadapter.WithLogger(w.logger))
	return w, nil
}

// Workspace returns the absolute path file and process tools operate in.
func (w *Workbench) Workspace() string {
	return w.cfg.Workspace
}

// Registry returns the tool registry, mainly for listing.
func (w *Workbench) Registry() *registry.Registry {
	return w.registry
}

// Dispatcher returns the dispatcher for direct, in-process tool calls.
func (w *Workbench) Dispatcher() *dispatch.Dispatcher {
	return w.dispatch
}

// Server returns the MCP adapter.
func (w *Workbench) Server() *mcpadapter.Server {
	return w.server
}

// Close releases resources owned by the toolsets, such as the database
// connection pool.
func (w *Workbench) Close() error {
	return w.dbHolder.Close()
}
