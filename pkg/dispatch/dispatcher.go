// Package dispatch routes invocations through lookup, validation and
// execution, and guarantees exactly one well-formed Reply per Invocation.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
	"github.com/atelierlabs/workbench/pkg/schema"
)

// Dispatcher executes tool invocations against a registry.
type Dispatcher struct {
	registry *registry.Registry
	logger   *slog.Logger
	metrics  *Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New creates a Dispatcher over reg.
func New(reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs one invocation: lookup, validate, execute, envelope.
// Unknown tools and invalid parameters short-circuit before any handler
// runs. Handler panics and errors are converted into execution_error
// Results; the Reply always carries the original invocation ID.
func (d *Dispatcher) Dispatch(ctx context.Context, inv domain.Invocation) domain.Reply {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}

	start := time.Now()
	result := d.execute(ctx, inv)
	d.observe(inv.Tool, result, time.Since(start))

	return domain.Reply{ID: inv.ID, Result: result}
}

func (d *Dispatcher) execute(ctx context.Context, inv domain.Invocation) domain.Result {
	def, err := d.registry.Lookup(inv.Tool)
	if err != nil {
		d.logger.Warn("unknown tool", "tool", inv.Tool, "id", inv.ID)
		return domain.Errorf(domain.FailureNotFound, "unknown tool %q", inv.Tool)
	}

	params, err := schema.Validate(def.Schema, inv.Args)
	if err != nil {
		d.logger.Debug("validation failed", "tool", inv.Tool, "id", inv.ID, "err", err)
		return domain.ErrorResult(domain.FailureValidation, err.Error())
	}

	return d.invoke(ctx, def, params, inv.ID)
}

// invoke runs the handler with panic recovery. A panic inside a handler
// must not take down the transport loop.
func (d *Dispatcher) invoke(ctx context.Context, def *registry.Definition, params map[string]any, id string) (result domain.Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panic", "tool", def.Name, "id", id, "panic", r)
			result = domain.Errorf(domain.FailureExecution, "tool %q panicked: %v", def.Name, r)
		}
	}()

	res, err := def.Handler(ctx, params)
	if err != nil {
		d.logger.Debug("handler error", "tool", def.Name, "id", id, "err", err)
		return domain.ErrorResult(domain.FailureExecution, err.Error())
	}
	return res
}

func (d *Dispatcher) observe(tool string, result domain.Result, elapsed time.Duration) {
	if d.metrics == nil {
		return
	}
	d.metrics.Observe(tool, outcomeOf(result), elapsed)
}

func outcomeOf(result domain.Result) string {
	if !result.IsError {
		return "ok"
	}
	text := result.Text()
	for _, kind := range []domain.FailureKind{domain.FailureNotFound, domain.FailureValidation, domain.FailureExecution} {
		prefix := string(kind) + ":"
		if len(text) >= len(prefix) && text[:len(prefix)] == prefix {
			return string(kind)
		}
	}
	return "error"
}
