package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aretw0/scout/internal/logging"
	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/observability"
)

// Content is one item of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is a successful tool outcome: exactly one text item holding
// indented JSON.
type Result struct {
	Content []Content `json:"content"`
}

// Text returns the text of the first content item.
func (r *Result) Text() string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics records one tool call outcome per Call.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// Dispatcher routes named requests to registered tools.
type Dispatcher struct {
	registry *Registry
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over reg.
func NewDispatcher(reg *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{registry: reg, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the tools this dispatcher serves.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Call runs one tool request. Any error returned is a *ToolError.
func (d *Dispatcher) Call(ctx context.Context, req domain.ToolRequest) (res *Result, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = Classify(err).Code.String()
		}
		d.metrics.ObserveTool(req.Name, outcome)
	}()

	tool, ok := d.registry.Lookup(req.Name)
	if !ok {
		return nil, Errorf(CodeMethodNotFound, "unknown tool: %s", req.Name)
	}

	args := req.Arguments
	if args == nil {
		args = map[string]any{}
	}

	out, err := d.invoke(ctx, tool, args)
	if err != nil {
		te := Classify(err)
		d.logger.Warn("tool call failed", "tool", req.Name, "code", te.Code.String(), "error", te.Message, "elapsed", time.Since(start))
		return nil, te
	}

	text, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, Errorf(CodeInternalError, "encoding result: %v", err)
	}
	d.logger.Debug("tool call completed", "tool", req.Name, "elapsed", time.Since(start))
	return &Result{Content: []Content{{Type: "text", Text: string(text)}}}, nil
}

func (d *Dispatcher) invoke(ctx context.Context, tool Tool, args map[string]any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool panicked", "tool", tool.Name, "panic", r)
			err = Errorf(CodeInternalError, "tool %s failed: %v", tool.Name, r)
		}
	}()
	out, err = tool.Handler(ctx, args)
	if err != nil {
		return nil, err
	}
	return out, nil
}
