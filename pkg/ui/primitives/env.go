// Package primitives builds accessible widgets on top of the focus trap,
// dismiss and roving engines. Widgets own their DOM elements and attach
// behaviour through listeners; callers place the returned elements in a
// document.
package primitives

import (
	"go.uber.org/zap"

	"github.com/odvcencio/overui/pkg/config"
	"github.com/odvcencio/overui/pkg/telemetry"
	"github.com/odvcencio/overui/pkg/ui/dismiss"
	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/focustrap"
)

// Env carries the services every widget mounts against. One Env serves a
// whole document; it is the only place the trap stack and layer registry
// live.
type Env struct {
	Doc     *dom.Document
	Traps   *focustrap.Stack
	Layers  *dismiss.Registry
	Config  *config.Config
	Logger  *zap.Logger
	Metrics telemetry.Recorder
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithConfig supplies defaults for widget behaviour.
func WithConfig(cfg *config.Config) EnvOption {
	return func(e *Env) {
		if cfg != nil {
			e.Config = cfg
		}
	}
}

// WithLogger sets the logger handed to every engine.
func WithLogger(logger *zap.Logger) EnvOption {
	return func(e *Env) {
		if logger != nil {
			e.Logger = logger
		}
	}
}

// WithMetrics sets the recorder handed to every engine.
func WithMetrics(r telemetry.Recorder) EnvOption {
	return func(e *Env) { e.Metrics = telemetry.OrNop(r) }
}

// NewEnv creates an Env with a fresh trap stack and layer registry.
func NewEnv(doc *dom.Document, opts ...EnvOption) *Env {
	e := &Env{
		Doc:     doc,
		Traps:   focustrap.NewStack(),
		Layers:  dismiss.NewRegistry(),
		Config:  config.DefaultConfig(),
		Logger:  zap.NewNop(),
		Metrics: telemetry.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Env) valid() bool {
	return e != nil && e.Doc != nil && e.Traps != nil && e.Layers != nil
}

func (e *Env) named(name string) *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger.Named(name)
}

func (e *Env) metrics() telemetry.Recorder {
	return telemetry.OrNop(e.Metrics)
}

func (e *Env) config() *config.Config {
	if e.Config == nil {
		return config.DefaultConfig()
	}
	return e.Config
}

// listeners collects remove funcs so a widget can detach in one call.
type listeners []func()

func (l *listeners) add(off func()) { *l = append(*l, off) }

func (l *listeners) removeAll() {
	for _, off := range *l {
		off()
	}
	*l = nil
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func openState(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}
