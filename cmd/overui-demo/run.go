package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/overui/pkg/telemetry"
	tcellbackend "github.com/odvcencio/overui/pkg/ui/backend/tcell"
	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/primitives"
	"github.com/odvcencio/overui/pkg/ui/runtime"
)

const runHeader = "overui demo  Tab/Shift+Tab move  Enter/Space activate  Esc dismiss  Ctrl+C quit"

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the interactive terminal demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := opts.run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}

func (o *rootOptions) run(ctx context.Context) error {
	keys, err := parseKeys(o.keys)
	if err != nil {
		return err
	}
	// The screen owns the terminal; only the file core, if configured, sees logs.
	logger, err := o.logger(io.Discard)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	be, err := tcellbackend.New(tcellbackend.WithMouse(o.cfg.UI.Mouse))
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}

	doc := dom.NewDocument()
	env := primitives.NewEnv(doc,
		primitives.WithConfig(o.cfg),
		primitives.WithLogger(logger),
		primitives.WithMetrics(o.recorder()),
	)
	d, err := buildDemo(env)
	if err != nil {
		return fmt.Errorf("build demo: %w", err)
	}
	d.replay(keys)

	app := runtime.NewApp(runtime.AppConfig{
		Backend:  be,
		Document: doc,
		Logger:   logger.Named("runtime"),
		Mouse:    o.cfg.UI.Mouse,
		Header:   runHeader,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return app.Run(gctx)
	})
	if o.cfg.UI.Inspector {
		events, unsubscribe := o.hub.Subscribe()
		defer unsubscribe()
		g.Go(func() error { return showActivity(gctx, app, events) })
	}
	return g.Wait()
}

// showActivity mirrors engine events onto the status row until ctx ends.
func showActivity(ctx context.Context, app *runtime.App, events <-chan telemetry.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.SetStatus(ctx, statusLine(ev)); err != nil {
				if ctx.Err() != nil || errors.Is(err, runtime.ErrStopped) {
					return nil
				}
				return err
			}
		}
	}
}

func statusLine(ev telemetry.Event) string {
	if ev.Detail == "" {
		return string(ev.Type)
	}
	return string(ev.Type) + " " + ev.Detail
}
