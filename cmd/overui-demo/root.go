package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/odvcencio/overui/pkg/config"
	"github.com/odvcencio/overui/pkg/logging"
	"github.com/odvcencio/overui/pkg/telemetry"
)

type rootOptions struct {
	configPath string
	logLevel   string
	keys       string

	cfg      *config.Config
	registry *prometheus.Registry
	hub      *telemetry.Hub
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "overui-demo",
		Short:        "Headless UI primitives demo",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (default: ~/.overui/config.yaml, ./.overui/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.keys, "keys", "", "comma separated keys replayed before start, e.g. Tab,Enter,Shift+Tab,Space")

	cmd.AddCommand(newRunCmd(opts), newInspectCmd(opts))
	return cmd
}

func (o *rootOptions) load() error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	o.cfg = cfg
	o.registry = prometheus.NewRegistry()
	o.hub = telemetry.NewHub()
	return nil
}

// logger builds the configured logger writing its console core to w.
func (o *rootOptions) logger(w io.Writer) (*zap.Logger, error) {
	logger, err := logging.New(o.cfg.Logging, zapcore.AddSync(w))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// recorder sends engine metrics to both the prometheus registry and the
// event hub.
func (o *rootOptions) recorder() telemetry.Recorder {
	return telemetry.Tee(telemetry.NewMetrics(o.registry), o.hub.Recorder())
}
