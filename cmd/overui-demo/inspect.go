package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/odvcencio/overui/pkg/ui/dom"
	"github.com/odvcencio/overui/pkg/ui/inspect"
	"github.com/odvcencio/overui/pkg/ui/primitives"
)

type inspectFlags struct {
	color   bool
	hidden  bool
	events  bool
	metrics bool
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	flags := &inspectFlags{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the demo element tree after replaying --keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("color") {
				flags.color = isTerminal(out)
			}
			return opts.inspect(out, cmd.ErrOrStderr(), flags)
		},
	}
	cmd.Flags().BoolVar(&flags.color, "color", false, "style the active, disabled and hidden rows (default: when stdout is a terminal)")
	cmd.Flags().BoolVar(&flags.hidden, "hidden", false, "include elements that are not rendered")
	cmd.Flags().BoolVar(&flags.events, "events", false, "print the engine events raised by the replay")
	cmd.Flags().BoolVar(&flags.metrics, "metrics", false, "print the engine metrics after the replay")
	return cmd
}

func (o *rootOptions) inspect(out, errOut io.Writer, flags *inspectFlags) error {
	keys, err := parseKeys(o.keys)
	if err != nil {
		return err
	}
	logger, err := o.logger(errOut)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	events, unsubscribe := o.hub.Subscribe()
	defer unsubscribe()

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

	if err := inspect.Write(out, doc, inspect.Options{Plain: !flags.color, Color: flags.color, ShowHidden: flags.hidden}); err != nil {
		return err
	}

	if flags.events {
		o.hub.Close()
		fmt.Fprintln(out)
		for ev := range events {
			fmt.Fprintln(out, statusLine(ev))
		}
	}
	if flags.metrics {
		fmt.Fprintln(out)
		if err := o.writeMetrics(out); err != nil {
			return err
		}
	}
	return nil
}

// writeMetrics prints every gathered sample as name{labels} value, sorted.
func (o *rootOptions) writeMetrics(out io.Writer) error {
	families, err := o.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			default:
				continue
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, value))
		}
	}
	slices.Sort(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
