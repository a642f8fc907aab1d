package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/l1jgo/navigator/internal/replay"
)

func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>...",
		Short: "Play scenario files and print the event trace",
		Long: `Replay runs each scenario against a fresh registry and prints, for every
step, the events delivered and the registry contents afterwards.

Scenarios may enable any strategy named in the config, including scripted
ones and built-ins that are switched off for watch.

Examples:
  navigator replay testdata/scenarios/portals.yaml
  navigator replay --format yaml -c navigator.toml toggle.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, cmd, args)
		},
	}
	return cmd
}

func runReplay(opts *RootOptions, cmd *cobra.Command, paths []string) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	set, err := buildStrategies(cfg.Grouping, log)
	if err != nil {
		return err
	}
	defer set.Close()
	catalog := replay.NewCatalog(set.all...)

	out := cmd.OutOrStdout()
	for i, path := range paths {
		sc, err := replay.Load(path)
		if err != nil {
			return err
		}
		tr, err := replay.Run(cmd.Context(), sc, catalog, log)
		if err != nil {
			return fmt.Errorf("replay %s: %w", path, err)
		}
		if err := writeTrace(out, tr, opts.Format, i > 0); err != nil {
			return err
		}
	}
	return nil
}

func writeTrace(w io.Writer, tr *replay.Trace, format string, separate bool) error {
	if format == "yaml" {
		if separate {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		return tr.WriteYAML(w)
	}
	if separate {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return tr.WriteText(w)
}
