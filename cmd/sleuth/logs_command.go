package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sleuth/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs [run-id]",
		Short: "Show the main log or a run's log",
		Long: `Print the tail of the main log, or of the per-run log selected by a run
id prefix. With --follow the command keeps streaming appended lines until
interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var runID string
			if len(args) == 1 {
				runID = args[0]
			}
			path, err := logs.Locate(cfg.Paths.LogDir, runID)
			if err != nil {
				return err
			}

			tail, offset, err := logs.LastLines(path, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tail) == 0 && !follow {
				fmt.Fprintf(out, "No log lines in %s\n", path)
				return nil
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			followCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return logs.Follow(followCtx, path, offset, out)
		},
	}

	cmd.Flags().IntVar(&lines, "lines", 50, "Trailing lines to print")
	cmd.Flags().BoolVar(&follow, "follow", false, "Keep streaming appended lines")
	return cmd
}
