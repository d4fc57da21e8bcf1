package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			stdout := cmd.OutOrStdout()

			lines, offset, err := logs.LastLines(cfg.LogFilePath(), limit)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(stdout, line)
			}
			if !follow {
				return nil
			}

			err = logs.Follow(cmd.Context(), cfg.LogFilePath(), offset, func(line string) {
				fmt.Fprintln(stdout, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream new log lines until interrupted")
	cmd.Flags().IntVarP(&limit, "lines", "n", 50, "Number of trailing lines to show")
	return cmd
}
