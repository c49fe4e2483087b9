package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"readq/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		noteID int64
		level  string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the readq log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, "readq.log")

			var filters []logs.Filter
			if noteID > 0 {
				filters = append(filters, logs.ForNote(noteID))
			}
			if level != "" {
				filters = append(filters, logs.MinLevel(level))
			}
			keep := logs.All(filters...)

			recent, offset, err := logs.Last(path, lines, keep)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range recent {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			err = logs.Follow(cmd.Context(), path, offset, 0, keep, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().Int64Var(&noteID, "note", 0, "Only lines about this note")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level (debug, info, warn, error)")
	return cmd
}
