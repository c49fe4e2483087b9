package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"readq/internal/readinglist"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the reading queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueHeadCommand(ctx))
	queueCmd.AddCommand(newQueueRandomCommand(ctx))
	queueCmd.AddCommand(newQueueDoneCommand(ctx))
	queueCmd.AddCommand(newQueueDequeueCommand(ctx))
	queueCmd.AddCommand(newQueueOrderCommand(ctx))
	queueCmd.AddCommand(newQueueRepairCommand(ctx))
	queueCmd.AddCommand(newQueueStatusCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List queued notes in reading order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				list, err := svc.Queue(c)
				if err != nil {
					return err
				}
				return printNotes(cmd, ctx, list, "Queue is empty")
			})
		},
	}
}

func newQueueHeadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "head",
		Short: "Show the note at the front of the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				note, err := svc.Head(c)
				if readinglist.IsNotFound(err) {
					return fmt.Errorf("queue is empty")
				}
				if err != nil {
					return err
				}
				return printNote(cmd, ctx, note)
			})
		},
	}
}

func newQueueRandomCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Show a random queued note",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				note, err := svc.RandomQueued(c)
				if readinglist.IsNotFound(err) {
					return fmt.Errorf("queue is empty")
				}
				if err != nil {
					return err
				}
				return printNote(cmd, ctx, note)
			})
		},
	}
}

func newQueueDoneCommand(ctx *commandContext) *cobra.Command {
	var policyFlag string
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a note as read and schedule it again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				policy, err := resolvePolicy(policyFlag, svc.ConsumePolicy())
				if err != nil {
					return err
				}
				placement, err := svc.MarkConsumed(c, id, policy)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, placement)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Done: %s\n", describePlacement(id, placement))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&policyFlag, "policy", "p", "", "Scheduling policy ("+policyHelp()+")")
	return cmd
}

func newQueueDequeueCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dequeue <id>",
		Short: "Take a note out of the queue without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				removed, err := svc.Dequeue(c, id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if removed {
					fmt.Fprintf(out, "Removed note %d from the queue\n", id)
				} else {
					fmt.Fprintf(out, "Note %d was not queued\n", id)
				}
				return nil
			})
		},
	}
}

func newQueueOrderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id>...",
		Short: "Replace the queue order with the given note IDs",
		Long:  "Order takes every queued note ID exactly once, front of the queue first.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseNoteIDs(args)
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				if err := svc.Reorder(c, ids); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d notes\n", len(ids))
				return nil
			})
		},
	}
}

func newQueueRepairCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Renumber queue positions densely, keeping their order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				moved, err := svc.Repair(c)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if moved == 0 {
					fmt.Fprintln(out, "Queue positions are already dense")
					return nil
				}
				fmt.Fprintf(out, "Repaired queue: %d notes moved\n", moved)
				return nil
			})
		},
	}
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database and queue health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				status, err := svc.Status(c)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, status)
				}
				out := cmd.OutOrStdout()
				color := shouldColorize(out)
				health := status.Health

				fmt.Fprintln(out, "Database")
				fmt.Fprintln(out, renderStatusLine("Path", statusInfo, health.DBPath, color))
				fmt.Fprintln(out, renderStatusLine("Schema", statusInfo, fmt.Sprintf("version %d", health.SchemaVersion), color))
				if health.Error != "" {
					fmt.Fprintln(out, renderStatusLine("Health", statusError, health.Error, color))
				} else {
					fmt.Fprintln(out, renderStatusLine("Health", statusOK, "readable", color))
				}
				fmt.Fprintln(out, renderStatusLine("Free space", statusInfo, formatBytes(health.FreeBytes), color))

				fmt.Fprintln(out)
				fmt.Fprintln(out, "Queue")
				if health.QueueDense {
					fmt.Fprintln(out, renderStatusLine("Positions", statusOK, "dense", color))
				} else {
					fmt.Fprintln(out, renderStatusLine("Positions", statusWarn, "gaps found, run `readq queue repair`", color))
				}
				fmt.Fprintln(out, renderStatusLine("Queued", statusInfo, fmt.Sprintf("%d of %d notes", status.Stats.Queued, status.Stats.Notes), color))
				fmt.Fprintln(out, renderStatusLine("Reviews", statusInfo, fmt.Sprintf("%d", status.Stats.Reviews), color))
				fmt.Fprintln(out, renderStatusLine("Pages read", statusInfo, fmt.Sprintf("%d (%d today)", status.Stats.PagesRead, status.ReadToday), color))
				return nil
			})
		},
	}
}
