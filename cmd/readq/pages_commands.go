package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"readq/internal/notes"
	"readq/internal/readinglist"
)

func newPagesCommand(ctx *commandContext) *cobra.Command {
	pagesCmd := &cobra.Command{
		Use:   "pages",
		Short: "Track reading progress through PDF notes",
	}

	pagesCmd.AddCommand(newPagesReadCommand(ctx))
	pagesCmd.AddCommand(newPagesUnreadCommand(ctx))
	pagesCmd.AddCommand(newPagesListCommand(ctx))

	return pagesCmd
}

func newPagesReadCommand(ctx *commandContext) *cobra.Command {
	var total int
	cmd := &cobra.Command{
		Use:   "read <id> <page>...",
		Short: "Mark pages as read",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			pages, err := parsePages(args[1:])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				store := svc.Store()
				for _, page := range pages {
					if err := store.MarkPageRead(c, id, page, total); err != nil {
						return err
					}
				}
				return printProgress(c, cmd, ctx, store, id)
			})
		},
	}
	cmd.Flags().IntVar(&total, "total", 0, "Total page count of the document")
	return cmd
}

func newPagesUnreadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unread <id> <page>...",
		Short: "Forget that pages were read",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			pages, err := parsePages(args[1:])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				store := svc.Store()
				if _, err := store.GetNote(c, id); err != nil {
					return err
				}
				for _, page := range pages {
					if err := store.MarkPageUnread(c, id, page); err != nil {
						return err
					}
				}
				return printProgress(c, cmd, ctx, store, id)
			})
		},
	}
}

func newPagesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <id>",
		Short: "Show read pages and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				if _, err := svc.GetNote(c, id); err != nil {
					return err
				}
				return printProgress(c, cmd, ctx, svc.Store(), id)
			})
		},
	}
}

type pagesResult struct {
	NoteID   int64              `json:"note_id"`
	Pages    []int              `json:"pages"`
	Progress notes.ReadProgress `json:"progress"`
}

func printProgress(c context.Context, cmd *cobra.Command, ctx *commandContext, store *notes.Store, id int64) error {
	pages, err := store.ReadPages(c, id)
	if err != nil {
		return err
	}
	progress, err := store.Progress(c, id)
	if err != nil {
		return err
	}
	if ctx.jsonOutput() {
		if pages == nil {
			pages = []int{}
		}
		return writeJSON(cmd, pagesResult{NoteID: id, Pages: pages, Progress: progress})
	}
	out := cmd.OutOrStdout()
	if progress.Total > 0 {
		fmt.Fprintf(out, "Note %d: %d of %d pages read\n", id, progress.Read, progress.Total)
	} else {
		fmt.Fprintf(out, "Note %d: %d pages read\n", id, progress.Read)
	}
	if len(pages) > 0 {
		labels := make([]string, len(pages))
		for i, p := range pages {
			labels[i] = fmt.Sprintf("%d", p)
		}
		fmt.Fprintf(out, "Pages: %s\n", strings.Join(labels, " "))
	}
	return nil
}
