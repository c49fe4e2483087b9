package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"readq/internal/notes"
	"readq/internal/readinglist"
)

func newNoteCommand(ctx *commandContext) *cobra.Command {
	noteCmd := &cobra.Command{
		Use:   "note",
		Short: "Create, edit and browse notes",
	}

	noteCmd.AddCommand(newNoteAddCommand(ctx))
	noteCmd.AddCommand(newNoteEditCommand(ctx))
	noteCmd.AddCommand(newNoteShowCommand(ctx))
	noteCmd.AddCommand(newNoteRemoveCommand(ctx))
	noteCmd.AddCommand(newNoteListCommand(ctx))
	noteCmd.AddCommand(newNoteTagsCommand(ctx))
	noteCmd.AddCommand(newNoteNewestCommand(ctx))
	noteCmd.AddCommand(newNoteRandomCommand(ctx))
	noteCmd.AddCommand(newNotePDFsCommand(ctx))

	return noteCmd
}

type noteFlags struct {
	title    string
	body     string
	source   string
	tags     []string
	reminder string
	policy   string
}

func (f *noteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&f.body, "body", "b", "", "Note body")
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "Source URL or file path")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag to attach (repeatable)")
	cmd.Flags().StringVar(&f.reminder, "reminder", "", "Free-form reminder")
	cmd.Flags().StringVarP(&f.policy, "policy", "p", "", "Scheduling policy ("+policyHelp()+")")
}

func (f *noteFlags) input() readinglist.NoteInput {
	return readinglist.NoteInput{
		Title:    f.title,
		Body:     f.body,
		Source:   f.source,
		Tags:     f.tags,
		Reminder: f.reminder,
	}
}

type noteResult struct {
	Note      *notes.Note           `json:"note"`
	Placement readinglist.Placement `json:"placement"`
}

func newNoteAddCommand(ctx *commandContext) *cobra.Command {
	var flags noteFlags
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a note and place it in the queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && flags.title == "" {
				flags.title = args[0]
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				policy, err := resolvePolicy(flags.policy, svc.DefaultPolicy())
				if err != nil {
					return err
				}
				note, placement, err := svc.CreateNote(c, flags.input(), policy)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, noteResult{Note: note, Placement: placement})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", describePlacement(note.ID, placement))
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newNoteEditCommand(ctx *commandContext) *cobra.Command {
	var flags noteFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note and reschedule it",
		Long: "Edit replaces the fields given as flags and keeps the rest. The note is\n" +
			"rescheduled under --policy; not-add keeps its current slot.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				current, err := svc.GetNote(c, id)
				if err != nil {
					return err
				}
				in := mergeNoteInput(cmd, current, flags)
				policy, err := resolvePolicy(flags.policy, svc.DefaultPolicy())
				if err != nil {
					return err
				}
				note, placement, err := svc.UpdateNote(c, id, in, policy)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, noteResult{Note: note, Placement: placement})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", describePlacement(note.ID, placement))
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// mergeNoteInput starts from the stored note and overrides only the flags
// the user actually set.
func mergeNoteInput(cmd *cobra.Command, current *notes.Note, flags noteFlags) readinglist.NoteInput {
	in := readinglist.NoteInput{
		Title:    current.Title,
		Body:     current.Body,
		Source:   current.Source,
		Tags:     current.Tags,
		Reminder: current.Reminder,
	}
	changed := cmd.Flags().Changed
	if changed("title") {
		in.Title = flags.title
	}
	if changed("body") {
		in.Body = flags.body
	}
	if changed("source") {
		in.Source = flags.source
	}
	if changed("tag") {
		in.Tags = flags.tags
	}
	if changed("reminder") {
		in.Reminder = flags.reminder
	}
	return in
}

func newNoteShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				note, err := svc.GetNote(c, id)
				if err != nil {
					return err
				}
				return printNote(cmd, ctx, note)
			})
		},
	}
}

func newNoteRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a note and its history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				if err := svc.DeleteNote(c, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
				return nil
			})
		},
	}
}

func newNoteListCommand(ctx *commandContext) *cobra.Command {
	var tags []string
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, optionally filtered by tag or text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				store := svc.Store()
				var (
					list []*notes.Note
					err  error
				)
				switch {
				case len(tags) > 0:
					list, err = store.NotesByTag(c, tags...)
				case strings.TrimSpace(search) != "":
					list, err = store.SearchNotes(c, search)
				default:
					list, err = store.ListNotes(c)
				}
				if err != nil {
					return err
				}
				return printNotes(cmd, ctx, list, "No notes")
			})
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only notes carrying this tag or a child of it")
	cmd.Flags().StringVar(&search, "search", "", "Only notes whose title or body contains this text")
	return cmd
}

func newNoteTagsCommand(ctx *commandContext) *cobra.Command {
	var recent int
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				store := svc.Store()
				out := cmd.OutOrStdout()
				if recent > 0 {
					counts, err := store.RecentTags(c, recent, 10)
					if err != nil {
						return err
					}
					if ctx.jsonOutput() {
						return writeJSON(cmd, counts)
					}
					rows := make([][]string, 0, len(counts))
					for _, tc := range counts {
						rows = append(rows, []string{tc.Tag, fmt.Sprintf("%d", tc.Count)})
					}
					fmt.Fprintln(out, renderTable([]tableColumn{{header: "Tag"}, {header: "Notes", align: alignRight}}, rows))
					return nil
				}
				tags, err := store.Tags(c)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					if tags == nil {
						tags = []string{}
					}
					return writeJSON(cmd, tags)
				}
				for _, tag := range tags {
					fmt.Fprintln(out, tag)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&recent, "recent", 0, "Count tags over the N most recently created notes")
	return cmd
}

func newNoteNewestCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "newest",
		Short: "List the most recently created notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				list, err := svc.Store().NewestNotes(c, limit)
				if err != nil {
					return err
				}
				return printNotes(cmd, ctx, list, "No notes")
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of notes")
	return cmd
}

func newNoteRandomCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "random",
		Short: "List random notes from the whole collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				list, err := svc.Store().RandomNotes(c, limit)
				if err != nil {
					return err
				}
				return printNotes(cmd, ctx, list, "No notes")
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of notes")
	return cmd
}

func newNotePDFsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pdfs",
		Short: "List notes whose source is a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				list, err := svc.Store().PDFNotes(c)
				if err != nil {
					return err
				}
				return printNotes(cmd, ctx, list, "No PDF notes")
			})
		},
	}
}
