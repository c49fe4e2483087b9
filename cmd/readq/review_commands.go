package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"readq/internal/notes"
	"readq/internal/readinglist"
	"readq/internal/scoring"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Record and list review events",
	}

	reviewCmd.AddCommand(newReviewLogCommand(ctx))
	reviewCmd.AddCommand(newReviewListCommand(ctx))

	return reviewCmd
}

func newReviewLogCommand(ctx *commandContext) *cobra.Command {
	var (
		outcomeFlag string
		duration    time.Duration
		kind        string
	)
	cmd := &cobra.Command{
		Use:   "log <id>",
		Short: "Record one review of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			outcome, err := scoring.ParseOutcome(outcomeFlag)
			if err != nil {
				return err
			}
			if duration < 0 || duration.Milliseconds() > math.MaxUint32 {
				return fmt.Errorf("duration %s out of range", duration)
			}
			event := scoring.ReviewEvent{Outcome: outcome, DurationMS: uint32(duration.Milliseconds())}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				review, err := svc.LogReview(c, id, kind, event)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, review)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s for note %d (%s)\n",
					review.Kind, review.Outcome, id, formatDurationMS(review.DurationMS))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outcomeFlag, "outcome", "o", "", "fail, hard, good or easy (or 1-4)")
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "Time spent, e.g. 12s")
	cmd.Flags().StringVarP(&kind, "kind", "k", notes.KindReview, "learn, review, relearn or cram")
	_ = cmd.MarkFlagRequired("outcome")
	return cmd
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <id>",
		Short: "List the review log of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				reviews, err := svc.Reviews(c, id)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					if reviews == nil {
						reviews = []notes.Review{}
					}
					return writeJSON(cmd, reviews)
				}
				out := cmd.OutOrStdout()
				if len(reviews) == 0 {
					fmt.Fprintf(out, "No reviews for note %d\n", id)
					return nil
				}
				rows := make([][]string, 0, len(reviews))
				for _, r := range reviews {
					at := r.ReviewedAt
					rows = append(rows, []string{
						formatWhen(&at),
						r.Kind,
						r.Outcome.String(),
						formatDurationMS(r.DurationMS),
					})
				}
				fmt.Fprintln(out, renderTable([]tableColumn{
					{header: "When"},
					{header: "Kind"},
					{header: "Outcome"},
					{header: "Time", align: alignRight},
				}, rows))
				return nil
			})
		},
	}
}

func formatDurationMS(ms uint32) string {
	return (time.Duration(ms) * time.Millisecond).Round(100 * time.Millisecond).String()
}
