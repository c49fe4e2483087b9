package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"readq/internal/readinglist"
	"readq/internal/scoring"
)

func newScoreCommand(ctx *commandContext) *cobra.Command {
	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "Review performance reports",
	}

	scoreCmd.AddCommand(newScoreShowCommand(ctx))
	scoreCmd.AddCommand(newScoreLowestCommand(ctx))
	scoreCmd.AddCommand(newScoreBaselineCommand(ctx))

	return scoreCmd
}

func newScoreShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Score one note against the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				report, err := svc.ScoreNote(c, id)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, report)
				}
				printReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

func printReport(out io.Writer, report readinglist.NoteReport) {
	color := shouldColorize(out)
	s := report.Summary

	fmt.Fprintf(out, "Note %d: %s\n", report.Note.ID, report.Note.DisplayTitle())
	fmt.Fprintf(out, "  Reviews:    %d (fail %d, hard %d, good %d, easy %d)\n", s.Reviews, s.Failed, s.Hard, s.Good, s.Easy)
	if s.Reviews == 0 {
		fmt.Fprintln(out, "  No reviews yet")
		return
	}
	fmt.Fprintf(out, "  Retention:  %.1f%%  %s vs %.1f%%\n",
		s.Retention(), colorDelta(report.RetentionDelta, false, color), report.Baseline.RetentionPct)
	fmt.Fprintf(out, "  Avg time:   %.1fs  %s vs %.1fs\n",
		s.AvgTime(), colorDelta(report.TimeDelta, true, color), report.Baseline.AvgTimeSec)
	if report.Score == nil {
		fmt.Fprintf(out, "  Score:      not enough reviews (need %d)\n", scoring.MinSample)
		return
	}
	sc := report.Score
	fmt.Fprintf(out, "  Score:      %d (time %d, retention %d, rating %d)\n",
		sc.Composite, sc.TimeScore, sc.RetentionScore, sc.RatingScore)
}

func newScoreLowestCommand(ctx *commandContext) *cobra.Command {
	var (
		limit     int
		retention bool
	)
	cmd := &cobra.Command{
		Use:   "lowest",
		Short: "List the weakest notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			metric := scoring.ByComposite
			if retention {
				metric = scoring.ByRetention
			}
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				ranked, err := svc.LowestPerformers(c, metric, limit)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, ranked)
				}
				out := cmd.OutOrStdout()
				if len(ranked) == 0 {
					fmt.Fprintf(out, "No note has %d or more scored reviews\n", scoring.MinSample)
					return nil
				}
				rows := make([][]string, 0, len(ranked))
				for i, p := range ranked {
					rows = append(rows, []string{
						fmt.Sprintf("%d", i+1),
						fmt.Sprintf("%d", p.ID),
						p.Title,
						fmt.Sprintf("%d", p.Score.Composite),
						fmt.Sprintf("%.1f%%", p.Retention),
					})
				}
				fmt.Fprintln(out, renderTable([]tableColumn{
					{header: "#", align: alignRight},
					{header: "ID", align: alignRight},
					{header: "Title", maxWidth: 60},
					{header: "Score", align: alignRight},
					{header: "Retention", align: alignRight},
				}, rows))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of notes (default from config)")
	cmd.Flags().BoolVar(&retention, "retention", false, "Rank by retention instead of the composite score")
	return cmd
}

func newScoreBaselineCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "baseline",
		Short: "Show collection-wide retention and average time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *readinglist.Service) error {
				base, err := svc.Baseline(c)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, base)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Retention: %.1f%%\n", base.RetentionPct)
				fmt.Fprintf(out, "Avg time:  %.1fs\n", base.AvgTimeSec)
				return nil
			})
		},
	}
}
