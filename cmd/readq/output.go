package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"readq/internal/notes"
	"readq/internal/readinglist"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(s, color string, enabled bool) string {
	if !enabled || color == "" {
		return s
	}
	return color + s + ansiReset
}

// colorDelta paints a signed delta. For time, lower is better.
func colorDelta(delta string, lowerIsBetter, enabled bool) string {
	if delta == "" || delta == "+0.00" {
		return delta
	}
	positive := strings.HasPrefix(delta, "+")
	if positive != lowerIsBetter {
		return colorize(delta, ansiGreen, enabled)
	}
	return colorize(delta, ansiRed, enabled)
}

func describePlacement(id int64, p readinglist.Placement) string {
	if !p.Queued() {
		return fmt.Sprintf("note %d is not queued (%d in queue)", id, p.Total)
	}
	return fmt.Sprintf("note %d is at position %d of %d", id, p.Index+1, p.Total)
}

func positionLabel(n *notes.Note) string {
	if n.Position == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n.Position+1)
}

func formatWhen(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func noteRows(list []*notes.Note) [][]string {
	rows := make([][]string, 0, len(list))
	for _, n := range list {
		rows = append(rows, []string{
			positionLabel(n),
			fmt.Sprintf("%d", n.ID),
			n.DisplayTitle(),
			strings.Join(n.Tags, " "),
			formatWhen(n.LastScheduled),
		})
	}
	return rows
}

var noteColumns = []tableColumn{
	{header: "Pos", align: alignRight},
	{header: "ID", align: alignRight},
	{header: "Title", maxWidth: 60},
	{header: "Tags", maxWidth: 30},
	{header: "Scheduled"},
}

func printNotes(cmd *cobra.Command, ctx *commandContext, list []*notes.Note, empty string) error {
	if ctx.jsonOutput() {
		if list == nil {
			list = []*notes.Note{}
		}
		return writeJSON(cmd, list)
	}
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, empty)
		return nil
	}
	fmt.Fprintln(out, renderTable(noteColumns, noteRows(list)))
	return nil
}

func printNote(cmd *cobra.Command, ctx *commandContext, n *notes.Note) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, n)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Note %d: %s\n", n.ID, n.DisplayTitle())
	fmt.Fprintf(out, "  Position:   %s\n", positionLabel(n))
	if n.Source != "" {
		fmt.Fprintf(out, "  Source:     %s\n", n.Source)
	}
	if len(n.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:       %s\n", strings.Join(n.Tags, " "))
	}
	if n.Reminder != "" {
		fmt.Fprintf(out, "  Reminder:   %s\n", n.Reminder)
	}
	fmt.Fprintf(out, "  Created:    %s\n", formatWhen(&n.CreatedAt))
	fmt.Fprintf(out, "  Modified:   %s\n", formatWhen(&n.ModifiedAt))
	fmt.Fprintf(out, "  Scheduled:  %s\n", formatWhen(n.LastScheduled))
	if body := strings.TrimSpace(n.Body); body != "" {
		fmt.Fprintf(out, "\n%s\n", body)
	}
	return nil
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

func renderStatusLine(label string, kind statusKind, value string, color bool) string {
	var tint string
	switch kind {
	case statusOK:
		tint = ansiGreen
	case statusWarn:
		tint = ansiYellow
	case statusError:
		tint = ansiRed
	default:
		tint = ansiBlue
	}
	return fmt.Sprintf("  %-12s %s", label+":", colorize(value, tint, color))
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
