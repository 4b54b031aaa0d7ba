package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printCheckResult(result *domain.CheckResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Check:\t%s\n", result.ID)
	tw.writef("Status:\t%s\n", result.Status)
	tw.writef("Duration:\t%s\n", result.CompletedAt.Sub(result.StartedAt).Round(10*time.Millisecond))
	if err := tw.finish(); err != nil {
		return err
	}

	if len(result.Trains) > 0 {
		fmt.Println()
		tw = newTabWriter(os.Stdout)
		tw.writef("TRAIN\tROOM\tSTATUS\tINDICATOR\n")
		for _, tr := range result.Trains {
			for _, rr := range tr.Rooms {
				indicator := rr.Indicator
				if indicator == "" {
					indicator = "-"
				}
				tw.writef("%s\t%s\t%s\t%s\n", tr.Train, rr.Room, rr.Status, indicator)
			}
		}
		if err := tw.finish(); err != nil {
			return err
		}
	}

	fmt.Println()
	if !result.HasAvailability() {
		fmt.Println("No rooms available.")
		return nil
	}

	tw = newTabWriter(os.Stdout)
	tw.writef("AVAILABLE\tTRAINS\tINDICATOR\n")
	for _, a := range result.Available {
		tw.writef("%s\t%s\t%s\n", a.Room, strings.Join(a.Trains, ", "), a.Indicator)
	}
	return tw.finish()
}

func printRoomsTable(rooms []domain.RoomCategory) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("NAME\tFORM VALUE\tALIASES\n")
	for _, r := range rooms {
		formValue := r.FormValue
		if formValue == "" {
			formValue = "-"
		}
		aliases := "-"
		if len(r.Aliases) > 0 {
			aliases = strings.Join(r.Aliases, ", ")
		}
		tw.writef("%s\t%s\t%s\n", r.Name, formValue, aliases)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
