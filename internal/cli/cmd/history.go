package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"mediakit/internal/history"
	"mediakit/internal/util/format"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit int
		op    string
		wipe  bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the log of past operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := appFrom(cmd).history
			if store == nil {
				return &ExitError{Code: ExitCLIError, Err: errors.New("history is disabled")}
			}
			w := cmd.OutOrStdout()
			if wipe {
				n, err := store.Clear()
				if err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
				fmt.Fprintf(w, "Removed %d record(s)\n", n)
				return nil
			}

			var (
				recs []history.Record
				err  error
			)
			if op != "" {
				recs, err = store.ByOperation(op, limit)
			} else {
				recs, err = store.Recent(limit)
			}
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			printHistory(w, recs)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&limit, "limit", "n", 20, "Number of records to show")
	f.StringVar(&op, "op", "", "Only show one operation, e.g. download or convert")
	f.BoolVar(&wipe, "clear", false, "Delete all records")
	return cmd
}

func printHistory(w io.Writer, recs []history.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No history yet")
		return
	}
	t := table.New().Headers("WHEN", "OPERATION", "STATUS", "INPUT", "OUTPUT", "SIZE")
	for _, r := range recs {
		status := r.Status
		if r.UsedFallback {
			status += " (fallback)"
		}
		out := r.Output
		if r.Status == history.StatusFailed {
			out = r.Error
		}
		size := ""
		if r.Bytes > 0 {
			size = format.HumanizeBytes(r.Bytes)
		}
		t.Row(r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Operation, status, r.Input, out, size)
	}
	fmt.Fprintln(w, t.Render())
}
