package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"pigeonhole/internal/organize"
	"pigeonhole/internal/scan"
)

func terminalWriter(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderRun prints the interactive view of a finished run: the planned
// actions for dry runs, then the counters.
func renderRun(out io.Writer, req organize.Request, summary *organize.Summary) {
	if summary.DryRun && len(summary.Actions) > 0 {
		rows := make([][]string, 0, len(summary.Actions))
		for _, action := range summary.Actions {
			rows = append(rows, []string{
				action.Source,
				action.Destination,
				action.DateSource,
				humanize.IBytes(uint64(action.Size)),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Source", "Destination", "Date From", "Size"}, rows, 3))
	}

	bytesLabel, bytesValue := "Bytes transferred", summary.Bytes
	if summary.DryRun {
		bytesLabel, bytesValue = "Bytes planned", summary.PlannedBytes()
	}
	rows := [][]string{
		{"Mode", string(req.Mode)},
		{"Dry run", yesNo(summary.DryRun)},
		{"Planned", strconv.Itoa(summary.Planned)},
		{"Processed", strconv.Itoa(summary.Processed)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{bytesLabel, humanize.IBytes(uint64(bytesValue))},
		{"Duration", summary.Duration.Round(time.Millisecond).String()},
	}
	for _, reason := range []scan.Reason{
		scan.ReasonExcludedExtension,
		scan.ReasonUnsupportedExtension,
		scan.ReasonExcludedPrefix,
	} {
		if count := summary.SkippedByReason[reason]; count > 0 {
			rows = append(rows, []string{"Skipped: " + string(reason), strconv.Itoa(count)})
		}
	}
	fmt.Fprintln(out, renderTable([]string{"Run", "Value"}, rows, 1))
}
