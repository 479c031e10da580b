package organize

import (
	"time"

	"pigeonhole/internal/scan"
)

// Action records one planned or executed relocation.
type Action struct {
	Source      string
	Destination string
	DateSource  string
	Operation   Mode
	Size        int64
}

// Summary reports what a run did, or would have done for dry runs.
type Summary struct {
	DryRun          bool
	Processed       int
	Skipped         int
	Planned         int
	Bytes           int64
	Duration        time.Duration
	SkippedByReason map[scan.Reason]int
	Actions         []Action
}

func newSummary(dryRun bool) *Summary {
	return &Summary{
		DryRun:          dryRun,
		SkippedByReason: make(map[scan.Reason]int),
	}
}

func (s *Summary) recordSkip(reason scan.Reason) {
	s.Skipped++
	s.SkippedByReason[reason]++
}

func (s *Summary) recordPlan(collect bool, action Action) {
	s.Planned++
	if collect {
		s.Actions = append(s.Actions, action)
	}
}

func (s *Summary) recordDone(size int64) {
	s.Processed++
	s.Bytes += size
}

// PlannedBytes sums the sizes of the collected actions.
func (s *Summary) PlannedBytes() int64 {
	var total int64
	for _, action := range s.Actions {
		total += action.Size
	}
	return total
}
