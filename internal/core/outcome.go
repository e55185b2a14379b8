package core

import (
	"fmt"
	"time"
)

// Outcome is the terminal state of one run.
type Outcome int

const (
	OutcomeUpdated Outcome = iota
	OutcomeSkipped
	OutcomeFetchFailed
	OutcomeNoTimestamp
	OutcomeWriteFailed
)

var outcomeNames = map[Outcome]string{
	OutcomeUpdated:     "updated",
	OutcomeSkipped:     "skipped",
	OutcomeFetchFailed: "fetch_failed",
	OutcomeNoTimestamp: "no_timestamp",
	OutcomeWriteFailed: "write_failed",
}

// AllOutcomes lists every outcome in declaration order.
var AllOutcomes = []Outcome{OutcomeUpdated, OutcomeSkipped, OutcomeFetchFailed, OutcomeNoTimestamp, OutcomeWriteFailed}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// ExitCode is the process exit status for the outcome.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeUpdated, OutcomeSkipped:
		return 0
	case OutcomeFetchFailed:
		return 1
	case OutcomeNoTimestamp:
		return 2
	default:
		return 3
	}
}

// Succeeded reports whether the run finished without error.
func (o Outcome) Succeeded() bool {
	return o == OutcomeUpdated || o == OutcomeSkipped
}

// Result describes a finished run.
type Result struct {
	Outcome        Outcome
	RemoteMarker   string
	PreviousMarker string
	HadPrevious    bool
	Entries        int
	OutputPath     string
	FetchDuration  time.Duration
	FinishedAt     time.Time
	Err            error
}

// Status returns the one-line human-readable summary of the run.
func (r Result) Status() string {
	switch r.Outcome {
	case OutcomeUpdated:
		return fmt.Sprintf("Updated to %q (%d hosts), saved to %s", r.RemoteMarker, r.Entries, r.OutputPath)
	case OutcomeSkipped:
		return fmt.Sprintf("Update time unchanged (%s), no update needed", r.RemoteMarker)
	case OutcomeFetchFailed:
		return fmt.Sprintf("Failed to fetch hosts file: %v", r.Err)
	case OutcomeNoTimestamp:
		return "Update time not found, cannot update"
	case OutcomeWriteFailed:
		return fmt.Sprintf("Failed to persist update: %v", r.Err)
	default:
		return r.Outcome.String()
	}
}
