package models

import "time"

// RunStatus is the outcome of one scenario execution.
type RunStatus string

const (
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
	RunStatusSkipped RunStatus = "skipped"
	RunStatusErrored RunStatus = "errored"
)

// ScenarioRun records one scenario execution within a suite run.
type ScenarioRun struct {
	ID         string
	RunID      string
	Scenario   string
	Tags       []string
	Status     RunStatus
	Message    string
	Screenshot string
	HTML       string
	StartedAt  time.Time
	Duration   time.Duration
}

// RunSummary aggregates the results of one suite run.
type RunSummary struct {
	RunID   string
	Results []ScenarioRun
}

// Count returns how many results have status.
func (s *RunSummary) Count(status RunStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// OK reports whether nothing failed or errored.
func (s *RunSummary) OK() bool {
	return s.Count(RunStatusFailed) == 0 && s.Count(RunStatusErrored) == 0
}
