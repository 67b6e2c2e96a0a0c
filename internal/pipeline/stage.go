package pipeline

import (
	"errors"
	"fmt"
	"time"
)

type Stage string

const (
	StageCollectingLinks Stage = "collecting_links"
	StageScrapingDetails Stage = "scraping_details"
	StageFormatting      Stage = "formatting"
	StageDelivering      Stage = "delivering"
	StageDone            Stage = "done"
)

// StageError records a failure inside one stage. Target is the URL or
// message the stage was working on.
type StageError struct {
	Stage  Stage
	Target string
	Err    error
}

func (e *StageError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Target, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Report summarises one run.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	// Stage is the last stage reached, StageDone when the run completed
	Stage     Stage
	Aborted   bool
	Links     int
	Jobs      int
	Messages  int
	Delivered int
	Errors    []*StageError
}

func (r *Report) addError(stage Stage, target string, err error) {
	r.Errors = append(r.Errors, &StageError{Stage: stage, Target: target, Err: err})
}

// Err joins every stage error, nil for a clean run
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// ErrorsIn returns the errors recorded for one stage
func (r *Report) ErrorsIn(stage Stage) []*StageError {
	var out []*StageError
	for _, e := range r.Errors {
		if e.Stage == stage {
			out = append(out, e)
		}
	}
	return out
}
