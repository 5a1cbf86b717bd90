// Package pipeline runs the processing stages in sequence: extract, load,
// analyze, model. Each stage reads and extends the shared run state; the
// first failure stops the run.
package pipeline

import (
	"context"
	"time"
)

// Stage IDs in execution order.
const (
	StageIDETL     = "etl"
	StageIDLoad    = "load"
	StageIDAnalyze = "analyze"
	StageIDML      = "ml"
)

// Stage is a single pipeline step.
type Stage interface {
	// ID returns the stage identifier used in mode selection and logs.
	ID() string

	// Name returns the human-readable stage name.
	Name() string

	// Execute runs the stage against the shared run state.
	Execute(ctx context.Context, state *State) error
}

// StageStatus tracks a stage through its lifecycle.
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusActive    StageStatus = "active"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
)

// StageState is the runtime record of one stage.
type StageState struct {
	ID        string
	Name      string
	Status    StageStatus
	StartTime time.Time
	EndTime   time.Time
	Err       error
}

func newStageState(id, name string) *StageState {
	return &StageState{ID: id, Name: name, Status: StageStatusPending}
}

func (s *StageState) start() {
	s.Status = StageStatusActive
	s.StartTime = time.Now()
}

func (s *StageState) complete() {
	s.Status = StageStatusCompleted
	s.EndTime = time.Now()
}

func (s *StageState) fail(err error) {
	s.Status = StageStatusFailed
	s.EndTime = time.Now()
	s.Err = err
}

// Duration reports how long the stage ran.
func (s *StageState) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}
