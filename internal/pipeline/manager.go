package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Manager executes stages sequentially against a shared state.
type Manager struct {
	logger *slog.Logger
}

// NewManager creates a stage runner.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// Run executes the stages in order, recording status and timing on the
// state. The first stage error aborts the run.
func (m *Manager) Run(ctx context.Context, state *State, stages []Stage) error {
	m.logger.Info("pipeline run starting",
		slog.String("run_id", state.RunID),
		slog.Int("stages", len(stages)))

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline cancelled before stage %s: %w", stage.ID(), err)
		}

		ss := newStageState(stage.ID(), stage.Name())
		state.Stages[stage.ID()] = ss
		ss.start()

		m.logger.Info("stage starting",
			slog.String("run_id", state.RunID),
			slog.String("stage", stage.ID()))

		if err := stage.Execute(ctx, state); err != nil {
			ss.fail(err)
			m.logger.Error("stage failed",
				slog.String("run_id", state.RunID),
				slog.String("stage", stage.ID()),
				slog.Duration("duration", ss.Duration()),
				slog.String("error", err.Error()))
			return fmt.Errorf("stage %s: %w", stage.ID(), err)
		}

		ss.complete()
		m.logger.Info("stage complete",
			slog.String("run_id", state.RunID),
			slog.String("stage", stage.ID()),
			slog.Duration("duration", ss.Duration()))
	}

	m.logger.Info("pipeline run complete",
		slog.String("run_id", state.RunID),
		slog.Duration("duration", time.Since(state.StartTime)))
	return nil
}
