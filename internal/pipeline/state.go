package pipeline

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"laborcli/internal/analyzer"
	"laborcli/internal/warehouse"
	"laborcli/pkg/contracts/domain"
)

// State carries data between stages of one run.
type State struct {
	RunID     string
	StartTime time.Time

	// DatabasePath is where the load and query stages open the warehouse.
	DatabasePath string

	// Dataset is set by the ETL stage and consumed by the load stage.
	Dataset *domain.Dataset

	// Insights is set by the analyze stage.
	Insights []analyzer.Insight

	// Stages records per-stage status and timing, keyed by stage ID.
	Stages map[string]*StageState

	store  *warehouse.Store
	logger *slog.Logger
}

// NewState creates a run state with a fresh run ID.
func NewState(databasePath string, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		RunID:        uuid.New().String(),
		StartTime:    time.Now(),
		DatabasePath: databasePath,
		Stages:       make(map[string]*StageState),
		logger:       logger,
	}
}

// Store returns the warehouse handle, opening it on first use so stages that
// run without a preceding load still reach the database.
func (s *State) Store() (*warehouse.Store, error) {
	if s.store != nil {
		return s.store, nil
	}
	store, err := warehouse.Open(s.DatabasePath, s.logger)
	if err != nil {
		return nil, err
	}
	s.store = store
	return store, nil
}

// Close releases the warehouse handle if any stage opened it.
func (s *State) Close() error {
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}
