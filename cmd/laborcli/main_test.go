package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laborcli/internal/config"
	"laborcli/internal/pipeline"
)

func testConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Path: "data/employment.db"},
		Paths: config.PathsConfig{
			RawDir:     "data/raw",
			NewDataDir: "data/new_data",
			OutputDir:  "output/ml_results",
			ReportsDir: "output/reports",
			LogsDir:    "logs",
		},
	}
}

func stageIDs(stages []pipeline.Stage) []string {
	ids := make([]string, len(stages))
	for i, s := range stages {
		ids[i] = s.ID()
	}
	return ids
}

func TestStagesForMode(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		mode string
		want []string
	}{
		{"etl", []string{"etl"}},
		{"load", []string{"etl", "load"}},
		{"analyze", []string{"analyze"}},
		{"ml", []string{"ml"}},
		{"all", []string{"etl", "load", "analyze", "ml"}},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			stages, err := stagesForMode(tt.mode, testConfig(), logger)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stageIDs(stages))
		})
	}
}

func TestStagesForModeUnknown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := stagesForMode("bogus", testConfig(), logger)
	assert.Error(t, err)
}
