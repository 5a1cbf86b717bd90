// Command laborcli runs the labor statistics pipeline: extract the source
// CSV exports, load the SQLite warehouse, run the SQL analysis, and train
// the models.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"laborcli/internal/config"
	"laborcli/internal/etl"
	"laborcli/internal/infrastructure"
	"laborcli/internal/pipeline"
	"laborcli/pkg/contracts"
)

func main() {
	mode := flag.String("mode", "all", "pipeline mode: etl, load, analyze, ml or all")
	dbPath := flag.String("db", "", "override the warehouse database path")
	configFile := flag.String("config", "config.yaml", "path to the YAML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create data directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	stages, err := stagesForMode(*mode, cfg, logger)
	if err != nil {
		logger.Error("Invalid mode", "mode", *mode, "error", err)
		os.Exit(1)
	}

	state := pipeline.NewState(cfg.Database.Path, logger)
	defer state.Close()

	if err := pipeline.NewManager(logger).Run(context.Background(), state, stages); err != nil {
		logger.Error("Pipeline failed",
			"run_id", state.RunID,
			"mode", *mode,
			"error", err)
		os.Exit(1)
	}
}

// stagesForMode maps the -mode flag to the stage sequence. A standalone load
// re-runs extraction first so the warehouse always refreshes from current
// files; analyze and ml work off the existing database.
func stagesForMode(mode string, cfg *config.Config, logger *slog.Logger) ([]pipeline.Stage, error) {
	etlStage := &pipeline.ETLStage{
		Options: etl.Options{
			RawDir:     cfg.Paths.RawDir,
			NewDataDir: cfg.Paths.NewDataDir,
		},
		Logger: logger,
	}
	loadStage := &pipeline.LoadStage{}
	analyzeStage := &pipeline.AnalyzeStage{ReportsDir: cfg.Paths.ReportsDir, Logger: logger}
	mlStage := &pipeline.MLStage{OutputDir: cfg.Paths.OutputDir, Logger: logger}

	switch mode {
	case "etl":
		return []pipeline.Stage{etlStage}, nil
	case "load":
		return []pipeline.Stage{etlStage, loadStage}, nil
	case "analyze":
		return []pipeline.Stage{analyzeStage}, nil
	case "ml":
		return []pipeline.Stage{mlStage}, nil
	case "all":
		return []pipeline.Stage{etlStage, loadStage, analyzeStage, mlStage}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q, want etl, load, analyze, ml or all", mode)
	}
}
