package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"laborcli/internal/analyzer"
	"laborcli/internal/etl"
	"laborcli/internal/exporter"
	"laborcli/internal/ml"
)

// ETLStage extracts and normalizes the source exports.
type ETLStage struct {
	Options etl.Options
	Logger  *slog.Logger
}

func (s *ETLStage) ID() string   { return StageIDETL }
func (s *ETLStage) Name() string { return "Extract and normalize" }

func (s *ETLStage) Execute(ctx context.Context, state *State) error {
	ds, err := etl.Run(s.Options, s.Logger)
	if err != nil {
		return err
	}
	state.Dataset = ds
	return nil
}

// LoadStage refreshes the warehouse from the extracted dataset.
type LoadStage struct{}

func (s *LoadStage) ID() string   { return StageIDLoad }
func (s *LoadStage) Name() string { return "Load warehouse" }

func (s *LoadStage) Execute(ctx context.Context, state *State) error {
	if state.Dataset == nil {
		return fmt.Errorf("no dataset extracted, run the etl stage first")
	}
	store, err := state.Store()
	if err != nil {
		return err
	}
	return store.ReplaceAll(ctx, state.Dataset)
}

// AnalyzeStage runs the insight queries, prints the results and writes the
// report files.
type AnalyzeStage struct {
	ReportsDir string
	Logger     *slog.Logger

	// Out defaults to stdout; tests point it elsewhere.
	Out io.Writer
}

func (s *AnalyzeStage) ID() string   { return StageIDAnalyze }
func (s *AnalyzeStage) Name() string { return "Analyze warehouse" }

func (s *AnalyzeStage) Execute(ctx context.Context, state *State) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	store, err := state.Store()
	if err != nil {
		return err
	}
	a := analyzer.New(store.DB(), s.Logger)

	stats, err := a.BasicStatistics(ctx)
	if err != nil {
		return err
	}
	analyzer.RenderStatistics(out, stats)

	base, err := a.Run(ctx, analyzer.BaseInsights)
	if err != nil {
		return err
	}
	analyzer.RenderInsights(out, "Labor market analysis", base)

	supplemental, err := a.Run(ctx, analyzer.SupplementalInsights)
	if err != nil {
		return err
	}
	analyzer.RenderInsights(out, "Supplemental analysis", supplemental)

	state.Insights = append(append([]analyzer.Insight(nil), base...), supplemental...)

	if _, err := exporter.NewWorkbookWriter(s.ReportsDir, s.Logger).Write(state.Insights); err != nil {
		return err
	}
	if _, err := exporter.NewCSVWriter(s.ReportsDir, s.Logger).WriteInsights(state.Insights); err != nil {
		return err
	}
	return nil
}

// MLStage trains the models and writes the charts.
type MLStage struct {
	OutputDir string
	Logger    *slog.Logger

	Out io.Writer
}

func (s *MLStage) ID() string   { return StageIDML }
func (s *MLStage) Name() string { return "Train models" }

func (s *MLStage) Execute(ctx context.Context, state *State) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	store, err := state.Store()
	if err != nil {
		return err
	}
	results, err := ml.RunAll(ctx, store.DB(), s.OutputDir, s.Logger)
	if err != nil {
		return err
	}
	ml.RenderResults(out, results)
	return nil
}
