package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"laborcli/internal/analyzer"
)

// CSVWriter writes each insight grid to its own CSV under the reports
// directory.
type CSVWriter struct {
	reportsDir string
	logger     *slog.Logger
}

// NewCSVWriter creates a CSV writer targeting reportsDir.
func NewCSVWriter(reportsDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{reportsDir: reportsDir, logger: logger}
}

// WriteInsights writes one file per non-empty insight and returns the paths.
func (w *CSVWriter) WriteInsights(insights []analyzer.Insight) ([]string, error) {
	if err := os.MkdirAll(w.reportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}

	var paths []string
	for _, insight := range insights {
		if insight.Empty() {
			continue
		}
		path := filepath.Join(w.reportsDir, fmt.Sprintf("insight_%02d.csv", insight.Number))
		if err := w.writeOne(path, insight); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	w.logger.Info("insight CSVs written",
		slog.String("dir", w.reportsDir),
		slog.Int("files", len(paths)))
	return paths, nil
}

func (w *CSVWriter) writeOne(path string, insight analyzer.Insight) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	// UTF-8 BOM so Excel renders the Korean region names.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM to %s: %w", path, err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(insight.Columns); err != nil {
		return fmt.Errorf("write header to %s: %w", path, err)
	}
	for _, row := range insight.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row to %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
