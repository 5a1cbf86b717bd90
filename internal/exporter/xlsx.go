package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"laborcli/internal/analyzer"
)

// WorkbookName is the analysis workbook written under the reports directory.
const WorkbookName = "analysis_insights.xlsx"

// WorkbookWriter writes the insight grids into one XLSX workbook.
type WorkbookWriter struct {
	reportsDir string
	logger     *slog.Logger
}

// NewWorkbookWriter creates a workbook writer targeting reportsDir.
func NewWorkbookWriter(reportsDir string, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{reportsDir: reportsDir, logger: logger}
}

// Write renders one sheet per non-empty insight and returns the workbook
// path. Empty insights are skipped rather than producing blank sheets.
func (w *WorkbookWriter) Write(insights []analyzer.Insight) (string, error) {
	if err := os.MkdirAll(w.reportsDir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := 0
	for _, insight := range insights {
		if insight.Empty() {
			continue
		}
		name := sheetName(insight)
		if sheets == 0 {
			// Rename the default sheet instead of leaving "Sheet1" behind.
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return "", fmt.Errorf("rename default sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return "", fmt.Errorf("create sheet %s: %w", name, err)
			}
		}
		if err := writeGrid(f, name, insight); err != nil {
			return "", err
		}
		sheets++
	}
	if sheets == 0 {
		w.logger.Warn("no insight produced rows, skipping workbook")
		return "", nil
	}

	path := filepath.Join(w.reportsDir, WorkbookName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	w.logger.Info("analysis workbook written",
		slog.String("path", path),
		slog.Int("sheets", sheets))
	return path, nil
}

func writeGrid(f *excelize.File, sheet string, insight analyzer.Insight) error {
	if err := setRow(f, sheet, 1, insight.Columns); err != nil {
		return err
	}
	for i, row := range insight.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	for i, cell := range cells {
		ref, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return fmt.Errorf("cell reference (%d,%d): %w", i+1, rowNum, err)
		}
		if err := f.SetCellValue(sheet, ref, cell); err != nil {
			return fmt.Errorf("set cell %s!%s: %w", sheet, ref, err)
		}
	}
	return nil
}

// sheetName builds a sheet title inside the 31-character XLSX limit.
func sheetName(insight analyzer.Insight) string {
	name := fmt.Sprintf("insight %02d", insight.Number)
	title := insight.Title
	if title == "" {
		return name
	}
	full := []rune(name + " " + title)
	if len(full) > 31 {
		full = full[:31]
	}
	return string(full)
}
