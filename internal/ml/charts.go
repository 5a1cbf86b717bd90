package ml

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Chart file names under the ML output directory.
const (
	predictionChartName    = "01_unemployment_prediction.png"
	importanceChartName    = "02_feature_importance.png"
	clusteringChartName    = "03_region_clustering.png"
	decompositionChartName = "04_time_series_trend.png"
)

var clusterPalette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	color.RGBA{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
}

// writePredictionChart draws predicted-vs-actual panels for both models side
// by side, with the identity line marking a perfect prediction.
func writePredictionChart(dir string, actual, rfPred, gbPred []float64, rfR2, gbR2 float64) error {
	left, err := predictionPanel("Random Forest", rfR2, actual, rfPred, clusterPalette[0])
	if err != nil {
		return err
	}
	right, err := predictionPanel("Gradient Boosting", gbR2, actual, gbPred, clusterPalette[2])
	if err != nil {
		return err
	}
	return writeTiled(filepath.Join(dir, predictionChartName), [][]*plot.Plot{{left, right}}, 14*vg.Inch, 5*vg.Inch)
}

func predictionPanel(name string, r2 float64, actual, predicted []float64, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (R²=%.4f)", name, r2)
	p.X.Label.Text = "actual unemployment rate"
	p.Y.Label.Text = "predicted unemployment rate"

	points := make(plotter.XYs, len(actual))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range actual {
		points[i].X = actual[i]
		points[i].Y = predicted[i]
		lo = math.Min(lo, actual[i])
		hi = math.Max(hi, actual[i])
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, fmt.Errorf("prediction scatter: %w", err)
	}
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)

	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return nil, fmt.Errorf("identity line: %w", err)
	}
	identity.Color = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	identity.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(identity)
	p.Add(plotter.NewGrid())
	return p, nil
}

// writeImportanceChart draws the normalized feature importances as a bar
// chart, most important first.
func writeImportanceChart(dir string, features []string, importances []float64) error {
	p := plot.New()
	p.Title.Text = "Feature importances (unemployment rate prediction)"
	p.Y.Label.Text = "importance"

	values := make(plotter.Values, len(importances))
	copy(values, importances)

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("importance bars: %w", err)
	}
	bars.Color = clusterPalette[0]
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(features...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return p.Save(12*vg.Inch, 6*vg.Inch, filepath.Join(dir, importanceChartName))
}

// writeClusteringChart scatters the regions in PCA space, colored by cluster
// and labeled by name.
func writeClusteringChart(dir string, coords [][]float64, labels []int, names []string, k int) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Region clusters by employment profile (k=%d)", k)
	p.X.Label.Text = "principal component 1"
	p.Y.Label.Text = "principal component 2"

	for cluster := 0; cluster < k; cluster++ {
		var points plotter.XYs
		for i, l := range labels {
			if l == cluster {
				points = append(points, plotter.XY{X: coords[i][0], Y: coords[i][1]})
			}
		}
		if len(points) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return fmt.Errorf("cluster scatter: %w", err)
		}
		scatter.GlyphStyle.Color = clusterPalette[cluster%len(clusterPalette)]
		scatter.GlyphStyle.Radius = vg.Points(5)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("cluster %d", cluster), scatter)
	}

	labelXYs := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(names)),
		Labels: names,
	}
	for i := range names {
		labelXYs.XYs[i] = plotter.XY{X: coords[i][0] + 0.05, Y: coords[i][1]}
	}
	regionLabels, err := plotter.NewLabels(labelXYs)
	if err != nil {
		return fmt.Errorf("region labels: %w", err)
	}
	p.Add(regionLabels)
	p.Add(plotter.NewGrid())

	return p.Save(10*vg.Inch, 8*vg.Inch, filepath.Join(dir, clusteringChartName))
}

// writeDecompositionChart draws the four stacked component panels.
func writeDecompositionChart(dir string, d *Decomposition) error {
	panels := []struct {
		name   string
		values []float64
	}{
		{"Observed", d.Observed},
		{"Trend", d.Trend},
		{"Seasonal", d.Seasonal},
		{"Residual", d.Residual},
	}

	plots := make([][]*plot.Plot, len(panels))
	for i, panel := range panels {
		p := plot.New()
		p.Title.Text = panel.name
		p.Y.Label.Text = "rate"
		if i == len(panels)-1 {
			p.X.Label.Text = "months since series start"
		}

		var points plotter.XYs
		for x, v := range panel.values {
			if math.IsNaN(v) {
				continue
			}
			points = append(points, plotter.XY{X: float64(x), Y: v})
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("decomposition %s line: %w", panel.name, err)
		}
		line.Color = clusterPalette[0]
		p.Add(line)
		p.Add(plotter.NewGrid())
		plots[i] = []*plot.Plot{p}
	}

	return writeTiled(filepath.Join(dir, decompositionChartName), plots, 12*vg.Inch, 10*vg.Inch)
}

// writeTiled renders a grid of plots into a single PNG.
func writeTiled(path string, plots [][]*plot.Plot, width, height vg.Length) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: len(plots[0]),
		PadX: vg.Points(8),
		PadY: vg.Points(8),
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart %s: %w", path, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write chart %s: %w", path, err)
	}
	return nil
}
