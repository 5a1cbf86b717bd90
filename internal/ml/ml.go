package ml

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
)

// minTrainingRows is the smallest complete-case dataset worth fitting the
// regressors on.
const minTrainingRows = 20

// FeatureImportance pairs a feature with its normalized importance.
type FeatureImportance struct {
	Feature    string
	Importance float64
}

// PredictionResult summarizes both regressors on the held-out tail.
type PredictionResult struct {
	TrainRows int
	TestRows  int

	ForestR2     float64
	ForestRMSE   float64
	ForestCVR2   float64
	BoostingR2   float64
	BoostingRMSE float64
	BoostingCVR2 float64

	Importances []FeatureImportance
}

// Cluster is one group of regions with its profile means.
type Cluster struct {
	ID                  int
	Regions             []string
	MeanUnemployment    float64
	MeanEmploymentRatio float64
	MeanCoverage        float64
	MeanYouthRate       float64
}

// ClusteringResult is the chosen partition of regions.
type ClusteringResult struct {
	K          int
	Silhouette float64
	Clusters   []Cluster
}

// Results aggregates all model outputs. Decomposition is nil when the series
// is too short for a seasonal fit.
type Results struct {
	Prediction    *PredictionResult
	Clustering    *ClusteringResult
	Decomposition *Decomposition
}

// RunAll loads the feature dataset and runs prediction, clustering and the
// time-series decomposition, writing charts under outputDir.
func RunAll(ctx context.Context, db *sql.DB, outputDir string, logger *slog.Logger) (*Results, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create ML output directory: %w", err)
	}

	dataset, err := LoadDataset(ctx, db, logger)
	if err != nil {
		return nil, err
	}
	if len(dataset) == 0 {
		return nil, fmt.Errorf("feature dataset is empty, nothing to model")
	}

	results := &Results{}

	results.Prediction, err = trainPredictor(dataset, outputDir, logger)
	if err != nil {
		return nil, err
	}

	results.Clustering, err = clusterRegions(dataset, outputDir, logger)
	if err != nil {
		return nil, err
	}

	results.Decomposition, err = analyzeTimeSeries(dataset, outputDir, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("model run complete", slog.String("output_dir", outputDir))
	return results, nil
}

// trainPredictor fits both regressors on a chronological 80/20 split and
// writes the prediction and importance charts.
func trainPredictor(dataset []FeatureRow, outputDir string, logger *slog.Logger) (*PredictionResult, error) {
	X, y := designMatrix(dataset)
	if len(X) < minTrainingRows {
		return nil, fmt.Errorf("only %d complete rows, need %d to train", len(X), minTrainingRows)
	}

	XTrain, XTest, yTrain, yTest := chronologicalSplit(X, y, 0.8)
	logger.Info("training unemployment predictors",
		slog.Int("train_rows", len(XTrain)),
		slog.Int("test_rows", len(XTest)))

	forest := NewRandomForest()
	forest.Fit(XTrain, yTrain)
	forestPred := forest.Predict(XTest)

	boosting := NewGradientBoosting()
	boosting.Fit(XTrain, yTrain)
	boostingPred := boosting.Predict(XTest)

	result := &PredictionResult{
		TrainRows:    len(XTrain),
		TestRows:     len(XTest),
		ForestR2:     RSquared(yTest, forestPred),
		ForestRMSE:   RMSE(yTest, forestPred),
		ForestCVR2:   crossValRSquared(forest, XTrain, yTrain, 5),
		BoostingR2:   RSquared(yTest, boostingPred),
		BoostingRMSE: RMSE(yTest, boostingPred),
		BoostingCVR2: crossValRSquared(boosting, XTrain, yTrain, 5),
	}

	importances := forest.FeatureImportances()
	result.Importances = make([]FeatureImportance, len(FeatureNames))
	for i, name := range FeatureNames {
		result.Importances[i] = FeatureImportance{Feature: name, Importance: importances[i]}
	}
	sort.Slice(result.Importances, func(a, b int) bool {
		return result.Importances[a].Importance > result.Importances[b].Importance
	})

	if err := writePredictionChart(outputDir, yTest, forestPred, boostingPred,
		result.ForestR2, result.BoostingR2); err != nil {
		return nil, err
	}
	orderedNames := make([]string, len(result.Importances))
	orderedValues := make([]float64, len(result.Importances))
	for i, imp := range result.Importances {
		orderedNames[i] = imp.Feature
		orderedValues[i] = imp.Importance
	}
	if err := writeImportanceChart(outputDir, orderedNames, orderedValues); err != nil {
		return nil, err
	}

	logger.Info("predictors trained",
		slog.Float64("forest_r2", result.ForestR2),
		slog.Float64("boosting_r2", result.BoostingR2))
	return result, nil
}

// regionProfile accumulates per-region means for clustering.
type regionProfile struct {
	name   string
	sums   [4]float64
	counts [4]int
}

func (p *regionProfile) add(slot int, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	p.sums[slot] += v
	p.counts[slot]++
}

func (p *regionProfile) means() ([]float64, bool) {
	out := make([]float64, 4)
	for i := range out {
		if p.counts[i] == 0 {
			return nil, false
		}
		out[i] = p.sums[i] / float64(p.counts[i])
	}
	return out, true
}

// clusterRegions groups regions on their mean unemployment rate, employment
// ratio, insurance coverage and youth employment rate, choosing k by
// silhouette score.
func clusterRegions(dataset []FeatureRow, outputDir string, logger *slog.Logger) (*ClusteringResult, error) {
	profiles := make(map[int]*regionProfile)
	var regionOrder []int
	for _, r := range dataset {
		p, ok := profiles[r.RegionID]
		if !ok {
			p = &regionProfile{name: r.RegionName}
			profiles[r.RegionID] = p
			regionOrder = append(regionOrder, r.RegionID)
		}
		p.add(0, r.UnemploymentRate)
		p.add(1, r.EmploymentRatio)
		p.add(2, r.InsuranceCoverageRate)
		p.add(3, r.YouthEmploymentRate)
	}
	sort.Ints(regionOrder)

	var names []string
	var X [][]float64
	for _, id := range regionOrder {
		means, ok := profiles[id].means()
		if !ok {
			continue
		}
		names = append(names, profiles[id].name)
		X = append(X, means)
	}
	if len(X) < 3 {
		logger.Warn("too few regions with complete profiles, skipping clustering",
			slog.Int("regions", len(X)))
		return nil, nil
	}

	scaled := standardScale(X)
	k, labels, silhouette := chooseClusterCount(scaled, 9, 42)
	logger.Info("regions clustered",
		slog.Int("k", k),
		slog.Float64("silhouette", silhouette),
		slog.Int("regions", len(X)))

	clusters := make([]Cluster, k)
	counts := make([]int, k)
	for i, label := range labels {
		c := &clusters[label]
		c.ID = label
		c.Regions = append(c.Regions, names[i])
		c.MeanUnemployment += X[i][0]
		c.MeanEmploymentRatio += X[i][1]
		c.MeanCoverage += X[i][2]
		c.MeanYouthRate += X[i][3]
		counts[label]++
	}
	for i := range clusters {
		if counts[i] == 0 {
			continue
		}
		n := float64(counts[i])
		clusters[i].MeanUnemployment /= n
		clusters[i].MeanEmploymentRatio /= n
		clusters[i].MeanCoverage /= n
		clusters[i].MeanYouthRate /= n
	}

	coords, err := principalComponents(scaled)
	if err != nil {
		return nil, err
	}
	if err := writeClusteringChart(outputDir, coords, labels, names, k); err != nil {
		return nil, err
	}

	return &ClusteringResult{K: k, Silhouette: silhouette, Clusters: clusters}, nil
}

// analyzeTimeSeries decomposes the national mean unemployment rate. A series
// shorter than two seasonal cycles is skipped with a warning instead of
// failing the stage.
func analyzeTimeSeries(dataset []FeatureRow, outputDir string, logger *slog.Logger) (*Decomposition, error) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var months []string
	for _, r := range dataset {
		if _, seen := counts[r.YearMonth]; !seen {
			months = append(months, r.YearMonth)
		}
		sums[r.YearMonth] += r.UnemploymentRate
		counts[r.YearMonth]++
	}
	sort.Strings(months)

	observed := make([]float64, len(months))
	for i, m := range months {
		observed[i] = sums[m] / float64(counts[m])
	}

	if len(observed) < 2*seasonalPeriod {
		logger.Warn("series too short for seasonal decomposition, skipping",
			slog.Int("months", len(observed)),
			slog.Int("required", 2*seasonalPeriod))
		return nil, nil
	}

	d, err := decomposeAdditive(months, observed)
	if err != nil {
		return nil, err
	}
	if err := writeDecompositionChart(outputDir, d); err != nil {
		return nil, err
	}

	logger.Info("time series decomposed", slog.Int("months", len(months)))
	return d, nil
}
