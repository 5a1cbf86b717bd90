package etl

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"laborcli/internal/files"
	"laborcli/pkg/contracts/domain"
)

// Options locates the source exports for a full extraction run.
type Options struct {
	// RawDir holds the base exports (unemployment, industry, population).
	RawDir string
	// NewDataDir holds the supplemental exports (insurance, education, age).
	NewDataDir string
}

// Run executes every extractor and assembles the complete dataset the load
// stage consumes. The base exports are required; the supplemental ones are
// tolerated missing.
func Run(opts Options, logger *slog.Logger) (*domain.Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	unemployment, err := ExtractUnemployment(filepath.Join(opts.RawDir, UnemploymentFile), logger)
	if err != nil {
		return nil, fmt.Errorf("extract unemployment: %w", err)
	}

	industryFacts, industries, err := ExtractIndustryEmployment(filepath.Join(opts.RawDir, IndustryFile), logger)
	if err != nil {
		return nil, fmt.Errorf("extract industry employment: %w", err)
	}

	population, err := ExtractPopulation(filepath.Join(opts.RawDir, PopulationFile), logger)
	if err != nil {
		return nil, fmt.Errorf("extract population: %w", err)
	}

	insurance, err := ExtractInsurance(filepath.Join(opts.NewDataDir, InsuranceFile), logger)
	if err != nil {
		return nil, fmt.Errorf("extract insurance: %w", err)
	}

	discovery := files.NewDiscovery("")
	educationFacts, err := ExtractEducationEmployment(discovery.FindCSVByPrefix(opts.NewDataDir, EducationFilePrefix), logger)
	if err != nil {
		return nil, fmt.Errorf("extract education employment: %w", err)
	}

	ageFacts, err := ExtractAgeEmployment(discovery.FindCSVByPrefix(opts.NewDataDir, AgeFilePrefix), logger)
	if err != nil {
		return nil, fmt.Errorf("extract age employment: %w", err)
	}

	ds := &domain.Dataset{
		Regions:             RegionDimension(),
		Industries:          industries,
		EducationLevels:     EducationDimension(),
		AgeGroups:           AgeGroupDimension(),
		Unemployment:        unemployment,
		IndustryEmployment:  industryFacts,
		Population:          population,
		Insurance:           insurance,
		EducationEmployment: educationFacts,
		AgeEmployment:       ageFacts,
	}

	logger.Info("extraction complete",
		slog.Int("regions", len(ds.Regions)),
		slog.Int("industries", len(ds.Industries)),
		slog.Int("unemployment_rows", len(ds.Unemployment)),
		slog.Int("industry_employment_rows", len(ds.IndustryEmployment)),
		slog.Int("population_rows", len(ds.Population)),
		slog.Int("insurance_rows", len(ds.Insurance)),
		slog.Int("education_employment_rows", len(ds.EducationEmployment)),
		slog.Int("age_employment_rows", len(ds.AgeEmployment)))

	return ds, nil
}
