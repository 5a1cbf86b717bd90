// Package warehouse owns the SQLite star schema: opening the database,
// applying the schema, and the full-refresh load the pipeline runs after
// extraction.
package warehouse

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"laborcli/pkg/contracts/domain"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps the warehouse database.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path and applies the
// schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// The loader toggles enforcement around the full refresh, so a single
	// connection must see every PRAGMA.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, logger: logger}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB exposes the underlying handle for the analysis and modeling queries.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	s.logger.Debug("schema applied", slog.String("path", s.path))
	return nil
}

// ReplaceAll performs the full refresh: every table is emptied and reloaded
// from the dataset, dimensions before facts. SQLite ignores the foreign_keys
// pragma inside a transaction, so enforcement is switched off on the
// connection before the transaction begins and restored after it ends.
func (s *Store) ReplaceAll(ctx context.Context, ds *domain.Dataset) (err error) {
	if _, err = s.db.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		if _, pragmaErr := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); pragmaErr != nil && err == nil {
			err = fmt.Errorf("restore foreign keys: %w", pragmaErr)
		}
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range replaceOrder {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := s.loadDimensions(ctx, tx, ds); err != nil {
		return err
	}
	if err := s.loadFacts(ctx, tx, ds); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit load transaction: %w", err)
	}

	s.logger.Info("warehouse refreshed",
		slog.String("path", s.path),
		slog.Int("regions", len(ds.Regions)),
		slog.Int("industries", len(ds.Industries)),
		slog.Int("unemployment_rows", len(ds.Unemployment)),
		slog.Int("industry_employment_rows", len(ds.IndustryEmployment)),
		slog.Int("population_rows", len(ds.Population)),
		slog.Int("insurance_rows", len(ds.Insurance)),
		slog.Int("education_employment_rows", len(ds.EducationEmployment)),
		slog.Int("age_employment_rows", len(ds.AgeEmployment)))
	return nil
}

func (s *Store) loadDimensions(ctx context.Context, tx *sql.Tx, ds *domain.Dataset) error {
	if err := execEach(ctx, tx, insertRegion, len(ds.Regions), func(i int) []any {
		return []any{ds.Regions[i].ID, ds.Regions[i].Name}
	}); err != nil {
		return fmt.Errorf("load dim_region: %w", err)
	}
	if err := execEach(ctx, tx, insertIndustry, len(ds.Industries), func(i int) []any {
		return []any{ds.Industries[i].Code, ds.Industries[i].Name}
	}); err != nil {
		return fmt.Errorf("load dim_industry: %w", err)
	}
	if err := execEach(ctx, tx, insertEducation, len(ds.EducationLevels), func(i int) []any {
		return []any{ds.EducationLevels[i].ID, ds.EducationLevels[i].Name}
	}); err != nil {
		return fmt.Errorf("load dim_education: %w", err)
	}
	if err := execEach(ctx, tx, insertAgeGroup, len(ds.AgeGroups), func(i int) []any {
		return []any{ds.AgeGroups[i].ID, ds.AgeGroups[i].Name}
	}); err != nil {
		return fmt.Errorf("load dim_age_group: %w", err)
	}
	return nil
}

func (s *Store) loadFacts(ctx context.Context, tx *sql.Tx, ds *domain.Dataset) error {
	if err := execEach(ctx, tx, insertUnemployment, len(ds.Unemployment), func(i int) []any {
		f := ds.Unemployment[i]
		return []any{f.RegionID, f.YearMonth,
			nullableFloat(f.UnemploymentRate), nullableFloat(f.UnemploymentLevel),
			nullableFloat(f.LaborForce), nullableFloat(f.EmployedPersons)}
	}); err != nil {
		return fmt.Errorf("load fact_unemployment_monthly: %w", err)
	}
	if err := execEach(ctx, tx, insertIndustryEmployment, len(ds.IndustryEmployment), func(i int) []any {
		f := ds.IndustryEmployment[i]
		return []any{f.RegionID, f.IndustryCode, f.YearMonth, f.EmployedPersons}
	}); err != nil {
		return fmt.Errorf("load fact_employment_by_industry_monthly: %w", err)
	}
	if err := execEach(ctx, tx, insertPopulation, len(ds.Population), func(i int) []any {
		f := ds.Population[i]
		return []any{f.RegionID, f.YearMonth, f.TotalPopulation}
	}); err != nil {
		return fmt.Errorf("load fact_population_monthly: %w", err)
	}
	if err := execEach(ctx, tx, insertInsurance, len(ds.Insurance), func(i int) []any {
		f := ds.Insurance[i]
		return []any{f.RegionID, f.YearMonth, f.InsuredCount, f.NewInsured, f.TerminatedInsured}
	}); err != nil {
		return fmt.Errorf("load fact_employment_insurance: %w", err)
	}
	if err := execEach(ctx, tx, insertEducationEmployment, len(ds.EducationEmployment), func(i int) []any {
		f := ds.EducationEmployment[i]
		return []any{f.RegionID, f.EducationID, f.YearMonth, f.EmployedCount}
	}); err != nil {
		return fmt.Errorf("load fact_employment_by_education: %w", err)
	}
	if err := execEach(ctx, tx, insertAgeEmployment, len(ds.AgeEmployment), func(i int) []any {
		f := ds.AgeEmployment[i]
		return []any{f.RegionID, f.AgeGroupID, f.YearMonth, f.EmployedCount}
	}); err != nil {
		return fmt.Errorf("load fact_employment_by_age: %w", err)
	}
	return nil
}

// execEach prepares query once and executes it for each of n rows.
func execEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

// nullableFloat maps the unobserved-measure sentinel to SQL NULL.
func nullableFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
