package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/config"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
	"github.com/sikapay/sikapay-backend-go/internal/repository/postgresql"
	statutoryService "github.com/sikapay/sikapay-backend-go/internal/service/statutory"
	"gopkg.in/yaml.v3"
)

func main() {
	path := flag.String("file", "configs/statutory/ghana.yaml", "statutory tables to load")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	seed, err := loadSeedFile(*path)
	if err != nil {
		fmt.Println("Error reading seed file:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	svc := statutoryService.NewStatutoryService(postgresql.NewTransactor(db), postgresql.NewStatutoryRepository(db), logger)

	if err := seed.apply(ctx, svc, logger); err != nil {
		fmt.Println("Seeding failed:", err)
		os.Exit(1)
	}
}

type seedFile struct {
	TaxBands []struct {
		TaxYear  int  `yaml:"tax_year"`
		IsAnnual bool `yaml:"is_annual"`
		Bands    []struct {
			BandStart string `yaml:"band_start"`
			BandEnd   string `yaml:"band_end"`
			Rate      string `yaml:"rate"`
		} `yaml:"bands"`
	} `yaml:"tax_bands"`

	SsnitRates []struct {
		EmployeeRate         string `yaml:"employee_rate"`
		EmployerRate         string `yaml:"employer_rate"`
		MaxContributionLimit string `yaml:"max_contribution_limit"`
		EffectiveDate        string `yaml:"effective_date"`
	} `yaml:"ssnit_rates"`

	WithholdingRates []struct {
		EmploymentType string `yaml:"employment_type"`
		Rate           string `yaml:"rate"`
		EffectiveDate  string `yaml:"effective_date"`
	} `yaml:"withholding_rates"`
}

func loadSeedFile(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &seed, nil
}

// apply loads every table through the statutory service. Rate rows that
// already exist are skipped so the seed can be re-run.
func (s *seedFile) apply(ctx context.Context, svc statutory.Service, logger *slog.Logger) error {
	for _, set := range s.TaxBands {
		req := statutory.ReplaceTaxBandsRequest{TaxYear: set.TaxYear, IsAnnual: set.IsAnnual}
		for _, b := range set.Bands {
			in := statutory.TaxBandInput{
				BandStart: decimal.RequireFromString(b.BandStart),
				Rate:      decimal.RequireFromString(b.Rate),
			}
			if b.BandEnd != "" {
				end := decimal.RequireFromString(b.BandEnd)
				in.BandEnd = &end
			}
			req.Bands = append(req.Bands, in)
		}

		if _, err := svc.ReplaceTaxBands(ctx, req); err != nil {
			return fmt.Errorf("tax bands %d (annual=%t): %w", set.TaxYear, set.IsAnnual, err)
		}
		logger.Info("tax bands loaded", slog.Int("tax_year", set.TaxYear), slog.Bool("is_annual", set.IsAnnual), slog.Int("bands", len(req.Bands)))
	}

	for _, r := range s.SsnitRates {
		_, err := svc.CreateSsnitRate(ctx, statutory.CreateSsnitRateRequest{
			EmployeeRate:         decimal.RequireFromString(r.EmployeeRate),
			EmployerRate:         decimal.RequireFromString(r.EmployerRate),
			MaxContributionLimit: decimal.RequireFromString(r.MaxContributionLimit),
			EffectiveDate:        r.EffectiveDate,
		})
		if errors.Is(err, statutory.ErrSsnitRateExists) {
			logger.Info("ssnit rate already present", slog.String("effective_date", r.EffectiveDate))
			continue
		}
		if err != nil {
			return fmt.Errorf("ssnit rate %s: %w", r.EffectiveDate, err)
		}
	}

	for _, r := range s.WithholdingRates {
		_, err := svc.CreateWithholdingRate(ctx, statutory.CreateWithholdingRateRequest{
			EmploymentType: r.EmploymentType,
			Rate:           decimal.RequireFromString(r.Rate),
			EffectiveDate:  r.EffectiveDate,
		})
		if errors.Is(err, statutory.ErrWithholdingRateExists) {
			logger.Info("withholding rate already present", slog.String("employment_type", r.EmploymentType))
			continue
		}
		if err != nil {
			return fmt.Errorf("withholding rate %s %s: %w", r.EmploymentType, r.EffectiveDate, err)
		}
	}

	return nil
}
