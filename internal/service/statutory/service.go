package statutory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
)

type StatutoryServiceImpl struct {
	tx database.Transactor
	statutory.Repository
	logger *slog.Logger
}

func NewStatutoryService(tx database.Transactor, repo statutory.Repository, logger *slog.Logger) statutory.Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatutoryServiceImpl{
		tx:         tx,
		Repository: repo,
		logger:     logger.With(slog.String("component", "statutory")),
	}
}

// resolveBands returns the bands of the latest tax year not after taxYear.
// An empty set means no year qualifies.
func (s *StatutoryServiceImpl) resolveBands(ctx context.Context, taxYear int, isAnnual bool) (statutory.BandSet, error) {
	set := statutory.BandSet{RequestedYear: taxYear, IsAnnual: isAnnual}

	year, err := s.Repository.LatestTaxYear(ctx, taxYear, isAnnual)
	if err != nil {
		if errors.Is(err, statutory.ErrTaxBandsNotFound) {
			return set, nil
		}
		return set, fmt.Errorf("failed to resolve tax year: %w", err)
	}

	bands, err := s.Repository.ListTaxBands(ctx, year, isAnnual)
	if err != nil {
		return set, fmt.Errorf("failed to list tax bands: %w", err)
	}

	set.ResolvedYear = year
	set.Bands = bands
	return set, nil
}

// ResolveTaxBands implements statutory.Service.
func (s *StatutoryServiceImpl) ResolveTaxBands(ctx context.Context, taxYear int, isAnnual bool) (statutory.BandSetResponse, error) {
	set, err := s.resolveBands(ctx, taxYear, isAnnual)
	if err != nil {
		return statutory.BandSetResponse{}, err
	}
	return statutory.NewBandSetResponse(set), nil
}

// ReplaceTaxBands implements statutory.Service. Bands already used by a
// closed period are frozen; rate changes go in as a new tax year.
func (s *StatutoryServiceImpl) ReplaceTaxBands(ctx context.Context, req statutory.ReplaceTaxBandsRequest) (statutory.BandSetResponse, error) {
	if err := req.Validate(); err != nil {
		return statutory.BandSetResponse{}, err
	}

	var saved []statutory.TaxBand
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		inUse, err := s.Repository.TaxBandsInUse(ctx, req.TaxYear, req.IsAnnual)
		if err != nil {
			return fmt.Errorf("failed to check tax band usage: %w", err)
		}
		if inUse {
			return statutory.ErrTaxBandsInUse
		}

		saved, err = s.Repository.ReplaceTaxBands(ctx, req.TaxYear, req.IsAnnual, req.ToBands())
		if err != nil {
			return fmt.Errorf("failed to replace tax bands: %w", err)
		}
		return nil
	})
	if err != nil {
		return statutory.BandSetResponse{}, err
	}

	s.logger.InfoContext(ctx, "tax bands replaced",
		slog.Int("tax_year", req.TaxYear),
		slog.Bool("annual", req.IsAnnual),
		slog.Int("bands", len(saved)),
	)
	return statutory.NewBandSetResponse(statutory.BandSet{
		RequestedYear: req.TaxYear,
		ResolvedYear:  req.TaxYear,
		IsAnnual:      req.IsAnnual,
		Bands:         saved,
	}), nil
}

// CreateSsnitRate implements statutory.Service.
func (s *StatutoryServiceImpl) CreateSsnitRate(ctx context.Context, req statutory.CreateSsnitRateRequest) (statutory.SsnitRateResponse, error) {
	if err := req.Validate(); err != nil {
		return statutory.SsnitRateResponse{}, err
	}
	effective, _ := statutory.ParseDate(req.EffectiveDate)

	created, err := s.Repository.CreateSsnitRate(ctx, statutory.SsnitRate{
		EmployeeRate:         req.EmployeeRate,
		EmployerRate:         req.EmployerRate,
		MaxContributionLimit: req.MaxContributionLimit,
		EffectiveDate:        effective,
	})
	if err != nil {
		return statutory.SsnitRateResponse{}, fmt.Errorf("failed to create ssnit rate: %w", err)
	}
	return statutory.NewSsnitRateResponse(created), nil
}

// ListSsnitRates implements statutory.Service.
func (s *StatutoryServiceImpl) ListSsnitRates(ctx context.Context) ([]statutory.SsnitRateResponse, error) {
	rates, err := s.Repository.ListSsnitRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ssnit rates: %w", err)
	}

	resp := make([]statutory.SsnitRateResponse, 0, len(rates))
	for _, r := range rates {
		resp = append(resp, statutory.NewSsnitRateResponse(r))
	}
	return resp, nil
}

// EffectiveSsnitRate implements statutory.Service.
func (s *StatutoryServiceImpl) EffectiveSsnitRate(ctx context.Context, asOf time.Time) (statutory.SsnitRateResponse, error) {
	rate, err := s.Repository.GetEffectiveSsnitRate(ctx, asOf)
	if err != nil {
		return statutory.SsnitRateResponse{}, err
	}
	return statutory.NewSsnitRateResponse(rate), nil
}

// CreateWithholdingRate implements statutory.Service.
func (s *StatutoryServiceImpl) CreateWithholdingRate(ctx context.Context, req statutory.CreateWithholdingRateRequest) (statutory.WithholdingRateResponse, error) {
	if err := req.Validate(); err != nil {
		return statutory.WithholdingRateResponse{}, err
	}
	effective, _ := statutory.ParseDate(req.EffectiveDate)

	created, err := s.Repository.CreateWithholdingRate(ctx, statutory.WithholdingTaxRate{
		EmploymentType: req.EmploymentType,
		Rate:           req.Rate,
		EffectiveDate:  effective,
	})
	if err != nil {
		return statutory.WithholdingRateResponse{}, fmt.Errorf("failed to create withholding rate: %w", err)
	}
	return statutory.NewWithholdingRateResponse(created), nil
}

// ListWithholdingRates implements statutory.Service.
func (s *StatutoryServiceImpl) ListWithholdingRates(ctx context.Context) ([]statutory.WithholdingRateResponse, error) {
	rates, err := s.Repository.ListWithholdingRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list withholding rates: %w", err)
	}

	resp := make([]statutory.WithholdingRateResponse, 0, len(rates))
	for _, r := range rates {
		resp = append(resp, statutory.NewWithholdingRateResponse(r))
	}
	return resp, nil
}

// EffectiveWithholdingRate implements statutory.Service.
func (s *StatutoryServiceImpl) EffectiveWithholdingRate(ctx context.Context, employmentType string, asOf time.Time) (statutory.WithholdingRateResponse, error) {
	rate, err := s.Repository.GetEffectiveWithholdingRate(ctx, employmentType, asOf)
	if err != nil {
		return statutory.WithholdingRateResponse{}, err
	}
	return statutory.NewWithholdingRateResponse(rate), nil
}

// Snapshot implements statutory.Service.
func (s *StatutoryServiceImpl) Snapshot(ctx context.Context, taxYear int, isAnnual bool, asOf time.Time) (statutory.RateSnapshot, error) {
	snap := statutory.RateSnapshot{
		AsOf:        asOf,
		Withholding: make(map[string]statutory.WithholdingTaxRate),
	}

	bands, err := s.resolveBands(ctx, taxYear, isAnnual)
	if err != nil {
		return statutory.RateSnapshot{}, err
	}
	snap.Bands = bands

	ssnit, err := s.Repository.GetEffectiveSsnitRate(ctx, asOf)
	switch {
	case err == nil:
		snap.Ssnit = &ssnit
	case errors.Is(err, statutory.ErrSsnitRateNotFound):
	default:
		return statutory.RateSnapshot{}, fmt.Errorf("failed to get effective ssnit rate: %w", err)
	}

	withholding, err := s.Repository.ListEffectiveWithholdingRates(ctx, asOf)
	if err != nil {
		return statutory.RateSnapshot{}, fmt.Errorf("failed to list effective withholding rates: %w", err)
	}
	for _, r := range withholding {
		snap.Withholding[r.EmploymentType] = r
	}

	if bands.ResolvedYear != 0 && bands.ResolvedYear != taxYear {
		s.logger.InfoContext(ctx, "tax bands fell back to an earlier year",
			slog.Int("requested_year", taxYear), slog.Int("resolved_year", bands.ResolvedYear))
	}
	return snap, nil
}
