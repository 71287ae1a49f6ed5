package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
)

type statutoryRepositoryImpl struct {
	db *database.DB
}

func NewStatutoryRepository(db *database.DB) statutory.Repository {
	return &statutoryRepositoryImpl{db: db}
}

// ========== TAX BANDS ==========

func (r *statutoryRepositoryImpl) LatestTaxYear(ctx context.Context, atOrBefore int, isAnnual bool) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT MAX(tax_year)
		FROM tax_bands
		WHERE tax_year <= $1 AND is_annual = $2
	`

	var year *int
	if err := q.QueryRow(ctx, query, atOrBefore, isAnnual).Scan(&year); err != nil {
		return 0, fmt.Errorf("failed to get latest tax year: %w", err)
	}
	if year == nil {
		return 0, statutory.ErrTaxBandsNotFound
	}

	return *year, nil
}

func (r *statutoryRepositoryImpl) ListTaxBands(ctx context.Context, taxYear int, isAnnual bool) ([]statutory.TaxBand, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tax_year, is_annual, band_start, band_end, rate, created_at
		FROM tax_bands
		WHERE tax_year = $1 AND is_annual = $2
		ORDER BY band_start
	`

	rows, err := q.Query(ctx, query, taxYear, isAnnual)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax bands: %w", err)
	}
	defer rows.Close()

	var bands []statutory.TaxBand
	for rows.Next() {
		var b statutory.TaxBand
		if err := rows.Scan(&b.ID, &b.TaxYear, &b.IsAnnual, &b.BandStart, &b.BandEnd, &b.Rate, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tax band: %w", err)
		}
		bands = append(bands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tax bands: %w", err)
	}

	return bands, nil
}

// ReplaceTaxBands deletes and reinserts the bands of one (year, granularity).
// Call it inside a transaction.
func (r *statutoryRepositoryImpl) ReplaceTaxBands(ctx context.Context, taxYear int, isAnnual bool, bands []statutory.TaxBand) ([]statutory.TaxBand, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM tax_bands WHERE tax_year = $1 AND is_annual = $2`, taxYear, isAnnual); err != nil {
		return nil, fmt.Errorf("failed to delete tax bands: %w", err)
	}

	query := `
		INSERT INTO tax_bands (tax_year, is_annual, band_start, band_end, rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	batch := &pgx.Batch{}
	for _, b := range bands {
		batch.Queue(query, taxYear, isAnnual, b.BandStart, b.BandEnd, b.Rate)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	saved := make([]statutory.TaxBand, 0, len(bands))
	for _, b := range bands {
		b.TaxYear = taxYear
		b.IsAnnual = isAnnual
		if err := results.QueryRow().Scan(&b.ID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to insert tax band: %w", err)
		}
		saved = append(saved, b)
	}

	return saved, nil
}

// TaxBandsInUse reports whether a payslip of a closed period was computed
// from the bands of taxYear, including payslips of later years that fell
// back to them.
func (r *statutoryRepositoryImpl) TaxBandsInUse(ctx context.Context, taxYear int, isAnnual bool) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM payslips ps
			JOIN payroll_periods pp ON pp.id = ps.payroll_period_id
			WHERE pp.is_closed AND ps.tax_band_year = $1 AND ps.tax_band_annual = $2
		)
	`

	var inUse bool
	if err := q.QueryRow(ctx, query, taxYear, isAnnual).Scan(&inUse); err != nil {
		return false, fmt.Errorf("failed to check tax band usage: %w", err)
	}

	return inUse, nil
}

// ========== SSNIT ==========

func (r *statutoryRepositoryImpl) CreateSsnitRate(ctx context.Context, rate statutory.SsnitRate) (statutory.SsnitRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO ssnit_rates (employee_rate, employer_rate, max_contribution_limit, effective_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, employee_rate, employer_rate, max_contribution_limit, effective_date, created_at
	`

	var s statutory.SsnitRate
	err := q.QueryRow(ctx, query, rate.EmployeeRate, rate.EmployerRate, rate.MaxContributionLimit, rate.EffectiveDate).
		Scan(&s.ID, &s.EmployeeRate, &s.EmployerRate, &s.MaxContributionLimit, &s.EffectiveDate, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return statutory.SsnitRate{}, statutory.ErrSsnitRateExists
		}
		return statutory.SsnitRate{}, fmt.Errorf("failed to create ssnit rate: %w", err)
	}

	return s, nil
}

func (r *statutoryRepositoryImpl) ListSsnitRates(ctx context.Context) ([]statutory.SsnitRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_rate, employer_rate, max_contribution_limit, effective_date, created_at
		FROM ssnit_rates
		ORDER BY effective_date DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ssnit rates: %w", err)
	}
	defer rows.Close()

	var rates []statutory.SsnitRate
	for rows.Next() {
		var s statutory.SsnitRate
		if err := rows.Scan(&s.ID, &s.EmployeeRate, &s.EmployerRate, &s.MaxContributionLimit, &s.EffectiveDate, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ssnit rate: %w", err)
		}
		rates = append(rates, s)
	}

	return rates, rows.Err()
}

func (r *statutoryRepositoryImpl) GetEffectiveSsnitRate(ctx context.Context, asOf time.Time) (statutory.SsnitRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_rate, employer_rate, max_contribution_limit, effective_date, created_at
		FROM ssnit_rates
		WHERE effective_date <= $1
		ORDER BY effective_date DESC
		LIMIT 1
	`

	var s statutory.SsnitRate
	err := q.QueryRow(ctx, query, asOf).
		Scan(&s.ID, &s.EmployeeRate, &s.EmployerRate, &s.MaxContributionLimit, &s.EffectiveDate, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return statutory.SsnitRate{}, statutory.ErrSsnitRateNotFound
		}
		return statutory.SsnitRate{}, fmt.Errorf("failed to get effective ssnit rate: %w", err)
	}

	return s, nil
}

// ========== WITHHOLDING TAX ==========

func (r *statutoryRepositoryImpl) CreateWithholdingRate(ctx context.Context, rate statutory.WithholdingTaxRate) (statutory.WithholdingTaxRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO withholding_tax_rates (employment_type, rate, effective_date)
		VALUES ($1, $2, $3)
		RETURNING id, employment_type, rate, effective_date, created_at
	`

	var w statutory.WithholdingTaxRate
	err := q.QueryRow(ctx, query, rate.EmploymentType, rate.Rate, rate.EffectiveDate).
		Scan(&w.ID, &w.EmploymentType, &w.Rate, &w.EffectiveDate, &w.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return statutory.WithholdingTaxRate{}, statutory.ErrWithholdingRateExists
		}
		return statutory.WithholdingTaxRate{}, fmt.Errorf("failed to create withholding rate: %w", err)
	}

	return w, nil
}

func (r *statutoryRepositoryImpl) ListWithholdingRates(ctx context.Context) ([]statutory.WithholdingTaxRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employment_type, rate, effective_date, created_at
		FROM withholding_tax_rates
		ORDER BY employment_type, effective_date DESC
	`

	return r.queryWithholding(ctx, q, query)
}

func (r *statutoryRepositoryImpl) GetEffectiveWithholdingRate(ctx context.Context, employmentType string, asOf time.Time) (statutory.WithholdingTaxRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employment_type, rate, effective_date, created_at
		FROM withholding_tax_rates
		WHERE employment_type = $1 AND effective_date <= $2
		ORDER BY effective_date DESC
		LIMIT 1
	`

	var w statutory.WithholdingTaxRate
	err := q.QueryRow(ctx, query, employmentType, asOf).
		Scan(&w.ID, &w.EmploymentType, &w.Rate, &w.EffectiveDate, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return statutory.WithholdingTaxRate{}, statutory.ErrWithholdingRateNotFound
		}
		return statutory.WithholdingTaxRate{}, fmt.Errorf("failed to get effective withholding rate: %w", err)
	}

	return w, nil
}

// ListEffectiveWithholdingRates returns the latest row per employment type
// with effective_date on or before asOf.
func (r *statutoryRepositoryImpl) ListEffectiveWithholdingRates(ctx context.Context, asOf time.Time) ([]statutory.WithholdingTaxRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT ON (employment_type) id, employment_type, rate, effective_date, created_at
		FROM withholding_tax_rates
		WHERE effective_date <= $1
		ORDER BY employment_type, effective_date DESC
	`

	return r.queryWithholding(ctx, q, query, asOf)
}

func (r *statutoryRepositoryImpl) queryWithholding(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]statutory.WithholdingTaxRate, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list withholding rates: %w", err)
	}
	defer rows.Close()

	var rates []statutory.WithholdingTaxRate
	for rows.Next() {
		var w statutory.WithholdingTaxRate
		if err := rows.Scan(&w.ID, &w.EmploymentType, &w.Rate, &w.EffectiveDate, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan withholding rate: %w", err)
		}
		rates = append(rates, w)
	}

	return rates, rows.Err()
}
