package statutory

import (
	"context"
	"time"
)

// Repository gives access to the statutory tables. They are shared by every
// tenant, so no method takes a tenant id.
type Repository interface {
	// Tax bands
	LatestTaxYear(ctx context.Context, atOrBefore int, isAnnual bool) (int, error)
	ListTaxBands(ctx context.Context, taxYear int, isAnnual bool) ([]TaxBand, error)
	ReplaceTaxBands(ctx context.Context, taxYear int, isAnnual bool, bands []TaxBand) ([]TaxBand, error)
	TaxBandsInUse(ctx context.Context, taxYear int, isAnnual bool) (bool, error)

	// SSNIT
	CreateSsnitRate(ctx context.Context, rate SsnitRate) (SsnitRate, error)
	ListSsnitRates(ctx context.Context) ([]SsnitRate, error)
	GetEffectiveSsnitRate(ctx context.Context, asOf time.Time) (SsnitRate, error)

	// Withholding tax
	CreateWithholdingRate(ctx context.Context, rate WithholdingTaxRate) (WithholdingTaxRate, error)
	ListWithholdingRates(ctx context.Context) ([]WithholdingTaxRate, error)
	GetEffectiveWithholdingRate(ctx context.Context, employmentType string, asOf time.Time) (WithholdingTaxRate, error)
	ListEffectiveWithholdingRates(ctx context.Context, asOf time.Time) ([]WithholdingTaxRate, error)
}
