package statutory

import (
	"context"
	"time"
)

type Service interface {
	ResolveTaxBands(ctx context.Context, taxYear int, isAnnual bool) (BandSetResponse, error)
	ReplaceTaxBands(ctx context.Context, req ReplaceTaxBandsRequest) (BandSetResponse, error)

	CreateSsnitRate(ctx context.Context, req CreateSsnitRateRequest) (SsnitRateResponse, error)
	ListSsnitRates(ctx context.Context) ([]SsnitRateResponse, error)
	EffectiveSsnitRate(ctx context.Context, asOf time.Time) (SsnitRateResponse, error)

	CreateWithholdingRate(ctx context.Context, req CreateWithholdingRateRequest) (WithholdingRateResponse, error)
	ListWithholdingRates(ctx context.Context) ([]WithholdingRateResponse, error)
	EffectiveWithholdingRate(ctx context.Context, employmentType string, asOf time.Time) (WithholdingRateResponse, error)

	// Snapshot collects every rate in force for a run. Missing rows are not
	// an error here; only infrastructure failures are returned.
	Snapshot(ctx context.Context, taxYear int, isAnnual bool, asOf time.Time) (RateSnapshot, error)
}
