package statutory

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	bands       []statutory.TaxBand
	ssnit       []statutory.SsnitRate
	withholding []statutory.WithholdingTaxRate
	inUse       map[bandKey]bool
}

type bandKey struct {
	year   int
	annual bool
}

func (r *memRepo) LatestTaxYear(ctx context.Context, atOrBefore int, isAnnual bool) (int, error) {
	best := 0
	for _, b := range r.bands {
		if b.IsAnnual == isAnnual && b.TaxYear <= atOrBefore && b.TaxYear > best {
			best = b.TaxYear
		}
	}
	if best == 0 {
		return 0, statutory.ErrTaxBandsNotFound
	}
	return best, nil
}

func (r *memRepo) ListTaxBands(ctx context.Context, taxYear int, isAnnual bool) ([]statutory.TaxBand, error) {
	var out []statutory.TaxBand
	for _, b := range r.bands {
		if b.TaxYear == taxYear && b.IsAnnual == isAnnual {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BandStart.LessThan(out[j].BandStart) })
	return out, nil
}

func (r *memRepo) ReplaceTaxBands(ctx context.Context, taxYear int, isAnnual bool, bands []statutory.TaxBand) ([]statutory.TaxBand, error) {
	kept := r.bands[:0]
	for _, b := range r.bands {
		if b.TaxYear != taxYear || b.IsAnnual != isAnnual {
			kept = append(kept, b)
		}
	}
	r.bands = append(kept, bands...)
	return bands, nil
}

func (r *memRepo) TaxBandsInUse(ctx context.Context, taxYear int, isAnnual bool) (bool, error) {
	return r.inUse[bandKey{taxYear, isAnnual}], nil
}

func (r *memRepo) CreateSsnitRate(ctx context.Context, rate statutory.SsnitRate) (statutory.SsnitRate, error) {
	for _, existing := range r.ssnit {
		if existing.EffectiveDate.Equal(rate.EffectiveDate) {
			return statutory.SsnitRate{}, statutory.ErrSsnitRateExists
		}
	}
	rate.ID = int64(len(r.ssnit) + 1)
	r.ssnit = append(r.ssnit, rate)
	return rate, nil
}

func (r *memRepo) ListSsnitRates(ctx context.Context) ([]statutory.SsnitRate, error) {
	return r.ssnit, nil
}

func (r *memRepo) GetEffectiveSsnitRate(ctx context.Context, asOf time.Time) (statutory.SsnitRate, error) {
	var found *statutory.SsnitRate
	for i, rate := range r.ssnit {
		if !rate.EffectiveDate.After(asOf) && (found == nil || rate.EffectiveDate.After(found.EffectiveDate)) {
			found = &r.ssnit[i]
		}
	}
	if found == nil {
		return statutory.SsnitRate{}, statutory.ErrSsnitRateNotFound
	}
	return *found, nil
}

func (r *memRepo) CreateWithholdingRate(ctx context.Context, rate statutory.WithholdingTaxRate) (statutory.WithholdingTaxRate, error) {
	r.withholding = append(r.withholding, rate)
	return rate, nil
}

func (r *memRepo) ListWithholdingRates(ctx context.Context) ([]statutory.WithholdingTaxRate, error) {
	return r.withholding, nil
}

func (r *memRepo) GetEffectiveWithholdingRate(ctx context.Context, employmentType string, asOf time.Time) (statutory.WithholdingTaxRate, error) {
	rates, _ := r.ListEffectiveWithholdingRates(ctx, asOf)
	for _, rate := range rates {
		if rate.EmploymentType == employmentType {
			return rate, nil
		}
	}
	return statutory.WithholdingTaxRate{}, statutory.ErrWithholdingRateNotFound
}

func (r *memRepo) ListEffectiveWithholdingRates(ctx context.Context, asOf time.Time) ([]statutory.WithholdingTaxRate, error) {
	latest := make(map[string]statutory.WithholdingTaxRate)
	for _, rate := range r.withholding {
		if rate.EffectiveDate.After(asOf) {
			continue
		}
		if cur, ok := latest[rate.EmploymentType]; !ok || rate.EffectiveDate.After(cur.EffectiveDate) {
			latest[rate.EmploymentType] = rate
		}
	}
	out := make([]statutory.WithholdingTaxRate, 0, len(latest))
	for _, rate := range latest {
		out = append(out, rate)
	}
	return out, nil
}

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func bandsRequest(year int) statutory.ReplaceTaxBandsRequest {
	return statutory.ReplaceTaxBandsRequest{
		TaxYear: year,
		Bands: []statutory.TaxBandInput{
			{BandStart: dec("0"), BandEnd: ptr(dec("490")), Rate: dec("0")},
			{BandStart: dec("490"), BandEnd: ptr(dec("600")), Rate: dec("0.05")},
			{BandStart: dec("600"), Rate: dec("0.10")},
		},
	}
}

// ===== TAX BAND TESTS =====

func TestResolveTaxBands_FallsBackToLatestPriorYear(t *testing.T) {
	// Arrange
	repo := &memRepo{}
	svc := NewStatutoryService(passthroughTx{}, repo, nil)
	_, err := svc.ReplaceTaxBands(context.Background(), bandsRequest(2022))
	require.NoError(t, err)
	_, err = svc.ReplaceTaxBands(context.Background(), bandsRequest(2024))
	require.NoError(t, err)

	// Act
	got, err := svc.ResolveTaxBands(context.Background(), 2023, false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2023, got.RequestedYear)
	assert.Equal(t, 2022, got.ResolvedYear)
	require.Len(t, got.Bands, 3)
	assert.Nil(t, got.Bands[2].BandEnd)
}

func TestResolveTaxBands_NothingBeforeRequestedYear(t *testing.T) {
	repo := &memRepo{}
	svc := NewStatutoryService(passthroughTx{}, repo, nil)
	_, err := svc.ReplaceTaxBands(context.Background(), bandsRequest(2024))
	require.NoError(t, err)

	got, err := svc.ResolveTaxBands(context.Background(), 2020, false)

	require.NoError(t, err)
	assert.Zero(t, got.ResolvedYear)
	assert.Empty(t, got.Bands)

	annual, err := svc.ResolveTaxBands(context.Background(), 2024, true)
	require.NoError(t, err)
	assert.Empty(t, annual.Bands)
}

func TestReplaceTaxBands_RejectsInvalidBands(t *testing.T) {
	svc := NewStatutoryService(passthroughTx{}, &memRepo{}, nil)

	tests := []struct {
		name  string
		bands []statutory.TaxBandInput
		field string
	}{
		{
			name:  "does not start at zero",
			bands: []statutory.TaxBandInput{{BandStart: dec("10"), Rate: dec("0.1")}},
			field: "bands[0].band_start",
		},
		{
			name: "gap between bands",
			bands: []statutory.TaxBandInput{
				{BandStart: dec("0"), BandEnd: ptr(dec("100")), Rate: dec("0")},
				{BandStart: dec("150"), Rate: dec("0.1")},
			},
			field: "bands[1].band_start",
		},
		{
			name: "bounded top band",
			bands: []statutory.TaxBandInput{
				{BandStart: dec("0"), BandEnd: ptr(dec("100")), Rate: dec("0")},
			},
			field: "bands[0].band_end",
		},
		{
			name:  "rate above one",
			bands: []statutory.TaxBandInput{{BandStart: dec("0"), Rate: dec("1.5")}},
			field: "bands[0].rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ReplaceTaxBands(context.Background(), statutory.ReplaceTaxBandsRequest{TaxYear: 2024, Bands: tt.bands})

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestReplaceTaxBands_InUse(t *testing.T) {
	repo := &memRepo{inUse: map[bandKey]bool{{2024, false}: true}}
	svc := NewStatutoryService(passthroughTx{}, repo, nil)

	_, err := svc.ReplaceTaxBands(context.Background(), bandsRequest(2024))

	assert.ErrorIs(t, err, statutory.ErrTaxBandsInUse)
	assert.Empty(t, repo.bands)
}

func TestReplaceTaxBands_InUseIsPerGranularity(t *testing.T) {
	repo := &memRepo{inUse: map[bandKey]bool{{2024, true}: true}}
	svc := NewStatutoryService(passthroughTx{}, repo, nil)

	resp, err := svc.ReplaceTaxBands(context.Background(), bandsRequest(2024))

	require.NoError(t, err)
	assert.Len(t, resp.Bands, 3)
}

// ===== SNAPSHOT TESTS =====

func TestSnapshot(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := &memRepo{}
	svc := NewStatutoryService(passthroughTx{}, repo, nil)
	_, err := svc.ReplaceTaxBands(ctx, bandsRequest(2024))
	require.NoError(t, err)
	_, err = svc.CreateSsnitRate(ctx, statutory.CreateSsnitRateRequest{
		EmployeeRate: dec("0.05"), EmployerRate: dec("0.13"), MaxContributionLimit: dec("35000"), EffectiveDate: "2023-01-01",
	})
	require.NoError(t, err)
	_, err = svc.CreateSsnitRate(ctx, statutory.CreateSsnitRateRequest{
		EmployeeRate: dec("0.055"), EmployerRate: dec("0.13"), MaxContributionLimit: dec("61000"), EffectiveDate: "2024-01-01",
	})
	require.NoError(t, err)
	_, err = svc.CreateWithholdingRate(ctx, statutory.CreateWithholdingRateRequest{
		EmploymentType: "casual", Rate: dec("0.05"), EffectiveDate: "2024-01-01",
	})
	require.NoError(t, err)
	_, err = svc.CreateWithholdingRate(ctx, statutory.CreateWithholdingRateRequest{
		EmploymentType: "consultant", Rate: dec("0.075"), EffectiveDate: "2024-06-01",
	})
	require.NoError(t, err)

	// Act
	snap, err := svc.Snapshot(ctx, 2024, false, date("2024-03-31"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2024, snap.Bands.ResolvedYear)
	require.NotNil(t, snap.Ssnit)
	assert.True(t, dec("0.055").Equal(snap.Ssnit.EmployeeRate))
	_, ok := snap.WithholdingFor("casual")
	assert.True(t, ok)
	_, ok = snap.WithholdingFor("consultant")
	assert.False(t, ok, "rate effective in June must not apply in March")
}

func TestSnapshot_MissingPiecesAreAbsent(t *testing.T) {
	svc := NewStatutoryService(passthroughTx{}, &memRepo{}, nil)

	snap, err := svc.Snapshot(context.Background(), 2024, false, date("2024-01-31"))

	require.NoError(t, err)
	assert.True(t, snap.Bands.Empty())
	assert.Nil(t, snap.Ssnit)
	assert.Empty(t, snap.Withholding)
}

// ===== SSNIT RATE TESTS =====

func TestCreateSsnitRate(t *testing.T) {
	ctx := context.Background()
	svc := NewStatutoryService(passthroughTx{}, &memRepo{}, nil)
	req := statutory.CreateSsnitRateRequest{
		EmployeeRate: dec("0.055"), EmployerRate: dec("0.13"), MaxContributionLimit: dec("61000"), EffectiveDate: "2024-01-01",
	}

	resp, err := svc.CreateSsnitRate(ctx, req)
	require.NoError(t, err)
	assert.True(t, dec("0.185").Equal(resp.TotalRate))
	assert.Equal(t, "2024-01-01", resp.EffectiveDate)

	_, err = svc.CreateSsnitRate(ctx, req)
	assert.ErrorIs(t, err, statutory.ErrSsnitRateExists)

	_, err = svc.EffectiveSsnitRate(ctx, date("2023-12-31"))
	assert.ErrorIs(t, err, statutory.ErrSsnitRateNotFound)

	bad := req
	bad.EmployeeRate = dec("5.5")
	_, err = svc.CreateSsnitRate(ctx, bad)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "employee_rate")
}
