package statutory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// ========== TAX BAND DTOs ==========

type TaxBandInput struct {
	BandStart decimal.Decimal  `json:"band_start"`
	BandEnd   *decimal.Decimal `json:"band_end"`
	Rate      decimal.Decimal  `json:"rate"`
}

type ReplaceTaxBandsRequest struct {
	TaxYear  int            `json:"tax_year" validate:"gte=2000,lte=2100"`
	IsAnnual bool           `json:"is_annual"`
	Bands    []TaxBandInput `json:"bands" validate:"required,min=1"`
}

func (r *ReplaceTaxBandsRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}
	return ValidateBands(r.ToBands()).Err()
}

// ToBands converts the request rows into entities in request order.
func (r *ReplaceTaxBandsRequest) ToBands() []TaxBand {
	bands := make([]TaxBand, 0, len(r.Bands))
	for _, in := range r.Bands {
		band := TaxBand{
			TaxYear:   r.TaxYear,
			IsAnnual:  r.IsAnnual,
			BandStart: in.BandStart,
			Rate:      in.Rate,
		}
		if in.BandEnd != nil {
			band.BandEnd = decimal.NewNullDecimal(*in.BandEnd)
		}
		bands = append(bands, band)
	}
	return bands
}

// ValidateBands checks that bands are sorted, contiguous from zero, and end
// with exactly one unbounded band.
func ValidateBands(bands []TaxBand) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if len(bands) == 0 {
		errs.Add("bands", "at least one band is required")
		return errs
	}

	if !bands[0].BandStart.IsZero() {
		errs.Add("bands[0].band_start", "first band must start at 0")
	}

	for i, b := range bands {
		field := fmt.Sprintf("bands[%d]", i)
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			errs.Add(field+".rate", "must be between 0 and 1")
		}
		if b.BandEnd.Valid && !b.BandEnd.Decimal.GreaterThan(b.BandStart) {
			errs.Add(field+".band_end", "must be greater than band_start")
		}

		last := i == len(bands)-1
		if last && b.BandEnd.Valid {
			errs.Add(field+".band_end", "last band must be unbounded")
		}
		if !last && !b.BandEnd.Valid {
			errs.Add(field+".band_end", "only the last band may be unbounded")
		}

		if i > 0 {
			prev := bands[i-1]
			if prev.BandEnd.Valid && !prev.BandEnd.Decimal.Equal(b.BandStart) {
				errs.Add(field+".band_start", "must equal the previous band_end")
			}
		}
	}
	return errs
}

type TaxBandResponse struct {
	BandStart decimal.Decimal  `json:"band_start"`
	BandEnd   *decimal.Decimal `json:"band_end"`
	Rate      decimal.Decimal  `json:"rate"`
}

type BandSetResponse struct {
	RequestedYear int               `json:"requested_year"`
	ResolvedYear  int               `json:"resolved_year"`
	IsAnnual      bool              `json:"is_annual"`
	Bands         []TaxBandResponse `json:"bands"`
}

func NewBandSetResponse(set BandSet) BandSetResponse {
	resp := BandSetResponse{
		RequestedYear: set.RequestedYear,
		ResolvedYear:  set.ResolvedYear,
		IsAnnual:      set.IsAnnual,
		Bands:         make([]TaxBandResponse, 0, len(set.Bands)),
	}
	for _, b := range set.Bands {
		row := TaxBandResponse{BandStart: b.BandStart, Rate: b.Rate}
		if b.BandEnd.Valid {
			end := b.BandEnd.Decimal
			row.BandEnd = &end
		}
		resp.Bands = append(resp.Bands, row)
	}
	return resp
}

// ========== SSNIT DTOs ==========

type CreateSsnitRateRequest struct {
	EmployeeRate         decimal.Decimal `json:"employee_rate"`
	EmployerRate         decimal.Decimal `json:"employer_rate"`
	MaxContributionLimit decimal.Decimal `json:"max_contribution_limit"`
	EffectiveDate        string          `json:"effective_date" validate:"required,datetime=2006-01-02"`
}

func (r *CreateSsnitRateRequest) Validate() error {
	errs := validator.Struct(r)
	if !isFraction(r.EmployeeRate) {
		errs.Add("employee_rate", "must be between 0 and 1")
	}
	if !isFraction(r.EmployerRate) {
		errs.Add("employer_rate", "must be between 0 and 1")
	}
	if !r.MaxContributionLimit.IsPositive() {
		errs.Add("max_contribution_limit", "must be greater than 0")
	}
	return errs.Err()
}

type SsnitRateResponse struct {
	ID                   int64           `json:"id"`
	EmployeeRate         decimal.Decimal `json:"employee_rate"`
	EmployerRate         decimal.Decimal `json:"employer_rate"`
	TotalRate            decimal.Decimal `json:"total_rate"`
	MaxContributionLimit decimal.Decimal `json:"max_contribution_limit"`
	EffectiveDate        string          `json:"effective_date"`
}

func NewSsnitRateResponse(r SsnitRate) SsnitRateResponse {
	return SsnitRateResponse{
		ID:                   r.ID,
		EmployeeRate:         r.EmployeeRate,
		EmployerRate:         r.EmployerRate,
		TotalRate:            r.TotalRate(),
		MaxContributionLimit: r.MaxContributionLimit,
		EffectiveDate:        r.EffectiveDate.Format(dateLayout),
	}
}

// ========== WITHHOLDING DTOs ==========

type CreateWithholdingRateRequest struct {
	EmploymentType string          `json:"employment_type" validate:"required,max=50"`
	Rate           decimal.Decimal `json:"rate"`
	EffectiveDate  string          `json:"effective_date" validate:"required,datetime=2006-01-02"`
}

func (r *CreateWithholdingRateRequest) Validate() error {
	errs := validator.Struct(r)
	if !isFraction(r.Rate) {
		errs.Add("rate", "must be between 0 and 1")
	}
	return errs.Err()
}

type WithholdingRateResponse struct {
	ID             int64           `json:"id"`
	EmploymentType string          `json:"employment_type"`
	Rate           decimal.Decimal `json:"rate"`
	EffectiveDate  string          `json:"effective_date"`
}

func NewWithholdingRateResponse(r WithholdingTaxRate) WithholdingRateResponse {
	return WithholdingRateResponse{
		ID:             r.ID,
		EmploymentType: r.EmploymentType,
		Rate:           r.Rate,
		EffectiveDate:  r.EffectiveDate.Format(dateLayout),
	}
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func isFraction(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}
