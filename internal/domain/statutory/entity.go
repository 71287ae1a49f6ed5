package statutory

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxBand is one marginal PAYE bracket covering [BandStart, BandEnd).
// An invalid BandEnd marks the unbounded top band.
type TaxBand struct {
	ID        int64
	TaxYear   int
	IsAnnual  bool
	BandStart decimal.Decimal
	BandEnd   decimal.NullDecimal
	Rate      decimal.Decimal
	CreatedAt time.Time
}

func (b TaxBand) Unbounded() bool {
	return !b.BandEnd.Valid
}

// BandSet is the result of resolving the bands for a requested tax year.
// ResolvedYear may be earlier than RequestedYear when no rows exist for the
// requested year; it is zero when nothing could be resolved.
type BandSet struct {
	RequestedYear int
	ResolvedYear  int
	IsAnnual      bool
	Bands         []TaxBand
}

func (s BandSet) Empty() bool {
	return len(s.Bands) == 0
}

// SsnitRate holds the social security split and the monthly contribution cap.
type SsnitRate struct {
	ID                   int64
	EmployeeRate         decimal.Decimal
	EmployerRate         decimal.Decimal
	MaxContributionLimit decimal.Decimal
	EffectiveDate        time.Time
	CreatedAt            time.Time
}

func (r SsnitRate) TotalRate() decimal.Decimal {
	return r.EmployeeRate.Add(r.EmployerRate)
}

// WithholdingTaxRate is the flat rate applied to an employment type.
type WithholdingTaxRate struct {
	ID             int64
	EmploymentType string
	Rate           decimal.Decimal
	EffectiveDate  time.Time
	CreatedAt      time.Time
}

// RateSnapshot freezes every statutory input of a payroll run. Absent rows
// are left nil or missing so the calculator can report them per employee.
type RateSnapshot struct {
	AsOf        time.Time
	Bands       BandSet
	Ssnit       *SsnitRate
	Withholding map[string]WithholdingTaxRate
}

func (s RateSnapshot) WithholdingFor(employmentType string) (WithholdingTaxRate, bool) {
	rate, ok := s.Withholding[employmentType]
	return rate, ok
}
