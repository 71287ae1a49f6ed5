package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/money"
)

// SsnitContribution is the capped base and the two rounded contributions.
type SsnitContribution struct {
	Base     decimal.Decimal
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// ComputeSsnit caps chargeable at the contribution limit before applying the
// employee and employer rates.
func ComputeSsnit(chargeable decimal.Decimal, rate statutory.SsnitRate) SsnitContribution {
	base := decimal.Min(chargeable, rate.MaxContributionLimit)
	return SsnitContribution{
		Base:     base,
		Employee: money.Round(base.Mul(rate.EmployeeRate)),
		Employer: money.Round(base.Mul(rate.EmployerRate)),
	}
}
