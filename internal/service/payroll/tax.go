package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/money"
)

// ProgressiveTax taxes the part of income that falls inside each band
// [start, end) at that band's rate. Only the total is rounded.
func ProgressiveTax(income decimal.Decimal, bands []statutory.TaxBand) (decimal.Decimal, []payroll.BandTax) {
	sorted := make([]statutory.TaxBand, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BandStart.LessThan(sorted[j].BandStart)
	})

	total := decimal.Zero
	breakdown := make([]payroll.BandTax, 0, len(sorted))
	for _, band := range sorted {
		if income.LessThanOrEqual(band.BandStart) {
			break
		}

		upper := income
		if band.BandEnd.Valid && band.BandEnd.Decimal.LessThan(income) {
			upper = band.BandEnd.Decimal
		}

		taxed := upper.Sub(band.BandStart)
		tax := taxed.Mul(band.Rate)
		total = total.Add(tax)

		breakdown = append(breakdown, payroll.BandTax{
			BandStart: band.BandStart,
			BandEnd:   band.BandEnd,
			Rate:      band.Rate,
			Taxed:     taxed,
			Tax:       tax,
		})
	}

	return money.Round(total), breakdown
}
