package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== PROGRESSIVE TAX TESTS =====

func TestProgressiveTax(t *testing.T) {
	tests := []struct {
		name   string
		income string
		want   string
	}{
		{"zero income", "0", "0"},
		{"below first taxed band", "400", "0"},
		{"at first boundary", "500", "0"},
		{"inside second band", "700", "10"},
		{"at second boundary belongs to lower band", "1000", "25"},
		{"spans all bands", "1200", "55"},
		{"large income", "10000", "1375"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ProgressiveTax(d(tt.income), simpleBands())
			assert.True(t, d(tt.want).Equal(got), "tax for %s: want %s, got %s", tt.income, tt.want, got)
		})
	}
}

func TestProgressiveTax_Breakdown(t *testing.T) {
	total, breakdown := ProgressiveTax(d("1200"), simpleBands())

	require.Len(t, breakdown, 3)
	assert.True(t, d("500").Equal(breakdown[0].Taxed))
	assert.True(t, d("0").Equal(breakdown[0].Tax))
	assert.True(t, d("500").Equal(breakdown[1].Taxed))
	assert.True(t, d("25").Equal(breakdown[1].Tax))
	assert.True(t, d("200").Equal(breakdown[2].Taxed))
	assert.True(t, d("30").Equal(breakdown[2].Tax))
	assert.False(t, breakdown[2].BandEnd.Valid)

	sum := decimal.Zero
	for _, b := range breakdown {
		sum = sum.Add(b.Tax)
	}
	assert.True(t, total.Equal(sum.Round(2)))
}

func TestProgressiveTax_UnsortedBands(t *testing.T) {
	bands := simpleBands()
	shuffled := []statutory.TaxBand{bands[2], bands[0], bands[1]}

	got, _ := ProgressiveTax(d("1200"), shuffled)

	assert.True(t, d("55").Equal(got))
}

func TestProgressiveTax_RoundsOnlyTheTotal(t *testing.T) {
	// Each band yields 0.525; rounding per band would give 1.06.
	bands := []statutory.TaxBand{
		band("0", "5", "0.105"),
		band("5", "", "0.105"),
	}

	got, breakdown := ProgressiveTax(d("10"), bands)

	assert.Equal(t, "1.05", got.StringFixed(2))
	require.Len(t, breakdown, 2)
	assert.True(t, d("0.525").Equal(breakdown[0].Tax))
}

func TestProgressiveTax_GhanaMonthlyBands(t *testing.T) {
	bands := []statutory.TaxBand{
		band("0", "490", "0"),
		band("490", "600", "0.05"),
		band("600", "730", "0.10"),
		band("730", "3896.67", "0.175"),
		band("3896.67", "19896.67", "0.25"),
		band("19896.67", "50416.67", "0.30"),
		band("50416.67", "", "0.35"),
	}

	got, _ := ProgressiveTax(d("4725"), bands)

	// 0 + 5.50 + 13.00 + 554.16725 + 207.0825 = 779.74975
	assert.Equal(t, "779.75", got.StringFixed(2))
}
