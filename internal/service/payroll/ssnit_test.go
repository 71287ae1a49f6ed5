package payroll

import (
	"testing"

	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/stretchr/testify/assert"
)

// ===== SSNIT TESTS =====

func TestComputeSsnit(t *testing.T) {
	rate := statutory.SsnitRate{
		EmployeeRate:         d("0.055"),
		EmployerRate:         d("0.13"),
		MaxContributionLimit: d("3000"),
	}

	tests := []struct {
		name         string
		chargeable   string
		wantBase     string
		wantEmployee string
		wantEmployer string
	}{
		{"above cap is capped", "5000", "3000", "165.00", "390.00"},
		{"at cap", "3000", "3000", "165.00", "390.00"},
		{"below cap", "2000", "2000", "110.00", "260.00"},
		{"rounded to cents", "1234.56", "1234.56", "67.90", "160.49"},
		{"zero", "0", "0", "0.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSsnit(d(tt.chargeable), rate)

			assert.True(t, d(tt.wantBase).Equal(got.Base), "base: got %s", got.Base)
			assert.Equal(t, tt.wantEmployee, got.Employee.StringFixed(2))
			assert.Equal(t, tt.wantEmployer, got.Employer.StringFixed(2))
		})
	}
}
