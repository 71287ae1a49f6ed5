package statutory

import "errors"

var (
	ErrTaxBandsNotFound        = errors.New("no tax bands found for the requested year")
	ErrTaxBandsInUse           = errors.New("tax bands for this year were used by a closed payroll period")
	ErrSsnitRateNotFound       = errors.New("no SSNIT rate effective for the requested date")
	ErrSsnitRateExists         = errors.New("an SSNIT rate already exists for this effective date")
	ErrWithholdingRateNotFound = errors.New("no withholding tax rate effective for the requested date")
	ErrWithholdingRateExists   = errors.New("a withholding tax rate already exists for this employment type and effective date")
)
