package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sikapay/sikapay-backend-go/internal/domain/employee"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/domain/report"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/jwt"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth and tenant errors
	case errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, tenant.ErrTenantRequired):
		Forbidden(w, "Tenant context is required")
	case errors.Is(err, tenant.ErrPlatformAdminOnly):
		Forbidden(w, "Platform administrator privilege required")
	case errors.Is(err, tenant.ErrTenantNotFound):
		NotFound(w, "Tenant not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Statutory domain errors
	case errors.Is(err, statutory.ErrTaxBandsNotFound):
		NotFound(w, "Tax bands not found")
	case errors.Is(err, statutory.ErrSsnitRateNotFound):
		NotFound(w, "SSNIT rate not found")
	case errors.Is(err, statutory.ErrWithholdingRateNotFound):
		NotFound(w, "Withholding tax rate not found")
	case errors.Is(err, statutory.ErrTaxBandsInUse):
		Conflict(w, "Tax bands are in use by a closed payroll period")
	case errors.Is(err, statutory.ErrSsnitRateExists):
		Conflict(w, "SSNIT rate already exists for this effective date")
	case errors.Is(err, statutory.ErrWithholdingRateExists):
		Conflict(w, "Withholding tax rate already exists for this employment type and effective date")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrElementNotFound):
		NotFound(w, "Payroll element not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrPeriodClosed):
		Conflict(w, "Payroll period is closed")
	case errors.Is(err, payroll.ErrPeriodNotClosed):
		Conflict(w, "Payroll period is not closed")
	case errors.Is(err, payroll.ErrPeriodHasNoPayslips):
		Conflict(w, "Payroll period has no payslips")
	case errors.Is(err, payroll.ErrPeriodNameExists):
		Conflict(w, "Payroll period name already exists")
	case errors.Is(err, payroll.ErrElementNameExists):
		Conflict(w, "Payroll element name already exists")
	case errors.Is(err, payroll.ErrAssignmentExists):
		Conflict(w, "Payroll element already assigned to this employee")
	case errors.Is(err, payroll.ErrElementInactive):
		Conflict(w, "Payroll element is inactive")
	case errors.Is(err, payroll.ErrValidation), errors.Is(err, payroll.ErrConfiguration):
		payrollError(w, http.StatusUnprocessableEntity, err)

	// Report domain errors
	case errors.Is(err, report.ErrUnsupportedFormat), errors.Is(err, report.ErrUnknownReportKind):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

func payrollError(w http.ResponseWriter, status int, err error) {
	pe, ok := payroll.AsError(err)
	if !ok {
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	details := map[string]string{"kind": string(pe.Kind)}
	if pe.EmployeeID != "" {
		details["employee_id"] = pe.EmployeeID
	}
	if pe.PeriodID != "" {
		details["period_id"] = pe.PeriodID
	}
	if pe.Missing != "" {
		details["missing"] = pe.Missing
	}

	message := "Payroll request rejected"
	if pe.Err != nil {
		message = pe.Err.Error()
	}

	writeError(w, status, "PAYROLL_"+strings.ToUpper(string(pe.Kind)), message, details)
}
