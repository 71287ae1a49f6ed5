package payroll

import "context"

type PayrollService interface {
	// Elements
	CreateElement(ctx context.Context, tenantID string, req CreateElementRequest) (ElementResponse, error)
	GetElement(ctx context.Context, tenantID string, id string) (ElementResponse, error)
	ListElements(ctx context.Context, tenantID string, activeOnly bool) ([]ElementResponse, error)
	UpdateElement(ctx context.Context, tenantID string, req UpdateElementRequest) (ElementResponse, error)
	DeactivateElement(ctx context.Context, tenantID string, id string) error
	AssignElement(ctx context.Context, tenantID string, req AssignElementRequest) (AssignmentResponse, error)
	ListAssignments(ctx context.Context, tenantID string, userID string) ([]AssignmentResponse, error)

	// Periods
	CreatePeriod(ctx context.Context, tenantID string, req CreatePeriodRequest) (PeriodResponse, error)
	GetPeriod(ctx context.Context, tenantID string, id string) (PeriodResponse, error)
	ListPeriods(ctx context.Context, tenantID string) ([]PeriodResponse, error)
	ClosePeriod(ctx context.Context, tenantID string, id string) (PeriodResponse, error)

	// Runs
	RunPayroll(ctx context.Context, tenantID string, periodID string) (RunResult, error)

	// Payslips
	ListPayslips(ctx context.Context, tenantID string, periodID string) ([]PayslipResponse, error)
	GetPayslip(ctx context.Context, tenantID string, id string) (PayslipResponse, error)
	RenderPayslipPDF(ctx context.Context, tenantID string, id string) (filename string, content []byte, err error)
	ExportPayslips(ctx context.Context, tenantID string, periodID string) (ExportPayslipsResponse, error)
}
