package report

import "context"

// ReportRepository reads persisted payslips joined with the roster. Rows are
// ordered by employee name then employee code.
type ReportRepository interface {
	ListPAYERows(ctx context.Context, tenantID string, periodID string, departmentID *string) ([]PAYERow, error)
	ListSSNITRows(ctx context.Context, tenantID string, periodID string, departmentID *string) ([]SSNITRow, error)
	ListBankAdviceRows(ctx context.Context, tenantID string, periodID string, departmentID *string) ([]BankAdviceRow, error)
	ListWithholdingRows(ctx context.Context, tenantID string, periodID string, departmentID *string) ([]WithholdingRow, error)
}
