package report

import "context"

// ReportService builds statutory reports from closed payroll periods
type ReportService interface {
	GeneratePAYEReport(ctx context.Context, tenantID string, req ReportRequest) (PAYEReport, error)
	GenerateSSNITReport(ctx context.Context, tenantID string, req ReportRequest) (SSNITReport, error)
	GenerateBankAdviceReport(ctx context.Context, tenantID string, req ReportRequest) (BankAdviceReport, error)
	GenerateWithholdingReport(ctx context.Context, tenantID string, req ReportRequest) (WithholdingReport, error)

	// Export renders one report kind in the requested format
	Export(ctx context.Context, tenantID string, req ExportRequest) (ExportedDocument, error)
}
