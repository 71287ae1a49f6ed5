package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/domain/report"
	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/document"
)

const dateLayout = "2006-01-02"

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	periodRepo payroll.PeriodRepository
	tenantRepo tenant.TenantRepository
	renderers  document.Registry
	logger     *slog.Logger
	now        func() time.Time
}

func NewReportService(
	reportRepo report.ReportRepository,
	periodRepo payroll.PeriodRepository,
	tenantRepo tenant.TenantRepository,
	renderers document.Registry,
	logger *slog.Logger,
) report.ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		periodRepo: periodRepo,
		tenantRepo: tenantRepo,
		renderers:  renderers,
		logger:     logger.With(slog.String("component", "report")),
		now:        time.Now,
	}
}

// prepare validates the request and builds the report header. Open periods
// are refused unless the caller asked for a provisional report.
func (s *ReportServiceImpl) prepare(ctx context.Context, tenantID string, req report.ReportRequest) (report.Meta, error) {
	if err := req.Validate(); err != nil {
		return report.Meta{}, err
	}

	period, err := s.periodRepo.GetPeriodByID(ctx, tenantID, req.PeriodID)
	if err != nil {
		return report.Meta{}, err
	}
	if !period.IsClosed && !req.Provisional {
		return report.Meta{}, payroll.ErrPeriodNotClosed
	}

	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return report.Meta{}, fmt.Errorf("failed to get tenant: %w", err)
	}

	meta := report.Meta{
		TenantID:      tenantID,
		TenantName:    t.Name,
		PeriodID:      period.ID,
		PeriodName:    period.PeriodName,
		PeriodStart:   period.StartDate.Format(dateLayout),
		PeriodEnd:     period.EndDate.Format(dateLayout),
		DepartmentID:  req.DepartmentID,
		IsProvisional: !period.IsClosed,
		GeneratedAt:   s.now().UTC().Format(time.RFC3339),
	}
	if period.PaymentDate != nil {
		pd := period.PaymentDate.Format(dateLayout)
		meta.PaymentDate = &pd
	}
	return meta, nil
}

// GeneratePAYEReport implements report.ReportService.
func (s *ReportServiceImpl) GeneratePAYEReport(ctx context.Context, tenantID string, req report.ReportRequest) (report.PAYEReport, error) {
	meta, err := s.prepare(ctx, tenantID, req)
	if err != nil {
		return report.PAYEReport{}, err
	}

	rows, err := s.reportRepo.ListPAYERows(ctx, tenantID, req.PeriodID, req.DepartmentID)
	if err != nil {
		return report.PAYEReport{}, fmt.Errorf("failed to list paye rows: %w", err)
	}
	if rows == nil {
		rows = []report.PAYERow{}
	}

	return report.PAYEReport{Meta: meta, Rows: rows, Totals: report.SumPAYE(rows)}, nil
}

// GenerateSSNITReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateSSNITReport(ctx context.Context, tenantID string, req report.ReportRequest) (report.SSNITReport, error) {
	meta, err := s.prepare(ctx, tenantID, req)
	if err != nil {
		return report.SSNITReport{}, err
	}

	rows, err := s.reportRepo.ListSSNITRows(ctx, tenantID, req.PeriodID, req.DepartmentID)
	if err != nil {
		return report.SSNITReport{}, fmt.Errorf("failed to list ssnit rows: %w", err)
	}
	if rows == nil {
		rows = []report.SSNITRow{}
	}

	return report.SSNITReport{Meta: meta, Rows: rows, Totals: report.SumSSNIT(rows)}, nil
}

// GenerateBankAdviceReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateBankAdviceReport(ctx context.Context, tenantID string, req report.ReportRequest) (report.BankAdviceReport, error) {
	meta, err := s.prepare(ctx, tenantID, req)
	if err != nil {
		return report.BankAdviceReport{}, err
	}

	rows, err := s.reportRepo.ListBankAdviceRows(ctx, tenantID, req.PeriodID, req.DepartmentID)
	if err != nil {
		return report.BankAdviceReport{}, fmt.Errorf("failed to list bank advice rows: %w", err)
	}
	if rows == nil {
		rows = []report.BankAdviceRow{}
	}

	return report.BankAdviceReport{Meta: meta, Rows: rows, Totals: report.SumBankAdvice(rows)}, nil
}

// GenerateWithholdingReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateWithholdingReport(ctx context.Context, tenantID string, req report.ReportRequest) (report.WithholdingReport, error) {
	meta, err := s.prepare(ctx, tenantID, req)
	if err != nil {
		return report.WithholdingReport{}, err
	}

	rows, err := s.reportRepo.ListWithholdingRows(ctx, tenantID, req.PeriodID, req.DepartmentID)
	if err != nil {
		return report.WithholdingReport{}, fmt.Errorf("failed to list withholding rows: %w", err)
	}
	if rows == nil {
		rows = []report.WithholdingRow{}
	}

	return report.WithholdingReport{Meta: meta, Rows: rows, Totals: report.SumWithholding(rows)}, nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, tenantID string, req report.ExportRequest) (report.ExportedDocument, error) {
	if err := req.Validate(); err != nil {
		return report.ExportedDocument{}, err
	}

	renderer, err := s.renderers.Get(req.Format)
	if err != nil {
		return report.ExportedDocument{}, fmt.Errorf("%w: %s", report.ErrUnsupportedFormat, req.Format)
	}

	var (
		doc  document.Document
		meta report.Meta
	)
	switch req.Kind {
	case report.KindPAYE:
		r, err := s.GeneratePAYEReport(ctx, tenantID, req.ReportRequest)
		if err != nil {
			return report.ExportedDocument{}, err
		}
		doc, meta = payeDocument(r), r.Meta
	case report.KindSSNIT:
		r, err := s.GenerateSSNITReport(ctx, tenantID, req.ReportRequest)
		if err != nil {
			return report.ExportedDocument{}, err
		}
		doc, meta = ssnitDocument(r), r.Meta
	case report.KindBankAdvice:
		r, err := s.GenerateBankAdviceReport(ctx, tenantID, req.ReportRequest)
		if err != nil {
			return report.ExportedDocument{}, err
		}
		doc, meta = bankAdviceDocument(r), r.Meta
	case report.KindWithholding:
		r, err := s.GenerateWithholdingReport(ctx, tenantID, req.ReportRequest)
		if err != nil {
			return report.ExportedDocument{}, err
		}
		doc, meta = withholdingDocument(r), r.Meta
	default:
		return report.ExportedDocument{}, fmt.Errorf("%w: %s", report.ErrUnknownReportKind, req.Kind)
	}

	content, err := renderer.Render(doc)
	if err != nil {
		return report.ExportedDocument{}, fmt.Errorf("%w: %v", report.ErrReportRenderFailed, err)
	}

	s.logger.InfoContext(ctx, "report exported",
		slog.String("tenant_id", tenantID),
		slog.String("period_id", meta.PeriodID),
		slog.String("kind", string(req.Kind)),
		slog.String("format", req.Format),
		slog.Bool("provisional", meta.IsProvisional),
		slog.Int("bytes", len(content)),
	)

	return report.ExportedDocument{
		Filename:    exportFilename(req.Kind, meta, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}
