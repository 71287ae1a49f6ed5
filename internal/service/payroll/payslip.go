package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/domain/employee"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/document"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/money"
)

// ListPayslips implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, tenantID string, periodID string) ([]payroll.PayslipResponse, error) {
	if _, err := s.PeriodRepository.GetPeriodByID(ctx, tenantID, periodID); err != nil {
		return nil, err
	}

	payslips, err := s.PayslipRepository.ListByPeriod(ctx, tenantID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}

	resp := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		resp = append(resp, payroll.NewPayslipResponse(p))
	}
	return resp, nil
}

// GetPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, tenantID string, id string) (payroll.PayslipResponse, error) {
	p, err := s.PayslipRepository.GetByID(ctx, tenantID, id)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payroll.NewPayslipResponse(p), nil
}

// RenderPayslipPDF implements payroll.PayrollService.
func (s *PayrollServiceImpl) RenderPayslipPDF(ctx context.Context, tenantID string, id string) (string, []byte, error) {
	p, err := s.PayslipRepository.GetByID(ctx, tenantID, id)
	if err != nil {
		return "", nil, err
	}

	period, err := s.PeriodRepository.GetPeriodByID(ctx, tenantID, p.PayrollPeriodID)
	if err != nil {
		return "", nil, err
	}

	content, err := s.renderPayslip(ctx, tenantID, period, p)
	if err != nil {
		return "", nil, err
	}
	return payslipFilename(period, p), content, nil
}

// ExportPayslips implements payroll.PayrollService. Only closed periods are
// exported since their payslips can no longer change. Each file is keyed by
// employee and overwritten on upload, so an export that stops partway is
// finished by running it again.
func (s *PayrollServiceImpl) ExportPayslips(ctx context.Context, tenantID string, periodID string) (payroll.ExportPayslipsResponse, error) {
	period, err := s.PeriodRepository.GetPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		return payroll.ExportPayslipsResponse{}, err
	}
	if !period.IsClosed {
		return payroll.ExportPayslipsResponse{}, payroll.ErrPeriodNotClosed
	}

	payslips, err := s.PayslipRepository.ListByPeriod(ctx, tenantID, periodID)
	if err != nil {
		return payroll.ExportPayslipsResponse{}, fmt.Errorf("failed to list payslips: %w", err)
	}

	resp := payroll.ExportPayslipsResponse{PayrollPeriodID: periodID, Paths: make([]string, 0, len(payslips))}
	for _, p := range payslips {
		path, err := s.exportPayslip(ctx, tenantID, period, p)
		if err != nil {
			s.logger.WarnContext(ctx, "payslip export stopped",
				slogTenant(tenantID), slogPeriod(periodID),
				slog.String("payslip_id", p.ID),
				slog.Int("written", len(resp.Paths)),
				slog.Int("remaining", len(payslips)-len(resp.Paths)),
				slog.Any("written_paths", resp.Paths),
				slog.String("error", err.Error()),
			)
			return payroll.ExportPayslipsResponse{}, err
		}
		resp.Paths = append(resp.Paths, path)
	}
	resp.Exported = len(resp.Paths)

	s.logger.InfoContext(ctx, "payslips exported",
		slogTenant(tenantID), slogPeriod(periodID), slog.Int("count", resp.Exported))
	return resp, nil
}

func (s *PayrollServiceImpl) exportPayslip(ctx context.Context, tenantID string, period payroll.PayrollPeriod, p payroll.Payslip) (string, error) {
	content, err := s.renderPayslip(ctx, tenantID, period, p)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("payslips/%s/%s/%s.pdf", tenantID, period.ID, p.UserID)
	path, err := s.fileStorage.Upload(ctx, bytes.NewReader(content), key, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("failed to store payslip %s: %w", p.ID, err)
	}
	if err := s.PayslipRepository.UpdatePath(ctx, tenantID, p.ID, path); err != nil {
		return "", fmt.Errorf("failed to record payslip path: %w", err)
	}
	return path, nil
}

func (s *PayrollServiceImpl) renderPayslip(ctx context.Context, tenantID string, period payroll.PayrollPeriod, p payroll.Payslip) ([]byte, error) {
	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	emp, err := s.roster.GetByID(ctx, tenantID, p.UserID)
	if err != nil {
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, err
		}
		// The employee left after the run; fall back to the payslip's own data.
		emp = employee.Employee{UserID: p.UserID, FullName: deref(p.EmployeeName), EmployeeCode: deref(p.EmployeeCode)}
	}

	sheet := document.PayslipSheet{
		CompanyName:   t.Name,
		PeriodName:    period.PeriodName,
		PeriodRange:   period.StartDate.Format(dateLayout) + " to " + period.EndDate.Format(dateLayout),
		EmployeeName:  emp.FullName,
		EmployeeCode:  emp.EmployeeCode,
		Department:    deref(emp.DepartmentName),
		TINNumber:     deref(emp.TINNumber),
		SSNITNumber:   deref(emp.SSNITNumber),
		BankName:      deref(emp.BankName),
		BankAccount:   deref(emp.BankAccountNumber),
		Currency:      s.opts.Currency,
		GrossPay:      money.Format(p.GrossPay),
		TotalDeducted: money.Format(p.TotalDeductions),
		NetPay:        money.Format(p.NetPay),
		EmployerSSNIT: money.Format(p.EmployerSsnitAmount),
		GeneratedAt:   p.GeneratedAt.Format(time.RFC1123),
	}
	if period.PaymentDate != nil {
		sheet.PaymentDate = period.PaymentDate.Format(dateLayout)
	}

	sheet.Earnings = append(sheet.Earnings, document.Line{Label: "Basic salary", Amount: money.Format(p.BasicSalary)})
	for _, item := range p.DetailedAllowances {
		sheet.Earnings = append(sheet.Earnings, document.Line{Label: item.Name, Amount: money.Format(item.Amount)})
	}
	for _, item := range p.DetailedDeductions {
		sheet.Deductions = append(sheet.Deductions, document.Line{Label: item.Name, Amount: money.Format(item.Amount)})
	}

	if p.PAYEAmount.IsPositive() {
		bands, err := s.bandBreakdown(ctx, period, p)
		if err != nil {
			return nil, err
		}
		sheet.TaxBands = bands
	}

	content, err := document.RenderPayslip(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to render payslip %s: %w", p.ID, err)
	}
	return content, nil
}

// bandBreakdown recomputes the PAYE walk from the bands the payslip was
// computed with. It is left out when the bands no longer reproduce the
// stored amount.
func (s *PayrollServiceImpl) bandBreakdown(ctx context.Context, period payroll.PayrollPeriod, p payroll.Payslip) ([]document.BandLine, error) {
	year, annual := period.TaxYear(), period.UsesAnnualBands()
	if p.TaxBandYear != nil && p.TaxBandAnnual != nil {
		year, annual = *p.TaxBandYear, *p.TaxBandAnnual
	}

	rates, err := s.statutorySvc.Snapshot(ctx, year, annual, period.RateDate())
	if err != nil {
		return nil, fmt.Errorf("failed to load tax bands: %w", err)
	}
	if rates.Bands.Empty() {
		return nil, nil
	}

	total, breakdown := ProgressiveTax(p.TotalTaxableIncome, rates.Bands.Bands)
	if !total.Equal(p.PAYEAmount) {
		s.logger.WarnContext(ctx, "tax bands no longer match payslip",
			slog.String("payslip_id", p.ID), slog.String("stored", p.PAYEAmount.String()), slog.String("recomputed", total.String()))
		return nil, nil
	}

	lines := make([]document.BandLine, 0, len(breakdown))
	for _, b := range breakdown {
		lines = append(lines, document.BandLine{
			Range: bandRange(b),
			Rate:  b.Rate.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%",
			Taxed: money.Format(b.Taxed),
			Tax:   money.Format(b.Tax),
		})
	}
	return lines, nil
}

func bandRange(b payroll.BandTax) string {
	if !b.BandEnd.Valid {
		return "above " + money.Format(b.BandStart)
	}
	return money.Format(b.BandStart) + " - " + money.Format(b.BandEnd.Decimal)
}

func payslipFilename(period payroll.PayrollPeriod, p payroll.Payslip) string {
	code := p.UserID
	if p.EmployeeCode != nil && *p.EmployeeCode != "" {
		code = *p.EmployeeCode
	}
	return fmt.Sprintf("payslip_%s_%s.pdf", code, period.EndDate.Format("2006_01"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

