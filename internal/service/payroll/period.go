package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
)

const dateLayout = "2006-01-02"

// CreatePeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreatePeriod(ctx context.Context, tenantID string, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)

	p := payroll.PayrollPeriod{
		ID:         s.newID(),
		TenantID:   tenantID,
		PeriodName: req.PeriodName,
		StartDate:  start,
		EndDate:    end,
	}
	if req.PaymentDate != nil {
		pd, _ := time.Parse(dateLayout, *req.PaymentDate)
		p.PaymentDate = &pd
	}

	created, err := s.PeriodRepository.CreatePeriod(ctx, p)
	if err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("failed to create payroll period: %w", err)
	}
	return payroll.NewPeriodResponse(created), nil
}

// GetPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPeriod(ctx context.Context, tenantID string, id string) (payroll.PeriodResponse, error) {
	p, err := s.PeriodRepository.GetPeriodByID(ctx, tenantID, id)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.NewPeriodResponse(p), nil
}

// ListPeriods implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPeriods(ctx context.Context, tenantID string) ([]payroll.PeriodResponse, error) {
	periods, err := s.PeriodRepository.ListPeriods(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}

	resp := make([]payroll.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, payroll.NewPeriodResponse(p))
	}
	return resp, nil
}

// ClosePeriod implements payroll.PayrollService. Closing freezes the
// payslips; a closed period can no longer be run.
func (s *PayrollServiceImpl) ClosePeriod(ctx context.Context, tenantID string, id string) (payroll.PeriodResponse, error) {
	var closed payroll.PayrollPeriod

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.PeriodRepository.LockPeriod(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if p.IsClosed {
			return payroll.ErrPeriodClosed
		}

		count, err := s.PayslipRepository.CountByPeriod(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("failed to count payslips: %w", err)
		}
		if count == 0 {
			return payroll.ErrPeriodHasNoPayslips
		}

		closedAt := s.now().UTC()
		if err := s.PeriodRepository.ClosePeriod(ctx, tenantID, id, closedAt); err != nil {
			return fmt.Errorf("failed to close payroll period: %w", err)
		}

		p.IsClosed = true
		p.ClosedAt = &closedAt
		closed = p
		return nil
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	s.logger.InfoContext(ctx, "payroll period closed",
		slogTenant(tenantID), slogPeriod(id))
	return payroll.NewPeriodResponse(closed), nil
}
