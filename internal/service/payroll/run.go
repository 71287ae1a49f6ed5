package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sikapay/sikapay-backend-go/internal/domain/employee"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"golang.org/x/sync/errgroup"
)

// runSnapshot is every input of a run, read once before any calculation.
type runSnapshot struct {
	period      payroll.PayrollPeriod
	employees   []employee.Employee
	catalog     []payroll.PayrollElement
	assignments []payroll.ElementAssignment
	rates       statutory.RateSnapshot
}

type calcOutcome struct {
	draft payroll.PayslipDraft
	err   error
}

// RunPayroll implements payroll.PayrollService. It regenerates every payslip
// of an open period. Employees whose calculation fails are reported in the
// result and get no payslip; any storage failure fails the whole run and
// leaves the previous payslips in place.
func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, tenantID string, periodID string) (payroll.RunResult, error) {
	result := payroll.RunResult{
		RunID:           s.newID(),
		TenantID:        tenantID,
		PayrollPeriodID: periodID,
		StartedAt:       s.now().UTC(),
		Succeeded:       []payroll.RunSuccess{},
		Failed:          []payroll.RunFailure{},
	}
	logger := s.logger.With(slog.String("run_id", result.RunID), slogTenant(tenantID), slogPeriod(periodID))

	snap, err := s.loadRunSnapshot(ctx, tenantID, periodID)
	if err != nil {
		logger.ErrorContext(ctx, "payroll run rejected", slog.String("error", err.Error()))
		return payroll.RunResult{}, err
	}
	logger.InfoContext(ctx, "payroll run started",
		slog.Int("employees", len(snap.employees)),
		slog.Int("tax_year", snap.period.TaxYear()),
		slog.Bool("annual_bands", snap.period.UsesAnnualBands()),
	)

	outcomes := s.calculate(snap)

	payslips := make([]payroll.Payslip, 0, len(outcomes))
	generatedAt := s.now().UTC()
	for i, out := range outcomes {
		userID := snap.employees[i].UserID
		if out.err != nil {
			failure := toRunFailure(userID, out.err)
			result.Failed = append(result.Failed, failure)
			logger.WarnContext(ctx, "payroll calculation failed",
				slog.String("employee_id", userID),
				slog.String("kind", string(failure.Kind)),
				slog.String("missing", failure.Missing),
				slog.String("reason", failure.Reason),
			)
			continue
		}

		ps := out.draft.ToPayslip(s.newID(), tenantID, periodID, generatedAt)
		payslips = append(payslips, ps)
		result.Succeeded = append(result.Succeeded, payroll.RunSuccess{
			UserID:    userID,
			PayslipID: ps.ID,
			NetPay:    ps.NetPay,
		})
	}

	if err := s.replacePayslips(ctx, tenantID, periodID, payslips); err != nil {
		logger.ErrorContext(ctx, "payroll run failed", slog.String("error", err.Error()))
		return payroll.RunResult{}, err
	}

	result.FinishedAt = s.now().UTC()
	logger.InfoContext(ctx, "payroll run finished",
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)),
		slog.Duration("duration", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

func (s *PayrollServiceImpl) loadRunSnapshot(ctx context.Context, tenantID, periodID string) (runSnapshot, error) {
	period, err := s.PeriodRepository.GetPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		if errors.Is(err, payroll.ErrPeriodNotFound) {
			return runSnapshot{}, payroll.ValidationError(periodID, err)
		}
		return runSnapshot{}, payroll.PersistenceError(periodID, fmt.Errorf("failed to get payroll period: %w", err))
	}
	if period.IsClosed {
		return runSnapshot{}, payroll.ValidationError(periodID, payroll.ErrPeriodClosed)
	}

	roster, err := s.roster.ListPayrollEligible(ctx, tenantID)
	if err != nil {
		return runSnapshot{}, payroll.PersistenceError(periodID, fmt.Errorf("failed to list employees: %w", err))
	}
	employees := make([]employee.Employee, 0, len(roster))
	for _, e := range roster {
		if e.Payable() {
			employees = append(employees, e)
		}
	}

	catalog, err := s.ElementRepository.ListElements(ctx, tenantID, true)
	if err != nil {
		return runSnapshot{}, payroll.PersistenceError(periodID, fmt.Errorf("failed to list payroll elements: %w", err))
	}

	assignments, err := s.ElementRepository.ListAssignmentsForPeriod(ctx, tenantID, periodID)
	if err != nil {
		return runSnapshot{}, payroll.PersistenceError(periodID, fmt.Errorf("failed to list element assignments: %w", err))
	}

	rates, err := s.statutorySvc.Snapshot(ctx, period.TaxYear(), period.UsesAnnualBands(), period.RateDate())
	if err != nil {
		return runSnapshot{}, payroll.PersistenceError(periodID, fmt.Errorf("failed to load statutory rates: %w", err))
	}

	return runSnapshot{
		period:      period,
		employees:   employees,
		catalog:     catalog,
		assignments: assignments,
		rates:       rates,
	}, nil
}

// calculate runs the calculator for every employee on a bounded worker pool.
// Outcomes are indexed like snap.employees so the result order is stable.
func (s *PayrollServiceImpl) calculate(snap runSnapshot) []calcOutcome {
	outcomes := make([]calcOutcome, len(snap.employees))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, emp := range snap.employees {
		i, emp := i, emp
		g.Go(func() error {
			draft, err := ComputeForEmployee(payroll.CalculationInput{
				Employee:         emp,
				Period:           snap.period,
				Elements:         ResolveElements(emp.UserID, snap.period.ID, snap.catalog, snap.assignments),
				Rates:            snap.rates,
				WithholdingTypes: s.opts.WithholdingTypes,
			})
			outcomes[i] = calcOutcome{draft: draft, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// replacePayslips swaps the period's payslips for the new set in one
// transaction. The period row is locked so two runs, or a run and a close,
// cannot interleave.
func (s *PayrollServiceImpl) replacePayslips(ctx context.Context, tenantID, periodID string, payslips []payroll.Payslip) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		period, err := s.PeriodRepository.LockPeriod(ctx, tenantID, periodID)
		if err != nil {
			if errors.Is(err, payroll.ErrPeriodNotFound) {
				return payroll.ValidationError(periodID, err)
			}
			return fmt.Errorf("failed to lock payroll period: %w", err)
		}
		if period.IsClosed {
			return payroll.ValidationError(periodID, payroll.ErrPeriodClosed)
		}

		if _, err := s.PayslipRepository.DeleteByPeriod(ctx, tenantID, periodID); err != nil {
			return fmt.Errorf("failed to delete previous payslips: %w", err)
		}
		if len(payslips) == 0 {
			return nil
		}
		if err := s.PayslipRepository.BulkInsert(ctx, payslips); err != nil {
			return fmt.Errorf("failed to insert payslips: %w", err)
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if _, ok := payroll.AsError(err); ok {
		return err
	}
	return payroll.PersistenceError(periodID, err)
}

func toRunFailure(userID string, err error) payroll.RunFailure {
	failure := payroll.RunFailure{UserID: userID, Kind: payroll.KindCalculationInvariant, Reason: err.Error()}
	if pe, ok := payroll.AsError(err); ok {
		failure.Kind = pe.Kind
		failure.Missing = pe.Missing
		if pe.Err != nil {
			failure.Reason = pe.Err.Error()
		}
	}
	return failure
}

func slogTenant(id string) slog.Attr {
	return slog.String("tenant_id", id)
}

func slogPeriod(id string) slog.Attr {
	return slog.String("period_id", id)
}
