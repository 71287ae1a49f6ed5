package postgresql

import (
	"context"
	"fmt"

	"github.com/sikapay/sikapay-backend-go/internal/domain/report"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// Every report query shares this join and filter. $3 is an optional department.
const reportFrom = `
	FROM payslips p
	JOIN employees e ON e.user_id = p.user_id
	WHERE p.tenant_id = $1
		AND p.payroll_period_id = $2
		AND ($3::uuid IS NULL OR e.department_id = $3::uuid)
`

const reportOrder = ` ORDER BY e.full_name, e.employee_code`

// ListPAYERows returns employees taxed through PAYE for the period
func (r *reportRepositoryImpl) ListPAYERows(ctx context.Context, tenantID string, periodID string, departmentID *string) ([]report.PAYERow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.user_id, e.employee_code, e.full_name, COALESCE(e.tin_number, ''),
			p.total_taxable_income, p.paye_amount
	` + reportFrom + ` AND p.tax_regime = 'paye'` + reportOrder

	rows, err := q.Query(ctx, query, tenantID, periodID, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query PAYE report: %w", err)
	}
	defer rows.Close()

	var result []report.PAYERow
	for rows.Next() {
		var row report.PAYERow
		if err := rows.Scan(&row.UserID, &row.EmployeeCode, &row.EmployeeName, &row.TINNumber,
			&row.TaxableIncome, &row.PAYEAmount); err != nil {
			return nil, fmt.Errorf("failed to scan PAYE row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

func (r *reportRepositoryImpl) ListSSNITRows(ctx context.Context, tenantID string, periodID string, departmentID *string) ([]report.SSNITRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.user_id, e.employee_code, e.full_name, COALESCE(e.ssnit_number, ''),
			p.basic_salary, p.employee_ssnit_amount, p.employer_ssnit_amount,
			p.employee_ssnit_amount + p.employer_ssnit_amount
	` + reportFrom + reportOrder

	rows, err := q.Query(ctx, query, tenantID, periodID, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query SSNIT report: %w", err)
	}
	defer rows.Close()

	var result []report.SSNITRow
	for rows.Next() {
		var row report.SSNITRow
		if err := rows.Scan(&row.UserID, &row.EmployeeCode, &row.EmployeeName, &row.SSNITNumber,
			&row.BasicSalary, &row.EmployeeSSNIT, &row.EmployerSSNIT, &row.TotalSSNIT); err != nil {
			return nil, fmt.Errorf("failed to scan SSNIT row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

func (r *reportRepositoryImpl) ListBankAdviceRows(ctx context.Context, tenantID string, periodID string, departmentID *string) ([]report.BankAdviceRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.user_id, e.employee_code, e.full_name,
			COALESCE(e.bank_name, ''), COALESCE(e.bank_branch, ''), COALESCE(e.bank_account_number, ''),
			p.net_pay
	` + reportFrom + reportOrder

	rows, err := q.Query(ctx, query, tenantID, periodID, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank advice report: %w", err)
	}
	defer rows.Close()

	var result []report.BankAdviceRow
	for rows.Next() {
		var row report.BankAdviceRow
		if err := rows.Scan(&row.UserID, &row.EmployeeCode, &row.EmployeeName,
			&row.BankName, &row.BankBranch, &row.AccountNumber, &row.NetPay); err != nil {
			return nil, fmt.Errorf("failed to scan bank advice row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// ListWithholdingRows returns employees taxed under the withholding regime,
// including those whose withholding came to zero
func (r *reportRepositoryImpl) ListWithholdingRows(ctx context.Context, tenantID string, periodID string, departmentID *string) ([]report.WithholdingRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.user_id, e.employee_code, e.full_name, COALESCE(e.tin_number, ''), e.employment_type,
			p.total_taxable_income, p.withholding_tax_amount
	` + reportFrom + ` AND p.tax_regime = 'withholding'` + reportOrder

	rows, err := q.Query(ctx, query, tenantID, periodID, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query withholding report: %w", err)
	}
	defer rows.Close()

	var result []report.WithholdingRow
	for rows.Next() {
		var row report.WithholdingRow
		if err := rows.Scan(&row.UserID, &row.EmployeeCode, &row.EmployeeName, &row.TINNumber, &row.EmploymentType,
			&row.TaxableIncome, &row.WithholdingAmount); err != nil {
			return nil, fmt.Errorf("failed to scan withholding row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
