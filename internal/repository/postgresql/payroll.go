package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
)

type payslipRepositoryImpl struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepositoryImpl{db: db}
}

const payslipColumns = `
	p.id, p.tenant_id, p.user_id, p.payroll_period_id,
	p.basic_salary, p.gross_pay, p.total_taxable_income, p.paye_amount, p.withholding_tax_amount,
	p.employee_ssnit_amount, p.employer_ssnit_amount, p.total_deductions, p.net_pay,
	p.detailed_allowances, p.detailed_deductions, p.tax_regime, p.tax_band_year, p.tax_band_annual,
	p.payslip_path, p.generated_at,
	e.full_name, e.employee_code
`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	var allowancesRaw, deductionsRaw []byte
	err := row.Scan(
		&p.ID, &p.TenantID, &p.UserID, &p.PayrollPeriodID,
		&p.BasicSalary, &p.GrossPay, &p.TotalTaxableIncome, &p.PAYEAmount, &p.WithholdingTaxAmount,
		&p.EmployeeSsnitAmount, &p.EmployerSsnitAmount, &p.TotalDeductions, &p.NetPay,
		&allowancesRaw, &deductionsRaw, &p.TaxRegime, &p.TaxBandYear, &p.TaxBandAnnual,
		&p.PayslipPath, &p.GeneratedAt,
		&p.EmployeeName, &p.EmployeeCode,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}

	if err := json.Unmarshal(allowancesRaw, &p.DetailedAllowances); err != nil {
		return payroll.Payslip{}, fmt.Errorf("decode detailed allowances: %w", err)
	}
	if err := json.Unmarshal(deductionsRaw, &p.DetailedDeductions); err != nil {
		return payroll.Payslip{}, fmt.Errorf("decode detailed deductions: %w", err)
	}

	return p, nil
}

func (r *payslipRepositoryImpl) DeleteByPeriod(ctx context.Context, tenantID string, periodID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payslips WHERE tenant_id = $1 AND payroll_period_id = $2`, tenantID, periodID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete payslips: %w", err)
	}

	return tag.RowsAffected(), nil
}

// BulkInsert writes all payslips in one round trip. Callers run it inside the
// transaction that cleared the period.
func (r *payslipRepositoryImpl) BulkInsert(ctx context.Context, payslips []payroll.Payslip) error {
	if len(payslips) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslips (
			id, tenant_id, user_id, payroll_period_id,
			basic_salary, gross_pay, total_taxable_income, paye_amount, withholding_tax_amount,
			employee_ssnit_amount, employer_ssnit_amount, total_deductions, net_pay,
			detailed_allowances, detailed_deductions, tax_regime, tax_band_year, tax_band_annual,
			generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	batch := &pgx.Batch{}
	for _, p := range payslips {
		allowances, err := marshalLineItems(p.DetailedAllowances)
		if err != nil {
			return err
		}
		deductions, err := marshalLineItems(p.DetailedDeductions)
		if err != nil {
			return err
		}

		batch.Queue(query,
			p.ID, p.TenantID, p.UserID, p.PayrollPeriodID,
			p.BasicSalary, p.GrossPay, p.TotalTaxableIncome, p.PAYEAmount, p.WithholdingTaxAmount,
			p.EmployeeSsnitAmount, p.EmployerSsnitAmount, p.TotalDeductions, p.NetPay,
			allowances, deductions, regimeOrDefault(p.TaxRegime), p.TaxBandYear, p.TaxBandAnnual,
			p.GeneratedAt,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range payslips {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert payslip: %w", err)
		}
	}

	return nil
}

func regimeOrDefault(r payroll.TaxRegime) string {
	if r == "" {
		return string(payroll.TaxRegimePAYE)
	}
	return string(r)
}

func marshalLineItems(items []payroll.LineItem) ([]byte, error) {
	if items == nil {
		items = []payroll.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode line items: %w", err)
	}
	return raw, nil
}

func (r *payslipRepositoryImpl) ListByPeriod(ctx context.Context, tenantID string, periodID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.user_id = p.user_id
		WHERE p.tenant_id = $1 AND p.payroll_period_id = $2
		ORDER BY e.full_name, e.employee_code
	`

	rows, err := q.Query(ctx, query, tenantID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}

	return payslips, rows.Err()
}

func (r *payslipRepositoryImpl) GetByID(ctx context.Context, tenantID string, id string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.user_id = p.user_id
		WHERE p.tenant_id = $1 AND p.id = $2
	`

	p, err := scanPayslip(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	return p, nil
}

func (r *payslipRepositoryImpl) CountByPeriod(ctx context.Context, tenantID string, periodID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payslips WHERE tenant_id = $1 AND payroll_period_id = $2`, tenantID, periodID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payslips: %w", err)
	}

	return count, nil
}

func (r *payslipRepositoryImpl) UpdatePath(ctx context.Context, tenantID string, id string, path string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payslips SET payslip_path = $3 WHERE tenant_id = $1 AND id = $2`, tenantID, id, path)
	if err != nil {
		return fmt.Errorf("failed to update payslip path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}

	return nil
}
