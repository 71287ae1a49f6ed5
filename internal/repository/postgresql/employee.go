package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sikapay/sikapay-backend-go/internal/domain/employee"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
)

type rosterRepositoryImpl struct {
	db *database.DB
}

func NewRosterRepository(db *database.DB) employee.Roster {
	return &rosterRepositoryImpl{db: db}
}

const rosterColumns = `
	e.user_id, e.tenant_id, e.employee_code, e.full_name, e.employment_type, e.basic_salary,
	e.is_active, e.is_payroll_eligible, e.department_id, d.name,
	e.tin_number, e.ssnit_number, e.bank_name, e.bank_branch, e.bank_account_number
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.UserID, &e.TenantID, &e.EmployeeCode, &e.FullName, &e.EmploymentType, &e.BasicSalary,
		&e.IsActive, &e.IsPayrollEligible, &e.DepartmentID, &e.DepartmentName,
		&e.TINNumber, &e.SSNITNumber, &e.BankName, &e.BankBranch, &e.BankAccountNumber,
	)
	return e, err
}

// ListPayrollEligible returns active, payroll-eligible employees ordered by code.
func (r *rosterRepositoryImpl) ListPayrollEligible(ctx context.Context, tenantID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rosterColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.tenant_id = $1 AND e.is_active AND e.is_payroll_eligible
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll eligible employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

func (r *rosterRepositoryImpl) GetByID(ctx context.Context, tenantID string, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rosterColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.tenant_id = $1 AND e.user_id = $2
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, tenantID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}
