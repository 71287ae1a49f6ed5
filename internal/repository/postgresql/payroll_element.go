package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sikapay/sikapay-backend-go/internal/domain/employee"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
)

type elementRepositoryImpl struct {
	db *database.DB
}

func NewElementRepository(db *database.DB) payroll.ElementRepository {
	return &elementRepositoryImpl{db: db}
}

const elementColumns = `
	id, tenant_id, name, category, amount_type, default_amount, calculation_base,
	is_taxable, is_ssnit_chargeable, is_recurring, is_active, created_at, updated_at
`

func scanElement(row pgx.Row) (payroll.PayrollElement, error) {
	var el payroll.PayrollElement
	err := row.Scan(
		&el.ID, &el.TenantID, &el.Name, &el.Category, &el.AmountType, &el.DefaultAmount, &el.CalculationBase,
		&el.IsTaxable, &el.IsSsnitChargeable, &el.IsRecurring, &el.IsActive, &el.CreatedAt, &el.UpdatedAt,
	)
	return el, err
}

// ========== ELEMENTS ==========

func (r *elementRepositoryImpl) CreateElement(ctx context.Context, el payroll.PayrollElement) (payroll.PayrollElement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_elements (
			id, tenant_id, name, category, amount_type, default_amount, calculation_base,
			is_taxable, is_ssnit_chargeable, is_recurring, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + elementColumns

	created, err := scanElement(q.QueryRow(ctx, query,
		el.ID, el.TenantID, el.Name, el.Category, el.AmountType, el.DefaultAmount, el.CalculationBase,
		el.IsTaxable, el.IsSsnitChargeable, el.IsRecurring, el.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.PayrollElement{}, payroll.ErrElementNameExists
		}
		return payroll.PayrollElement{}, fmt.Errorf("failed to create payroll element: %w", err)
	}

	return created, nil
}

func (r *elementRepositoryImpl) GetElementByID(ctx context.Context, tenantID string, id string) (payroll.PayrollElement, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + elementColumns + ` FROM payroll_elements WHERE tenant_id = $1 AND id = $2`

	el, err := scanElement(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.PayrollElement{}, payroll.ErrElementNotFound
		}
		return payroll.PayrollElement{}, fmt.Errorf("failed to get payroll element: %w", err)
	}

	return el, nil
}

func (r *elementRepositoryImpl) ListElements(ctx context.Context, tenantID string, activeOnly bool) ([]payroll.PayrollElement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + elementColumns + `
		FROM payroll_elements
		WHERE tenant_id = $1 AND (NOT $2 OR is_active)
		ORDER BY category, name
	`

	rows, err := q.Query(ctx, query, tenantID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll elements: %w", err)
	}
	defer rows.Close()

	var elements []payroll.PayrollElement
	for rows.Next() {
		el, err := scanElement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll element: %w", err)
		}
		elements = append(elements, el)
	}

	return elements, rows.Err()
}

func (r *elementRepositoryImpl) UpdateElement(ctx context.Context, el payroll.PayrollElement) (payroll.PayrollElement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_elements SET
			name = $3, amount_type = $4, default_amount = $5, calculation_base = $6,
			is_taxable = $7, is_ssnit_chargeable = $8, is_recurring = $9, is_active = $10,
			updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + elementColumns

	updated, err := scanElement(q.QueryRow(ctx, query,
		el.TenantID, el.ID, el.Name, el.AmountType, el.DefaultAmount, el.CalculationBase,
		el.IsTaxable, el.IsSsnitChargeable, el.IsRecurring, el.IsActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.PayrollElement{}, payroll.ErrElementNotFound
		}
		if isUniqueViolation(err) {
			return payroll.PayrollElement{}, payroll.ErrElementNameExists
		}
		return payroll.PayrollElement{}, fmt.Errorf("failed to update payroll element: %w", err)
	}

	return updated, nil
}

func (r *elementRepositoryImpl) DeactivateElement(ctx context.Context, tenantID string, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payroll_elements SET is_active = FALSE, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate payroll element: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrElementNotFound
	}

	return nil
}

// ========== ASSIGNMENTS ==========

const assignmentColumns = `
	a.id, a.tenant_id, a.user_id, a.element_id, a.amount, a.payroll_period_id, a.created_at, el.name
`

func scanAssignment(row pgx.Row) (payroll.ElementAssignment, error) {
	var a payroll.ElementAssignment
	err := row.Scan(&a.ID, &a.TenantID, &a.UserID, &a.ElementID, &a.Amount, &a.PayrollPeriodID, &a.CreatedAt, &a.ElementName)
	return a, err
}

func (r *elementRepositoryImpl) CreateAssignment(ctx context.Context, a payroll.ElementAssignment) (payroll.ElementAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO employee_payroll_elements (id, tenant_id, user_id, element_id, amount, payroll_period_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)
		SELECT ` + assignmentColumns + `
		FROM inserted a
		JOIN payroll_elements el ON el.id = a.element_id
	`

	created, err := scanAssignment(q.QueryRow(ctx, query, a.ID, a.TenantID, a.UserID, a.ElementID, a.Amount, a.PayrollPeriodID))
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.ElementAssignment{}, payroll.ErrAssignmentExists
		}
		if isForeignKeyViolation(err) {
			return payroll.ElementAssignment{}, employee.ErrEmployeeNotFound
		}
		return payroll.ElementAssignment{}, fmt.Errorf("failed to create element assignment: %w", err)
	}

	return created, nil
}

func (r *elementRepositoryImpl) ListAssignmentsByEmployee(ctx context.Context, tenantID string, userID string) ([]payroll.ElementAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM employee_payroll_elements a
		JOIN payroll_elements el ON el.id = a.element_id
		WHERE a.tenant_id = $1 AND a.user_id = $2
		ORDER BY el.name, a.created_at
	`
	return r.listAssignments(ctx, query, tenantID, userID)
}

func (r *elementRepositoryImpl) ListAssignmentsForPeriod(ctx context.Context, tenantID string, periodID string) ([]payroll.ElementAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM employee_payroll_elements a
		JOIN payroll_elements el ON el.id = a.element_id
		WHERE a.tenant_id = $1 AND (a.payroll_period_id IS NULL OR a.payroll_period_id = $2)
		ORDER BY a.user_id, el.name
	`
	return r.listAssignments(ctx, query, tenantID, periodID)
}

func (r *elementRepositoryImpl) listAssignments(ctx context.Context, query string, args ...interface{}) ([]payroll.ElementAssignment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list element assignments: %w", err)
	}
	defer rows.Close()

	var assignments []payroll.ElementAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan element assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}
