package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
)

type periodRepositoryImpl struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) payroll.PeriodRepository {
	return &periodRepositoryImpl{db: db}
}

const periodColumns = `
	id, tenant_id, period_name, start_date, end_date, payment_date, is_closed, closed_at, created_at, updated_at
`

func scanPeriod(row pgx.Row) (payroll.PayrollPeriod, error) {
	var p payroll.PayrollPeriod
	err := row.Scan(
		&p.ID, &p.TenantID, &p.PeriodName, &p.StartDate, &p.EndDate, &p.PaymentDate,
		&p.IsClosed, &p.ClosedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *periodRepositoryImpl) CreatePeriod(ctx context.Context, p payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (id, tenant_id, period_name, start_date, end_date, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + periodColumns

	created, err := scanPeriod(q.QueryRow(ctx, query, p.ID, p.TenantID, p.PeriodName, p.StartDate, p.EndDate, p.PaymentDate))
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNameExists
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to create payroll period: %w", err)
	}

	return created, nil
}

func (r *periodRepositoryImpl) GetPeriodByID(ctx context.Context, tenantID string, id string) (payroll.PayrollPeriod, error) {
	return r.getPeriod(ctx, `SELECT `+periodColumns+` FROM payroll_periods WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// LockPeriod takes a row lock on the period for the rest of the transaction.
func (r *periodRepositoryImpl) LockPeriod(ctx context.Context, tenantID string, id string) (payroll.PayrollPeriod, error) {
	return r.getPeriod(ctx, `SELECT `+periodColumns+` FROM payroll_periods WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *periodRepositoryImpl) getPeriod(ctx context.Context, query string, tenantID, id string) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPeriod(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *periodRepositoryImpl) ListPeriods(ctx context.Context, tenantID string) ([]payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE tenant_id = $1 ORDER BY start_date DESC`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.PayrollPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}

	return periods, rows.Err()
}

func (r *periodRepositoryImpl) ClosePeriod(ctx context.Context, tenantID string, id string, closedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET is_closed = TRUE, closed_at = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND NOT is_closed
	`

	tag, err := q.Exec(ctx, query, tenantID, id, closedAt)
	if err != nil {
		return fmt.Errorf("failed to close payroll period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPeriodClosed
	}

	return nil
}
