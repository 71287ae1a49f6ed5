package payroll

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sikapay/sikapay-backend-go/internal/domain/employee"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/storage"
)

const defaultWorkers = 4

// Options are the payroll settings read from configuration.
type Options struct {
	Workers          int
	WithholdingTypes []string
	Currency         string
}

type PayrollServiceImpl struct {
	tx database.Transactor
	payroll.ElementRepository
	payroll.PeriodRepository
	payroll.PayslipRepository
	roster       employee.Roster
	tenantRepo   tenant.TenantRepository
	statutorySvc statutory.Service
	fileStorage  storage.FileStorage
	logger       *slog.Logger
	opts         Options

	now   func() time.Time
	newID func() string
}

func NewPayrollService(
	tx database.Transactor,
	elementRepo payroll.ElementRepository,
	periodRepo payroll.PeriodRepository,
	payslipRepo payroll.PayslipRepository,
	roster employee.Roster,
	tenantRepo tenant.TenantRepository,
	statutorySvc statutory.Service,
	fileStorage storage.FileStorage,
	logger *slog.Logger,
	opts Options,
) *PayrollServiceImpl {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Currency == "" {
		opts.Currency = "GHS"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PayrollServiceImpl{
		tx:                tx,
		ElementRepository: elementRepo,
		PeriodRepository:  periodRepo,
		PayslipRepository: payslipRepo,
		roster:            roster,
		tenantRepo:        tenantRepo,
		statutorySvc:      statutorySvc,
		fileStorage:       fileStorage,
		logger:            logger.With(slog.String("component", "payroll")),
		opts:              opts,
		now:               time.Now,
		newID:             newUUIDv7,
	}
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)

func newUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
