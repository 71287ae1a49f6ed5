package payroll

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/domain/employee"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
)

// memStore is an in-memory stand-in for the payroll tables.
type memStore struct {
	mu          sync.Mutex
	elements    map[string]payroll.PayrollElement
	assignments []payroll.ElementAssignment
	periods     map[string]payroll.PayrollPeriod
	payslips    map[string]payroll.Payslip
	employees   []employee.Employee
	tenants     map[string]tenant.Tenant

	failInsert error
	deletes    int
}

func newMemStore() *memStore {
	return &memStore{
		elements: make(map[string]payroll.PayrollElement),
		periods:  make(map[string]payroll.PayrollPeriod),
		payslips: make(map[string]payroll.Payslip),
		tenants:  make(map[string]tenant.Tenant),
	}
}

// memTx restores the payslip table when fn fails, like a rollback would.
type memTx struct {
	store *memStore
}

func (t memTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	saved := make(map[string]payroll.Payslip, len(t.store.payslips))
	for k, v := range t.store.payslips {
		saved[k] = v
	}
	savedPeriods := make(map[string]payroll.PayrollPeriod, len(t.store.periods))
	for k, v := range t.store.periods {
		savedPeriods[k] = v
	}
	t.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.store.mu.Lock()
		t.store.payslips = saved
		t.store.periods = savedPeriods
		t.store.mu.Unlock()
		return err
	}
	return nil
}

// ---- elements ----

func (s *memStore) CreateElement(ctx context.Context, el payroll.PayrollElement) (payroll.PayrollElement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.elements {
		if existing.TenantID == el.TenantID && existing.Name == el.Name {
			return payroll.PayrollElement{}, payroll.ErrElementNameExists
		}
	}
	s.elements[el.ID] = el
	return el, nil
}

func (s *memStore) GetElementByID(ctx context.Context, tenantID string, id string) (payroll.PayrollElement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.elements[id]
	if !ok || el.TenantID != tenantID {
		return payroll.PayrollElement{}, payroll.ErrElementNotFound
	}
	return el, nil
}

func (s *memStore) ListElements(ctx context.Context, tenantID string, activeOnly bool) ([]payroll.PayrollElement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []payroll.PayrollElement
	for _, el := range s.elements {
		if el.TenantID == tenantID && (!activeOnly || el.IsActive) {
			out = append(out, el)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) UpdateElement(ctx context.Context, el payroll.PayrollElement) (payroll.PayrollElement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[el.ID] = el
	return el, nil
}

func (s *memStore) DeactivateElement(ctx context.Context, tenantID string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.elements[id]
	if !ok || el.TenantID != tenantID {
		return payroll.ErrElementNotFound
	}
	el.IsActive = false
	s.elements[id] = el
	return nil
}

func (s *memStore) CreateAssignment(ctx context.Context, a payroll.ElementAssignment) (payroll.ElementAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, a)
	return a, nil
}

func (s *memStore) ListAssignmentsByEmployee(ctx context.Context, tenantID string, userID string) ([]payroll.ElementAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []payroll.ElementAssignment
	for _, a := range s.assignments {
		if a.TenantID == tenantID && a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) ListAssignmentsForPeriod(ctx context.Context, tenantID string, periodID string) ([]payroll.ElementAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []payroll.ElementAssignment
	for _, a := range s.assignments {
		if a.TenantID == tenantID && (a.PayrollPeriodID == nil || *a.PayrollPeriodID == periodID) {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---- periods ----

func (s *memStore) CreatePeriod(ctx context.Context, p payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods[p.ID] = p
	return p, nil
}

func (s *memStore) GetPeriodByID(ctx context.Context, tenantID string, id string) (payroll.PayrollPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.periods[id]
	if !ok || p.TenantID != tenantID {
		return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}

func (s *memStore) ListPeriods(ctx context.Context, tenantID string) ([]payroll.PayrollPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []payroll.PayrollPeriod
	for _, p := range s.periods {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) LockPeriod(ctx context.Context, tenantID string, id string) (payroll.PayrollPeriod, error) {
	return s.GetPeriodByID(ctx, tenantID, id)
}

func (s *memStore) ClosePeriod(ctx context.Context, tenantID string, id string, closedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.periods[id]
	p.IsClosed = true
	p.ClosedAt = &closedAt
	s.periods[id] = p
	return nil
}

// ---- payslips ----

func (s *memStore) DeleteByPeriod(ctx context.Context, tenantID string, periodID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	var n int64
	for id, p := range s.payslips {
		if p.TenantID == tenantID && p.PayrollPeriodID == periodID {
			delete(s.payslips, id)
			n++
		}
	}
	return n, nil
}

func (s *memStore) BulkInsert(ctx context.Context, payslips []payroll.Payslip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil {
		return s.failInsert
	}
	for _, p := range payslips {
		for _, existing := range s.payslips {
			if existing.UserID == p.UserID && existing.PayrollPeriodID == p.PayrollPeriodID {
				return errors.New("duplicate payslip for employee and period")
			}
		}
		s.payslips[p.ID] = p
	}
	return nil
}

func (s *memStore) ListByPeriod(ctx context.Context, tenantID string, periodID string) ([]payroll.Payslip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []payroll.Payslip
	for _, p := range s.payslips {
		if p.TenantID == tenantID && p.PayrollPeriodID == periodID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *memStore) GetByID(ctx context.Context, tenantID string, id string) (payroll.Payslip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payslips[id]
	if !ok || p.TenantID != tenantID {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return p, nil
}

func (s *memStore) CountByPeriod(ctx context.Context, tenantID string, periodID string) (int, error) {
	list, _ := s.ListByPeriod(ctx, tenantID, periodID)
	return len(list), nil
}

func (s *memStore) UpdatePath(ctx context.Context, tenantID string, id string, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payslips[id]
	if !ok {
		return payroll.ErrPayslipNotFound
	}
	p.PayslipPath = &path
	s.payslips[id] = p
	return nil
}

// ---- roster and tenants ----

type memRoster struct {
	store *memStore
}

func (r memRoster) ListPayrollEligible(ctx context.Context, tenantID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.store.employees {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memRoster) GetByID(ctx context.Context, tenantID string, userID string) (employee.Employee, error) {
	for _, e := range r.store.employees {
		if e.TenantID == tenantID && e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type memTenants struct {
	store *memStore
}

func (r memTenants) GetByID(ctx context.Context, id string) (tenant.Tenant, error) {
	t, ok := r.store.tenants[id]
	if !ok {
		return tenant.Tenant{}, tenant.ErrTenantNotFound
	}
	return t, nil
}

// stubStatutory serves a fixed snapshot. Other methods are not used by the
// payroll service.
type stubStatutory struct {
	statutory.Service
	snapshot statutory.RateSnapshot
	err      error
}

func (s *stubStatutory) Snapshot(ctx context.Context, taxYear int, isAnnual bool, asOf time.Time) (statutory.RateSnapshot, error) {
	if s.err != nil {
		return statutory.RateSnapshot{}, s.err
	}
	snap := s.snapshot
	snap.AsOf = asOf
	snap.Bands.RequestedYear = taxYear
	snap.Bands.IsAnnual = isAnnual
	return snap, nil
}

// ---- fixtures ----

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func band(start, end string, rate string) statutory.TaxBand {
	b := statutory.TaxBand{BandStart: d(start), Rate: d(rate)}
	if end != "" {
		b.BandEnd = decimal.NewNullDecimal(d(end))
	}
	return b
}

// simpleBands is the three-band table 0-500 at 0%, 500-1000 at 5%, 15% above.
func simpleBands() []statutory.TaxBand {
	return []statutory.TaxBand{
		band("0", "500", "0"),
		band("500", "1000", "0.05"),
		band("1000", "", "0.15"),
	}
}

func standardRates() statutory.RateSnapshot {
	return statutory.RateSnapshot{
		AsOf:  time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Bands: statutory.BandSet{RequestedYear: 2024, ResolvedYear: 2024, Bands: simpleBands()},
		Ssnit: &statutory.SsnitRate{
			EmployeeRate:         d("0.055"),
			EmployerRate:         d("0.13"),
			MaxContributionLimit: d("61000"),
		},
		Withholding: map[string]statutory.WithholdingTaxRate{
			"casual": {EmploymentType: "casual", Rate: d("0.05")},
		},
	}
}

const januaryID = "0190c3b4-0000-7000-8000-0000000000a1"

func january() payroll.PayrollPeriod {
	return payroll.PayrollPeriod{
		ID:         januaryID,
		TenantID:   "tenant-1",
		PeriodName: "January 2024",
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func staff(userID, basic string, employmentType employee.EmploymentType) employee.Employee {
	return employee.Employee{
		UserID:            userID,
		TenantID:          "tenant-1",
		EmployeeCode:      "EMP-" + userID,
		FullName:          "Employee " + userID,
		EmploymentType:    employmentType,
		BasicSalary:       d(basic),
		IsActive:          true,
		IsPayrollEligible: true,
	}
}

func fixed(id, name string, category payroll.ElementCategory, amount string) payroll.PayrollElement {
	return payroll.PayrollElement{
		ID:            id,
		TenantID:      "tenant-1",
		Name:          name,
		Category:      category,
		AmountType:    payroll.AmountTypeFixed,
		DefaultAmount: d(amount),
		IsTaxable:     true,
		IsRecurring:   true,
		IsActive:      true,
	}
}
