package payroll

import (
	"context"
	"fmt"

	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
)

// CreateElement implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateElement(ctx context.Context, tenantID string, req payroll.CreateElementRequest) (payroll.ElementResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ElementResponse{}, err
	}

	el := payroll.PayrollElement{
		ID:                s.newID(),
		TenantID:          tenantID,
		Name:              req.Name,
		Category:          payroll.ElementCategory(req.Category),
		AmountType:        payroll.AmountType(req.AmountType),
		DefaultAmount:     req.DefaultAmount,
		IsTaxable:         true,
		IsSsnitChargeable: req.IsSsnitChargeable,
		IsRecurring:       true,
		IsActive:          true,
	}
	if el.AmountType == payroll.AmountTypePercentage {
		el.CalculationBase = req.CalculationBase
	}
	if req.IsTaxable != nil {
		el.IsTaxable = *req.IsTaxable
	}
	if req.IsRecurring != nil {
		el.IsRecurring = *req.IsRecurring
	}

	created, err := s.ElementRepository.CreateElement(ctx, el)
	if err != nil {
		return payroll.ElementResponse{}, fmt.Errorf("failed to create payroll element: %w", err)
	}
	return payroll.NewElementResponse(created), nil
}

// GetElement implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetElement(ctx context.Context, tenantID string, id string) (payroll.ElementResponse, error) {
	el, err := s.ElementRepository.GetElementByID(ctx, tenantID, id)
	if err != nil {
		return payroll.ElementResponse{}, err
	}
	return payroll.NewElementResponse(el), nil
}

// ListElements implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListElements(ctx context.Context, tenantID string, activeOnly bool) ([]payroll.ElementResponse, error) {
	elements, err := s.ElementRepository.ListElements(ctx, tenantID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll elements: %w", err)
	}

	resp := make([]payroll.ElementResponse, 0, len(elements))
	for _, el := range elements {
		resp = append(resp, payroll.NewElementResponse(el))
	}
	return resp, nil
}

// UpdateElement implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateElement(ctx context.Context, tenantID string, req payroll.UpdateElementRequest) (payroll.ElementResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ElementResponse{}, err
	}

	current, err := s.ElementRepository.GetElementByID(ctx, tenantID, req.ID)
	if err != nil {
		return payroll.ElementResponse{}, err
	}

	merged, err := req.Apply(current)
	if err != nil {
		return payroll.ElementResponse{}, err
	}

	updated, err := s.ElementRepository.UpdateElement(ctx, merged)
	if err != nil {
		return payroll.ElementResponse{}, fmt.Errorf("failed to update payroll element: %w", err)
	}
	return payroll.NewElementResponse(updated), nil
}

// DeactivateElement implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeactivateElement(ctx context.Context, tenantID string, id string) error {
	return s.ElementRepository.DeactivateElement(ctx, tenantID, id)
}

// AssignElement implements payroll.PayrollService.
func (s *PayrollServiceImpl) AssignElement(ctx context.Context, tenantID string, req payroll.AssignElementRequest) (payroll.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AssignmentResponse{}, err
	}

	el, err := s.ElementRepository.GetElementByID(ctx, tenantID, req.ElementID)
	if err != nil {
		return payroll.AssignmentResponse{}, err
	}
	if !el.IsActive {
		return payroll.AssignmentResponse{}, payroll.ErrElementInactive
	}

	if _, err := s.roster.GetByID(ctx, tenantID, req.UserID); err != nil {
		return payroll.AssignmentResponse{}, err
	}

	if req.PayrollPeriodID != nil {
		period, err := s.PeriodRepository.GetPeriodByID(ctx, tenantID, *req.PayrollPeriodID)
		if err != nil {
			return payroll.AssignmentResponse{}, err
		}
		if period.IsClosed {
			return payroll.AssignmentResponse{}, payroll.ErrPeriodClosed
		}
	}

	a := payroll.ElementAssignment{
		ID:              s.newID(),
		TenantID:        tenantID,
		UserID:          req.UserID,
		ElementID:       el.ID,
		PayrollPeriodID: req.PayrollPeriodID,
		ElementName:     &el.Name,
	}
	if req.Amount != nil {
		a.Amount.Decimal = *req.Amount
		a.Amount.Valid = true
	}

	created, err := s.ElementRepository.CreateAssignment(ctx, a)
	if err != nil {
		return payroll.AssignmentResponse{}, fmt.Errorf("failed to assign payroll element: %w", err)
	}
	if created.ElementName == nil {
		created.ElementName = &el.Name
	}
	return payroll.NewAssignmentResponse(created), nil
}

// ListAssignments implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListAssignments(ctx context.Context, tenantID string, userID string) ([]payroll.AssignmentResponse, error) {
	assignments, err := s.ElementRepository.ListAssignmentsByEmployee(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list element assignments: %w", err)
	}

	resp := make([]payroll.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, payroll.NewAssignmentResponse(a))
	}
	return resp, nil
}
