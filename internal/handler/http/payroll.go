package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
	"github.com/sikapay/sikapay-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Elements
	CreateElement(w http.ResponseWriter, r *http.Request)
	GetElement(w http.ResponseWriter, r *http.Request)
	ListElements(w http.ResponseWriter, r *http.Request)
	UpdateElement(w http.ResponseWriter, r *http.Request)
	DeactivateElement(w http.ResponseWriter, r *http.Request)

	// Assignments
	AssignElement(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)

	// Periods
	CreatePeriod(w http.ResponseWriter, r *http.Request)
	GetPeriod(w http.ResponseWriter, r *http.Request)
	ListPeriods(w http.ResponseWriter, r *http.Request)
	ClosePeriod(w http.ResponseWriter, r *http.Request)

	// Runs
	RunPayroll(w http.ResponseWriter, r *http.Request)

	// Payslips
	ListPayslips(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)
	ExportPayslips(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// tenantID reads the tenant set by middleware.RequireTenant.
func tenantID(r *http.Request) string {
	tc, _ := tenant.FromContext(r.Context())
	return tc.TenantID
}

// ========== ELEMENTS ==========

func (h *payrollHandlerImpl) CreateElement(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateElement(r.Context(), tenantID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll element created successfully", result)
}

func (h *payrollHandlerImpl) GetElement(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetElement(r.Context(), tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListElements(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	result, err := h.payrollService.ListElements(r.Context(), tenantID(r), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateElement(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.payrollService.UpdateElement(r.Context(), tenantID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll element updated successfully", result)
}

func (h *payrollHandlerImpl) DeactivateElement(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.DeactivateElement(r.Context(), tenantID(r), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll element deactivated successfully", nil)
}

// ========== ASSIGNMENTS ==========

func (h *payrollHandlerImpl) AssignElement(w http.ResponseWriter, r *http.Request) {
	var req payroll.AssignElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ElementID = chi.URLParam(r, "id")

	result, err := h.payrollService.AssignElement(r.Context(), tenantID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll element assigned successfully", result)
}

func (h *payrollHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id is required", nil)
		return
	}

	result, err := h.payrollService.ListAssignments(r.Context(), tenantID(r), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PERIODS ==========

func (h *payrollHandlerImpl) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreatePeriod(r.Context(), tenantID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll period created successfully", result)
}

func (h *payrollHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPeriod(r.Context(), tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPeriods(r.Context(), tenantID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ClosePeriod(r.Context(), tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period closed successfully", result)
}

// ========== RUNS ==========

// RunPayroll regenerates every payslip of the period. Per-employee failures
// are part of a successful response.
func (h *payrollHandlerImpl) RunPayroll(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.RunPayroll(r.Context(), tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run completed", payroll.NewRunResultResponse(result))
}

// ========== PAYSLIPS ==========

func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPayslips(r.Context(), tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPayslip(r.Context(), tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	filename, content, err := h.payrollService.RenderPayslipPDF(r.Context(), tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, filename, "application/pdf", content)
}

func (h *payrollHandlerImpl) ExportPayslips(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ExportPayslips(r.Context(), tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslips exported successfully", result)
}
