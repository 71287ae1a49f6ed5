package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sikapay/sikapay-backend-go/internal/domain/report"
	"github.com/sikapay/sikapay-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// GetReport handles GET /reports/{kind}
	GetReport(w http.ResponseWriter, r *http.Request)

	// ExportReport handles GET /reports/{kind}/export
	ExportReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func reportRequestFromQuery(r *http.Request) report.ReportRequest {
	q := r.URL.Query()
	req := report.ReportRequest{PeriodID: q.Get("period_id")}
	if dept := q.Get("department_id"); dept != "" {
		req.DepartmentID = &dept
	}
	req.Provisional, _ = strconv.ParseBool(q.Get("provisional"))
	return req
}

func (h *reportHandlerImpl) GetReport(w http.ResponseWriter, r *http.Request) {
	req := reportRequestFromQuery(r)
	ctx := r.Context()
	tid := tenantID(r)

	var (
		result interface{}
		err    error
	)
	switch report.Kind(chi.URLParam(r, "kind")) {
	case report.KindPAYE:
		result, err = h.reportService.GeneratePAYEReport(ctx, tid, req)
	case report.KindSSNIT:
		result, err = h.reportService.GenerateSSNITReport(ctx, tid, req)
	case report.KindBankAdvice:
		result, err = h.reportService.GenerateBankAdviceReport(ctx, tid, req)
	case report.KindWithholding:
		result, err = h.reportService.GenerateWithholdingReport(ctx, tid, req)
	default:
		err = report.ErrUnknownReportKind
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) ExportReport(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		ReportRequest: reportRequestFromQuery(r),
		Kind:          report.Kind(chi.URLParam(r, "kind")),
		Format:        r.URL.Query().Get("format"),
	}

	doc, err := h.reportService.Export(r.Context(), tenantID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, doc.Filename, doc.ContentType, doc.Content)
}
