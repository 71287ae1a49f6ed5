package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/sikapay/sikapay-backend-go/internal/domain/report"
	"github.com/sikapay/sikapay-backend-go/internal/domain/statutory"
	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
	"github.com/sikapay/sikapay-backend-go/internal/handler/http/response"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	testPeriodID      = "0190c3b4-0000-7000-8000-0000000000a1"
)

type stubPayrollService struct {
	payroll.PayrollService
	runPayroll func(ctx context.Context, tenantID, periodID string) (payroll.RunResult, error)
}

func (s *stubPayrollService) RunPayroll(ctx context.Context, tenantID, periodID string) (payroll.RunResult, error) {
	return s.runPayroll(ctx, tenantID, periodID)
}

func (s *stubPayrollService) CreatePeriod(_ context.Context, _ string, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}
	return payroll.PeriodResponse{PeriodName: req.PeriodName}, nil
}

type stubStatutoryService struct {
	statutory.Service
	replaced bool
}

func (s *stubStatutoryService) ReplaceTaxBands(_ context.Context, req statutory.ReplaceTaxBandsRequest) (statutory.BandSetResponse, error) {
	s.replaced = true
	return statutory.BandSetResponse{RequestedYear: req.TaxYear, ResolvedYear: req.TaxYear}, nil
}

type stubReportService struct {
	report.ReportService
	lastTenant string
	lastReq    report.ExportRequest
}

func (s *stubReportService) Export(_ context.Context, tenantID string, req report.ExportRequest) (report.ExportedDocument, error) {
	s.lastTenant = tenantID
	s.lastReq = req
	return report.ExportedDocument{
		Filename:    "paye_january_2024.csv",
		ContentType: "text/csv",
		Content:     []byte("employee_name,paye_amount\n"),
	}, nil
}

type routerFixture struct {
	handler   http.Handler
	jwt       jwt.Service
	payroll   *stubPayrollService
	statutory *stubStatutoryService
	reports   *stubReportService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		jwt:       jwt.NewJWTService(handlerTestSecret, time.Hour),
		payroll:   &stubPayrollService{},
		statutory: &stubStatutoryService{},
		reports:   &stubReportService{},
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	f.handler = NewRouter(logger, []string{"*"}, f.jwt,
		NewStatutoryHandler(f.statutory),
		NewPayrollHandler(f.payroll),
		NewReportHandler(f.reports),
	)
	return f
}

func (f *routerFixture) token(t *testing.T, tc tenant.Context) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken(tc)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ===== AUTH TESTS =====

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/payroll/periods", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PayrollRequiresTenant(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, tenant.Context{UserID: "admin-1", IsPlatformAdmin: true})

	rec := f.do(t, http.MethodPost, "/api/v1/payroll/periods/"+testPeriodID+"/run", token, "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_StatutoryWritesArePlatformAdminOnly(t *testing.T) {
	f := newRouterFixture(t)
	body := `{"is_annual":false,"bands":[{"band_start":"0","rate":"0"}]}`

	tenantToken := f.token(t, tenant.Context{TenantID: "tenant-1", UserID: "user-1"})
	rec := f.do(t, http.MethodPut, "/api/v1/statutory/tax-bands/2024", tenantToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, f.statutory.replaced)

	adminToken := f.token(t, tenant.Context{UserID: "admin-1", IsPlatformAdmin: true})
	rec = f.do(t, http.MethodPut, "/api/v1/statutory/tax-bands/2024", adminToken, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.statutory.replaced)
}

// ===== PAYROLL TESTS =====

func TestRouter_RunPayroll(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, tenant.Context{TenantID: "tenant-1", UserID: "user-1"})

	var gotTenant, gotPeriod string
	f.payroll.runPayroll = func(_ context.Context, tenantID, periodID string) (payroll.RunResult, error) {
		gotTenant, gotPeriod = tenantID, periodID
		return payroll.RunResult{
			RunID:           "run-1",
			TenantID:        tenantID,
			PayrollPeriodID: periodID,
			Succeeded:       []payroll.RunSuccess{{UserID: "u1", PayslipID: "ps-1", NetPay: decimal.RequireFromString("4196.25")}},
			Failed:          []payroll.RunFailure{{UserID: "u3", Kind: payroll.KindConfiguration, Missing: "withholding_rate for casual effective 2024-01-31"}},
		}, nil
	}

	rec := f.do(t, http.MethodPost, "/api/v1/payroll/periods/"+testPeriodID+"/run", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tenant-1", gotTenant)
	assert.Equal(t, testPeriodID, gotPeriod)

	resp := decodeBody(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 1, data["succeeded_count"])
	assert.EqualValues(t, 1, data["failed_count"])
	assert.Equal(t, "tenant-1", data["tenant_id"])
}

func TestRouter_RunPayrollErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "closed period",
			err:        payroll.ValidationError("p-1", payroll.ErrPeriodClosed),
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
		},
		{
			name:       "unknown period",
			err:        payroll.ValidationError("p-1", payroll.ErrPeriodNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "configuration",
			err:        payroll.ConfigurationError("", "p-1", "tax_bands for 2024 (monthly)", errors.New("no bands")),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "PAYROLL_CONFIGURATION",
		},
		{
			name:       "persistence",
			err:        payroll.PersistenceError("p-1", errors.New("connection reset")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			token := f.token(t, tenant.Context{TenantID: "tenant-1", UserID: "user-1"})
			f.payroll.runPayroll = func(context.Context, string, string) (payroll.RunResult, error) {
				return payroll.RunResult{}, tt.err
			}

			rec := f.do(t, http.MethodPost, "/api/v1/payroll/periods/"+testPeriodID+"/run", token, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeBody(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestRouter_MalformedIDIsNotFound(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, tenant.Context{TenantID: "tenant-1", UserID: "user-1"})
	f.payroll.runPayroll = func(context.Context, string, string) (payroll.RunResult, error) {
		t.Fatal("service must not be called for a malformed id")
		return payroll.RunResult{}, nil
	}

	tests := []struct {
		path    string
		method  string
		message string
	}{
		{"/api/v1/payroll/periods/p-1/run", http.MethodPost, "Payroll period not found"},
		{"/api/v1/payroll/elements/transport", http.MethodGet, "Payroll element not found"},
		{"/api/v1/payroll/payslips/42/pdf", http.MethodGet, "Payslip not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, token, "")

			assert.Equal(t, http.StatusNotFound, rec.Code)
			resp := decodeBody(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "NOT_FOUND", resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}

func TestRouter_CreatePeriodValidation(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, tenant.Context{TenantID: "tenant-1", UserID: "user-1"})

	rec := f.do(t, http.MethodPost, "/api/v1/payroll/periods", token,
		`{"period_name":"January 2024","start_date":"2024-01-31","end_date":"2024-01-01"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "end_date")
}

// ===== REPORT TESTS =====

func TestRouter_ExportReport(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, tenant.Context{TenantID: "tenant-1", UserID: "user-1"})

	rec := f.do(t, http.MethodGet, "/api/v1/reports/paye/export?period_id=p-1&format=csv&provisional=true", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "paye_january_2024.csv")
	assert.Equal(t, "tenant-1", f.reports.lastTenant)
	assert.Equal(t, report.KindPAYE, f.reports.lastReq.Kind)
	assert.True(t, f.reports.lastReq.Provisional)
}

func TestRouter_UnknownReportKind(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, tenant.Context{TenantID: "tenant-1", UserID: "user-1"})

	rec := f.do(t, http.MethodGet, "/api/v1/reports/payroll-summary?period_id=p-1", token, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
