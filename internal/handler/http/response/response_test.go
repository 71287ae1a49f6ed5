package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sikapay/sikapay-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError_PayrollConfiguration(t *testing.T) {
	rec := httptest.NewRecorder()
	err := payroll.ConfigurationError("u1", "p1", "ssnit_rate effective 2024-01-31", fmt.Errorf("no rate"))

	HandleError(rec, fmt.Errorf("run failed: %w", err))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PAYROLL_CONFIGURATION", resp.Error.Code)
	assert.Equal(t, "u1", resp.Error.Details["employee_id"])
	assert.Equal(t, "ssnit_rate effective 2024-01-31", resp.Error.Details["missing"])
}

func TestHandleError_Unexpected(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, fmt.Errorf("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestFile(t *testing.T) {
	rec := httptest.NewRecorder()

	File(rec, "ssnit_january_2024.csv", "text/csv", []byte("a,b\n"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="ssnit_january_2024.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "a,b\n", rec.Body.String())
}
