package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
	"github.com/sikapay/sikapay-backend-go/migrations"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

// TestMain connects to TEST_DATABASE_URL and applies the migrations. The
// package is skipped when no database is configured.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		fmt.Println("TEST_DATABASE_URL not set, skipping repository tests")
		os.Exit(0)
	}

	ctx := context.Background()
	if err := database.Migrate(ctx, dsn, migrations.FS); err != nil {
		fmt.Println("failed to migrate test database:", err)
		os.Exit(1)
	}

	var err error
	testDB, err = database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{})
	if err != nil {
		fmt.Println("failed to connect to test database:", err)
		os.Exit(1)
	}

	code := m.Run()
	testDB.Close()
	os.Exit(code)
}

// truncateAll empties every payroll table. Statutory tables are shared across
// tenants, so they are cleared too.
func truncateAll(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tables := []string{
		"payslips",
		"employee_payroll_elements",
		"payroll_periods",
		"payroll_elements",
		"withholding_tax_rates",
		"ssnit_rates",
		"tax_bands",
		"employees",
		"departments",
		"tenants",
	}

	for _, table := range tables {
		_, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "truncate %s", table)
	}
}

func createTenant(t *testing.T, name string) string {
	t.Helper()
	var id string
	err := testDB.QueryRow(context.Background(),
		`INSERT INTO tenants (name, tin_number) VALUES ($1, 'C0001') RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func createDepartment(t *testing.T, tenantID, name string) string {
	t.Helper()
	var id string
	err := testDB.QueryRow(context.Background(),
		`INSERT INTO departments (tenant_id, name) VALUES ($1, $2) RETURNING id`, tenantID, name).Scan(&id)
	require.NoError(t, err)
	return id
}

type employeeFixture struct {
	Code           string
	Name           string
	EmploymentType string
	Salary         string
	DepartmentID   *string
	Eligible       bool
}

func createEmployee(t *testing.T, tenantID string, f employeeFixture) string {
	t.Helper()
	if f.EmploymentType == "" {
		f.EmploymentType = "permanent"
	}
	var id string
	err := testDB.QueryRow(context.Background(), `
		INSERT INTO employees (
			tenant_id, employee_code, full_name, employment_type, basic_salary, is_payroll_eligible,
			department_id, tin_number, ssnit_number, bank_name, bank_branch, bank_account_number
		) VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, 'P0'||$2, 'S0'||$2, 'GCB', 'Accra', '100'||$2)
		RETURNING user_id
	`, tenantID, f.Code, f.Name, f.EmploymentType, f.Salary, f.Eligible, f.DepartmentID).Scan(&id)
	require.NoError(t, err)
	return id
}
