package runner

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whdiag/internal/diagnose"
	apperrors "whdiag/pkg/errors"
	"whdiag/pkg/models"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewServiceWithDB(db), mock
}

func testTables() []models.TableCheck {
	return []models.TableCheck{
		{
			Name:           "T1",
			DateFilterCol:  "D",
			DateColumns:    []string{"D"},
			NumericColumns: []string{"N"},
		},
	}
}

func expectAllChecks(mock sqlmock.Sqlmock, invalidCount int64, intDigits int64) {
	mock.ExpectQuery(diagnose.InvalidDateQuery("S", "T1", "D")).
		WillReturnRows(sqlmock.NewRows([]string{"tbl", "col", "invalid_count", "min_date", "max_date"}).
			AddRow("T1", "D", invalidCount, "0000-12-31", "9999-12-31"))

	mock.ExpectQuery(diagnose.DistributionSummaryQuery("S", "T1", "D")).
		WillReturnRows(sqlmock.NewRows([]string{"min_date", "max_date", "total_rows", "non_null_dates", "null_dates"}).
			AddRow("2020-01-01", "2026-08-24", 1000, 990, 10))

	mock.ExpectQuery(diagnose.PrecisionMetadataQuery("S", "T1")).
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "data_precision", "data_scale"}).
			AddRow("N", "NUMBER", 38, 18).
			AddRow("M", "NUMBER", nil, nil))

	mock.ExpectQuery(diagnose.ExtremeValueQuery("S", "T1", "N")).
		WillReturnRows(sqlmock.NewRows([]string{"tbl", "col", "min_val", "max_val", "max_int_digits", "max_dec_digits"}).
			AddRow("T1", "N", -12.5, 99999.25, intDigits, 2))

	mock.ExpectQuery(diagnose.RowCountQuery("S", []string{"T1"})).
		WillReturnRows(sqlmock.NewRows([]string{"tbl", "cnt"}).
			AddRow("T1", 1000))
}

func TestRunChecks(t *testing.T) {
	service, mock := newMockService(t)
	expectAllChecks(mock, 2, 5)

	report, err := service.RunChecks(context.Background(), "S", testTables())
	require.NoError(t, err)

	require.Len(t, report.Dates, 1)
	assert.Equal(t, "T1", report.Dates[0].Table)
	assert.Equal(t, "D", report.Dates[0].Column)
	assert.Equal(t, int64(2), report.Dates[0].InvalidCount)
	assert.Equal(t, "0000-12-31", report.Dates[0].MinDate.String)

	require.Len(t, report.Distributions, 1)
	assert.Equal(t, int64(1000), report.Distributions[0].TotalRows)
	assert.Equal(t, int64(10), report.Distributions[0].NullDates)

	require.Len(t, report.Columns, 2)
	assert.Equal(t, int64(38), report.Columns[0].Precision.Int64)
	assert.False(t, report.Columns[1].Precision.Valid)

	require.Len(t, report.Numerics, 1)
	assert.Equal(t, int64(5), report.Numerics[0].MaxIntDigits.Int64)
	assert.False(t, report.Numerics[0].Overflows())

	require.Len(t, report.Counts, 1)
	assert.Equal(t, RowCount{Table: "T1", Count: 1000}, report.Counts[0])

	assert.True(t, report.HasFindings(), "2 invalid dates should count as a finding")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunChecksClean(t *testing.T) {
	service, mock := newMockService(t)
	expectAllChecks(mock, 0, 5)

	report, err := service.RunChecks(context.Background(), "S", testTables())
	require.NoError(t, err)

	assert.False(t, report.HasFindings())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunChecksQueryError(t *testing.T) {
	service, mock := newMockService(t)
	mock.ExpectQuery(diagnose.InvalidDateQuery("S", "T1", "D")).
		WillReturnError(sql.ErrConnDone)

	_, err := service.RunChecks(context.Background(), "S", testTables())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeSQLExecution, appErr.Code)
	assert.Equal(t, "T1", appErr.Context["table"])
	assert.Equal(t, "D", appErr.Context["column"])
}

func TestNumericFindingOverflows(t *testing.T) {
	tests := []struct {
		name      string
		intDigits sql.NullInt64
		decDigits sql.NullInt64
		want      bool
	}{
		{"within budget", sql.NullInt64{Int64: 20, Valid: true}, sql.NullInt64{Int64: 18, Valid: true}, false},
		{"integer overflow", sql.NullInt64{Int64: 21, Valid: true}, sql.NullInt64{Int64: 2, Valid: true}, true},
		{"fractional overflow", sql.NullInt64{Int64: 5, Valid: true}, sql.NullInt64{Int64: 19, Valid: true}, true},
		{"all null column", sql.NullInt64{}, sql.NullInt64{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finding := NumericFinding{MaxIntDigits: tt.intDigits, MaxDecDigits: tt.decDigits}
			assert.Equal(t, tt.want, finding.Overflows())
		})
	}
}

func TestValidateConnection(t *testing.T) {
	valid := models.Connection{Account: "acct", Username: "user", Password: "pass"}

	tests := []struct {
		name     string
		mutate   func(*models.Connection)
		errorMsg string
	}{
		{"valid", func(c *models.Connection) {}, ""},
		{"missing account", func(c *models.Connection) { c.Account = "" }, "account is required"},
		{"missing username", func(c *models.Connection) { c.Username = "" }, "username is required"},
		{"missing password", func(c *models.Connection) { c.Password = "" }, "password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := valid
			tt.mutate(&conn)
			err := ValidateConnection(conn)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errorMsg)
			}
		})
	}
}

func TestNewServiceDefaultTimeout(t *testing.T) {
	service := NewService(models.Connection{}, 0)
	assert.Equal(t, 5*time.Minute, service.timeout)
}

func TestConnectRequiresValidConnection(t *testing.T) {
	service := NewService(models.Connection{}, time.Second)
	err := service.Connect()
	assert.ErrorContains(t, err, "account is required")
}

func TestCloseWithoutConnect(t *testing.T) {
	service := NewService(models.Connection{}, time.Second)
	assert.NoError(t, service.Close())
}
