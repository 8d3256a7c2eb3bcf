// Package runner executes the diagnostic checks against a live warehouse
// connection instead of emitting them as a script. The fixed sample and
// remediation blocks are never run from here; they belong to the extraction
// job.
package runner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/snowflakedb/gosnowflake"

	"whdiag/internal/diagnose"
	"whdiag/pkg/errors"
	"whdiag/pkg/models"
)

// Digit budget of the extraction target type, DECIMAL(38,18).
const (
	maxIntDigits = 20
	maxDecDigits = 18
)

// Service runs check queries over a database/sql connection.
type Service struct {
	db        *sql.DB
	conn      models.Connection
	timeout   time.Duration
	connected bool
}

// NewService creates a Service for the given connection settings.
func NewService(conn models.Connection, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Service{
		conn:    conn,
		timeout: timeout,
	}
}

// NewServiceWithDB wraps an existing connection pool. The caller keeps
// ownership of db; Close becomes a no-op. Used by tests.
func NewServiceWithDB(db *sql.DB) *Service {
	return &Service{
		db:      db,
		timeout: 5 * time.Minute,
	}
}

// ValidateConnection checks the settings required to build a DSN.
func ValidateConnection(conn models.Connection) error {
	if conn.Account == "" {
		return errors.ConfigError("account is required", "connection.account")
	}
	if conn.Username == "" {
		return errors.ConfigError("username is required", "connection.username")
	}
	if conn.Password == "" {
		return errors.ConfigError("password is required", "connection.password")
	}
	return nil
}

// Connect opens and verifies the warehouse connection.
func (s *Service) Connect() error {
	if s.connected || s.db != nil {
		return nil
	}

	if err := ValidateConnection(s.conn); err != nil {
		return err
	}

	dsn := fmt.Sprintf("%s:%s@%s/%s/%s?warehouse=%s&role=%s",
		s.conn.Username,
		s.conn.Password,
		s.conn.Account,
		s.conn.Database,
		s.conn.Schema,
		s.conn.Warehouse,
		s.conn.Role,
	)

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return errors.ConnectionError("Failed to open warehouse connection", err).
			WithContext("account", s.conn.Account)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(10 * time.Minute)

	ctx, cancel := s.getContext()
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.ConnectionError("Failed to connect to warehouse", err).
			WithContext("account", s.conn.Account).
			AsRecoverable()
	}

	s.db = db
	s.connected = true
	return nil
}

// Close closes the database connection if this Service opened it.
func (s *Service) Close() error {
	if !s.connected {
		return nil
	}
	s.connected = false
	return s.db.Close()
}

func (s *Service) getContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// DateFinding is one invalid-date check result.
type DateFinding struct {
	Table        string
	Column       string
	InvalidCount int64
	MinDate      sql.NullString
	MaxDate      sql.NullString
}

// Distribution summarizes the snapshot column of one table.
type Distribution struct {
	Table        string
	Column       string
	MinDate      sql.NullString
	MaxDate      sql.NullString
	TotalRows    int64
	NonNullDates int64
	NullDates    int64
}

// ColumnMeta is one row of declared NUMBER precision metadata.
type ColumnMeta struct {
	Table     string
	Column    string
	DataType  string
	Precision sql.NullInt64
	Scale     sql.NullInt64
}

// NumericFinding is one extreme-value check result.
type NumericFinding struct {
	Table        string
	Column       string
	MinVal       sql.NullFloat64
	MaxVal       sql.NullFloat64
	MaxIntDigits sql.NullInt64
	MaxDecDigits sql.NullInt64
}

// Overflows reports whether the observed digit counts exceed the target
// decimal type.
func (f NumericFinding) Overflows() bool {
	if f.MaxIntDigits.Valid && f.MaxIntDigits.Int64 > maxIntDigits {
		return true
	}
	if f.MaxDecDigits.Valid && f.MaxDecDigits.Int64 > maxDecDigits {
		return true
	}
	return false
}

// RowCount is one table's total row count.
type RowCount struct {
	Table string
	Count int64
}

// Report collects all check results for one run.
type Report struct {
	Dates         []DateFinding
	Distributions []Distribution
	Columns       []ColumnMeta
	Numerics      []NumericFinding
	Counts        []RowCount
}

// HasFindings reports whether any check flagged incompatible data.
func (r *Report) HasFindings() bool {
	for _, d := range r.Dates {
		if d.InvalidCount > 0 {
			return true
		}
	}
	for _, n := range r.Numerics {
		if n.Overflows() {
			return true
		}
	}
	return false
}

// RunChecks executes the config-driven checks in the same order the emitted
// script lists them and collects the results.
func (s *Service) RunChecks(ctx context.Context, schema string, tables []models.TableCheck) (*Report, error) {
	report := &Report{}

	for _, t := range tables {
		for _, col := range t.DateColumns {
			finding, err := s.checkInvalidDates(ctx, schema, t.Name, col)
			if err != nil {
				return nil, err
			}
			report.Dates = append(report.Dates, finding)
		}
	}

	for _, t := range tables {
		dist, err := s.checkDistribution(ctx, schema, t.Name, t.DateFilterCol)
		if err != nil {
			return nil, err
		}
		report.Distributions = append(report.Distributions, dist)
	}

	for _, t := range tables {
		cols, err := s.checkPrecisionMetadata(ctx, schema, t.Name)
		if err != nil {
			return nil, err
		}
		report.Columns = append(report.Columns, cols...)
	}

	for _, t := range tables {
		for _, col := range t.NumericColumns {
			finding, err := s.checkExtremeValues(ctx, schema, t.Name, col)
			if err != nil {
				return nil, err
			}
			report.Numerics = append(report.Numerics, finding)
		}
	}

	counts, err := s.checkRowCounts(ctx, schema, tables)
	if err != nil {
		return nil, err
	}
	report.Counts = counts

	return report, nil
}

func (s *Service) checkInvalidDates(ctx context.Context, schema, table, col string) (DateFinding, error) {
	query := diagnose.InvalidDateQuery(schema, table, col)
	finding := DateFinding{Table: table, Column: col}

	row := s.db.QueryRowContext(ctx, query)
	var tbl, c string
	if err := row.Scan(&tbl, &c, &finding.InvalidCount, &finding.MinDate, &finding.MaxDate); err != nil {
		return finding, errors.SQLError("invalid date check failed", query, err).
			WithContext("table", table).
			WithContext("column", col)
	}
	return finding, nil
}

func (s *Service) checkDistribution(ctx context.Context, schema, table, col string) (Distribution, error) {
	query := diagnose.DistributionSummaryQuery(schema, table, col)
	dist := Distribution{Table: table, Column: col}

	row := s.db.QueryRowContext(ctx, query)
	if err := row.Scan(&dist.MinDate, &dist.MaxDate, &dist.TotalRows, &dist.NonNullDates, &dist.NullDates); err != nil {
		return dist, errors.SQLError("date distribution check failed", query, err).
			WithContext("table", table)
	}
	return dist, nil
}

func (s *Service) checkPrecisionMetadata(ctx context.Context, schema, table string) ([]ColumnMeta, error) {
	query := diagnose.PrecisionMetadataQuery(schema, table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.SQLError("precision metadata check failed", query, err).
			WithContext("table", table)
	}
	defer rows.Close()

	var metas []ColumnMeta
	for rows.Next() {
		meta := ColumnMeta{Table: table}
		if err := rows.Scan(&meta.Column, &meta.DataType, &meta.Precision, &meta.Scale); err != nil {
			return nil, errors.SQLError("precision metadata scan failed", query, err)
		}
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.SQLError("precision metadata check failed", query, err)
	}
	return metas, nil
}

func (s *Service) checkExtremeValues(ctx context.Context, schema, table, col string) (NumericFinding, error) {
	query := diagnose.ExtremeValueQuery(schema, table, col)
	finding := NumericFinding{Table: table, Column: col}

	row := s.db.QueryRowContext(ctx, query)
	var tbl, c string
	if err := row.Scan(&tbl, &c, &finding.MinVal, &finding.MaxVal, &finding.MaxIntDigits, &finding.MaxDecDigits); err != nil {
		return finding, errors.SQLError("extreme value check failed", query, err).
			WithContext("table", table).
			WithContext("column", col)
	}
	return finding, nil
}

func (s *Service) checkRowCounts(ctx context.Context, schema string, tables []models.TableCheck) ([]RowCount, error) {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	query := diagnose.RowCountQuery(schema, names)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.SQLError("row count check failed", query, err)
	}
	defer rows.Close()

	var counts []RowCount
	for rows.Next() {
		var rc RowCount
		if err := rows.Scan(&rc.Table, &rc.Count); err != nil {
			return nil, errors.SQLError("row count scan failed", query, err)
		}
		counts = append(counts, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.SQLError("row count check failed", query, err)
	}
	return counts, nil
}
