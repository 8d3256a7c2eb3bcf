package diagnose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidDateQuery(t *testing.T) {
	query := InvalidDateQuery("S", "T1", "D")

	assert.Contains(t, query, "SELECT 'T1' as tbl, 'D' as col")
	assert.Contains(t, query, "FROM S.T1")
	assert.Contains(t, query, "EXTRACT(YEAR FROM D) < 1")
	assert.Contains(t, query, "EXTRACT(YEAR FROM D) > 9999")
	assert.False(t, strings.HasSuffix(query, ";"), "builders return unterminated statements")
}

func TestDistributionSummaryQuery(t *testing.T) {
	query := DistributionSummaryQuery("S", "T1", "D")

	assert.Contains(t, query, "COUNT(*) as total_rows")
	assert.Contains(t, query, "COUNT(D) as non_null_dates")
	assert.Contains(t, query, "COUNT(*) - COUNT(D) as null_dates")
	assert.Contains(t, query, "FROM S.T1")
}

func TestRecentDatesQuery(t *testing.T) {
	query := RecentDatesQuery("S", "T1", "D")

	assert.Contains(t, query, "WHERE D >= TRUNC(SYSDATE) - 7")
	assert.Contains(t, query, "GROUP BY D")
	assert.Contains(t, query, "ORDER BY D DESC")
}

func TestPrecisionMetadataQuery(t *testing.T) {
	query := PrecisionMetadataQuery("S", "T1")

	assert.Contains(t, query, "FROM all_tab_columns")
	assert.Contains(t, query, "owner = 'S'")
	assert.Contains(t, query, "table_name = 'T1'")
	assert.Contains(t, query, "data_type = 'NUMBER'")
	assert.Contains(t, query, "ORDER BY column_id")
}

func TestExtremeValueQuery(t *testing.T) {
	query := ExtremeValueQuery("S", "T1", "N")

	assert.Contains(t, query, "MAX(LENGTH(TRUNC(N))) as max_int_digits")
	assert.Contains(t, query, "MAX(LENGTH(N) - LENGTH(TRUNC(N)) - 1) as max_dec_digits")
	assert.Contains(t, query, "WHERE N IS NOT NULL")
}

func TestRowCountQuery(t *testing.T) {
	query := RowCountQuery("S", []string{"A", "B", "C"})

	want := "SELECT 'A' as tbl, COUNT(*) as cnt FROM S.A\n" +
		"UNION ALL\n" +
		"SELECT 'B', COUNT(*) FROM S.B\n" +
		"UNION ALL\n" +
		"SELECT 'C', COUNT(*) FROM S.C"
	assert.Equal(t, want, query)
}

func TestRowCountQuerySingleTable(t *testing.T) {
	query := RowCountQuery("S", []string{"A"})
	assert.Equal(t, "SELECT 'A' as tbl, COUNT(*) as cnt FROM S.A", query)
	assert.NotContains(t, query, "UNION ALL")
}
