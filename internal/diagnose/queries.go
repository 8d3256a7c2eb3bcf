package diagnose

import (
	"fmt"
	"strings"
)

// Builders for the per-table check queries. They return statements without a
// trailing semicolon so the runner can execute them directly; the emitter
// adds the terminator when writing the script.

// InvalidDateQuery counts values of col that fall outside the range a
// downstream DateTime type can represent, and reports the observed min/max.
func InvalidDateQuery(schema, table, col string) string {
	return fmt.Sprintf(`SELECT '%s' as tbl, '%s' as col,
       COUNT(*) as invalid_count,
       MIN(%s) as min_date,
       MAX(%s) as max_date
FROM %s.%s
WHERE %s < TO_DATE('0001-01-01', 'YYYY-MM-DD')
   OR %s > TO_DATE('9999-12-31', 'YYYY-MM-DD')
   OR EXTRACT(YEAR FROM %s) < 1
   OR EXTRACT(YEAR FROM %s) > 9999`,
		table, col, col, col, schema, table, col, col, col, col)
}

// DistributionSummaryQuery aggregates the snapshot column of a table:
// min/max, total rows, and null accounting.
func DistributionSummaryQuery(schema, table, col string) string {
	return fmt.Sprintf(`SELECT
    MIN(%s) as min_date,
    MAX(%s) as max_date,
    COUNT(*) as total_rows,
    COUNT(%s) as non_null_dates,
    COUNT(*) - COUNT(%s) as null_dates
FROM %s.%s`,
		col, col, col, col, schema, table)
}

// RecentDatesQuery groups rows whose snapshot column falls in the trailing
// seven days, newest first.
func RecentDatesQuery(schema, table, col string) string {
	return fmt.Sprintf(`SELECT %s, COUNT(*) as row_count
FROM %s.%s
WHERE %s >= TRUNC(SYSDATE) - 7
GROUP BY %s
ORDER BY %s DESC`,
		col, schema, table, col, col, col)
}

// PrecisionMetadataQuery reads declared NUMBER precision/scale for a table
// from the Oracle column catalog.
func PrecisionMetadataQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT column_name, data_type, data_precision, data_scale
FROM all_tab_columns
WHERE owner = '%s'
  AND table_name = '%s'
  AND data_type = 'NUMBER'
ORDER BY column_id`,
		schema, table)
}

// ExtremeValueQuery reports min/max of a numeric column plus digit-count
// estimates. Integer digits come from the truncated value's string length;
// fractional digits from the full length minus the truncated length minus
// the decimal point.
func ExtremeValueQuery(schema, table, col string) string {
	return fmt.Sprintf(`SELECT '%s' as tbl, '%s' as col,
       MIN(%s) as min_val,
       MAX(%s) as max_val,
       MAX(LENGTH(TRUNC(%s))) as max_int_digits,
       MAX(LENGTH(%s) - LENGTH(TRUNC(%s)) - 1) as max_dec_digits
FROM %s.%s
WHERE %s IS NOT NULL`,
		table, col, col, col, col, col, col, schema, table, col)
}

// RowCountQuery builds a UNION ALL over the given tables, one count per
// table. Used by the runner; the emitted script carries a fixed literal
// version instead.
func RowCountQuery(schema string, tables []string) string {
	var b strings.Builder
	for i, table := range tables {
		if i == 0 {
			fmt.Fprintf(&b, "SELECT '%s' as tbl, COUNT(*) as cnt FROM %s.%s", table, schema, table)
			continue
		}
		fmt.Fprintf(&b, "\nUNION ALL\nSELECT '%s', COUNT(*) FROM %s.%s", table, schema, table)
	}
	return b.String()
}
