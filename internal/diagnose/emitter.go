// Package diagnose generates the warehouse table diagnostic SQL script.
//
// The script audits date and numeric columns for values that break the
// downstream extraction's stricter types: dates outside the DateTime range
// [0001-01-01, 9999-12-31] and NUMBER values whose digit counts overflow a
// fixed-precision decimal. It is meant to be pasted into SQL Developer,
// TOAD, or any Oracle client; nothing here touches a database.
package diagnose

import (
	"fmt"
	"io"
	"strings"

	"whdiag/pkg/models"
)

const bannerWidth = 70

// Fixed query blocks. These hard-code table and column lists on purpose:
// they are audited extraction SQL, so they are preserved verbatim rather
// than regenerated from the check configuration.
const (
	sampleRowsBlock = `
-- WH_LOANS: Find rows with suspicious dates
SELECT ACCTNBR, RUNDATE, ORIGDATE, DATEMAT, PAIDOFFDATE, STATUS
FROM COCCDM.WH_LOANS
WHERE ORIGDATE < TO_DATE('1900-01-01', 'YYYY-MM-DD')
   OR DATEMAT > TO_DATE('2100-12-31', 'YYYY-MM-DD')
   OR EXTRACT(YEAR FROM ORIGDATE) < 1900
   OR EXTRACT(YEAR FROM DATEMAT) > 2100
FETCH FIRST 20 ROWS ONLY;

-- Check for DATE columns that are actually storing weird values
SELECT ACCTNBR, RUNDATE,
       TO_CHAR(ORIGDATE, 'YYYY-MM-DD HH24:MI:SS') as origdate_str,
       TO_CHAR(DATEMAT, 'YYYY-MM-DD HH24:MI:SS') as datemat_str
FROM COCCDM.WH_LOANS
WHERE ORIGDATE IS NOT NULL
ORDER BY ORIGDATE ASC
FETCH FIRST 10 ROWS ONLY;
`

	rowCountsBlock = `
SELECT 'WH_LOANS' as tbl, COUNT(*) as cnt FROM COCCDM.WH_LOANS
UNION ALL
SELECT 'WH_ACCTCOMMON', COUNT(*) FROM COCCDM.WH_ACCTCOMMON
UNION ALL
SELECT 'WH_ACCT', COUNT(*) FROM COCCDM.WH_ACCT;
`

	remediationBlock = `
-- WH_LOANS: Cast problematic dates to NULL
SELECT
    ACCTNBR, RUNDATE, OCC, STATUS, ORIGBAL, CURRTERM, INTC, LCRATE, OLDPI,
    CASE
        WHEN ORIGDATE < TO_DATE('1900-01-01', 'YYYY-MM-DD')
          OR ORIGDATE > TO_DATE('2100-12-31', 'YYYY-MM-DD')
        THEN NULL
        ELSE ORIGDATE
    END as ORIGDATE,
    CASE
        WHEN DATEMAT < TO_DATE('1900-01-01', 'YYYY-MM-DD')
          OR DATEMAT > TO_DATE('2100-12-31', 'YYYY-MM-DD')
        THEN NULL
        ELSE DATEMAT
    END as DATEMAT,
    CASE
        WHEN PAIDOFFDATE < TO_DATE('1900-01-01', 'YYYY-MM-DD')
          OR PAIDOFFDATE > TO_DATE('2100-12-31', 'YYYY-MM-DD')
        THEN NULL
        ELSE PAIDOFFDATE
    END as PAIDOFFDATE,
    PF, NOTEBAL, BOOKBALANCE, AVAILBALAMT, COBAL, ACCTMISC3, PCTPARTSOLD,
    DATELASTMAINT, ADDDATE, STOPDATE
FROM COCCDM.WH_LOANS
WHERE RUNDATE = TRUNC(SYSDATE) - 1;  -- Yesterday's snapshot
`
)

// Emitter writes the diagnostic script to w, section by section, driven by
// the table check configuration. Output is deterministic: same schema and
// tables produce byte-identical scripts.
type Emitter struct {
	w      io.Writer
	schema string
	tables []models.TableCheck
	err    error
}

// NewEmitter creates an Emitter over w. The tables slice is iterated in
// order and never mutated.
func NewEmitter(w io.Writer, schema string, tables []models.TableCheck) *Emitter {
	return &Emitter{
		w:      w,
		schema: schema,
		tables: tables,
	}
}

// Emit writes the whole script. Section order is fixed; it returns the
// first writer error encountered, if any.
func (e *Emitter) Emit() error {
	e.header()
	e.invalidDateChecks()
	e.dateDistribution()
	e.precisionMetadata()
	e.extremeValues()
	e.sampleRows()
	e.rowCounts()
	e.remediation()
	return e.err
}

// printf writes formatted output, latching the first error so later
// sections become no-ops once the writer fails.
func (e *Emitter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *Emitter) rule(ch string) string {
	return strings.Repeat(ch, bannerWidth)
}

func (e *Emitter) section(lines ...string) {
	e.printf("\n%s\n", e.rule("-"))
	for _, line := range lines {
		e.printf("%s\n", line)
	}
	e.printf("%s\n", e.rule("-"))
}

func (e *Emitter) header() {
	e.printf("%s\n", e.rule("="))
	e.printf("DIAGNOSTIC SQL QUERIES\n")
	e.printf("Run these in SQL Developer, TOAD, or any Oracle client\n")
	e.printf("%s\n", e.rule("="))
}

func (e *Emitter) invalidDateChecks() {
	e.section(
		"1. INVALID DATE CHECK",
		"   Dates < 0001-01-01 or > 9999-12-31 cause .NET DateTime errors",
	)

	for _, t := range e.tables {
		e.printf("\n-- %s date validation\n", t.Name)
		for _, col := range t.DateColumns {
			e.printf("\n%s;\n", InvalidDateQuery(e.schema, t.Name, col))
		}
	}
}

func (e *Emitter) dateDistribution() {
	e.section(
		"2. DATE DISTRIBUTION CHECK",
		"   Understand what dates are actually in the data",
	)

	for _, t := range e.tables {
		e.printf("\n-- %s: Date range and distribution\n%s;\n",
			t.Name, DistributionSummaryQuery(e.schema, t.Name, t.DateFilterCol))
		e.printf("\n-- Recent dates available\n%s;\n",
			RecentDatesQuery(e.schema, t.Name, t.DateFilterCol))
	}
}

func (e *Emitter) precisionMetadata() {
	e.section(
		"3. NUMERIC PRECISION CHECK",
		"   Check for NUMBER columns that exceed DECIMAL(38,18) precision",
	)

	for _, t := range e.tables {
		e.printf("\n-- %s numeric precision\n\n%s;\n",
			t.Name, PrecisionMetadataQuery(e.schema, t.Name))
	}
}

func (e *Emitter) extremeValues() {
	e.section(
		"4. EXTREME NUMERIC VALUES",
		"   Values that might overflow Spark Decimal types",
	)

	for _, t := range e.tables {
		for _, col := range t.NumericColumns {
			e.printf("\n-- %s.%s range check\n%s;\n",
				t.Name, col, ExtremeValueQuery(e.schema, t.Name, col))
		}
	}
}

func (e *Emitter) sampleRows() {
	e.section(
		"5. SAMPLE PROBLEMATIC ROWS",
		"   Get actual examples of bad data",
	)
	e.printf("%s", sampleRowsBlock)
}

func (e *Emitter) rowCounts() {
	e.section("6. QUICK ROW COUNTS")
	e.printf("%s", rowCountsBlock)
}

func (e *Emitter) remediation() {
	e.printf("\n%s\n", e.rule("="))
	e.printf("RECOMMENDED COPYJOB SAFE QUERIES\n")
	e.printf("Use these queries in CopyJob to handle DateTime issues\n")
	e.printf("%s\n", e.rule("="))
	e.printf("%s", remediationBlock)
	e.printf("\n%s\n", e.rule("="))
	e.printf("END OF DIAGNOSTIC SCRIPT\n")
	e.printf("%s\n", e.rule("="))
}
