package runner

import (
	"database/sql"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// RenderReport writes the check results as terminal tables, one per check
// section, in the same order the emitted script uses.
func RenderReport(w io.Writer, report *Report, useColor bool) {
	renderSection(w, "INVALID DATES")
	table := newTable(w, "Table", "Column", "Invalid Rows", "Min Date", "Max Date")
	for _, d := range report.Dates {
		count := strconv.FormatInt(d.InvalidCount, 10)
		if useColor && d.InvalidCount > 0 {
			count = color.RedString(count)
		}
		table.Append([]string{d.Table, d.Column, count, nullString(d.MinDate), nullString(d.MaxDate)})
	}
	table.Render()

	renderSection(w, "DATE DISTRIBUTION")
	table = newTable(w, "Table", "Column", "Min Date", "Max Date", "Total", "Non-Null", "Null")
	for _, d := range report.Distributions {
		table.Append([]string{
			d.Table, d.Column,
			nullString(d.MinDate), nullString(d.MaxDate),
			strconv.FormatInt(d.TotalRows, 10),
			strconv.FormatInt(d.NonNullDates, 10),
			strconv.FormatInt(d.NullDates, 10),
		})
	}
	table.Render()

	renderSection(w, "NUMBER COLUMN METADATA")
	table = newTable(w, "Table", "Column", "Type", "Precision", "Scale")
	for _, c := range report.Columns {
		table.Append([]string{c.Table, c.Column, c.DataType, nullInt(c.Precision), nullInt(c.Scale)})
	}
	table.Render()

	renderSection(w, "EXTREME NUMERIC VALUES")
	table = newTable(w, "Table", "Column", "Min", "Max", "Int Digits", "Dec Digits")
	for _, n := range report.Numerics {
		intDigits := nullInt(n.MaxIntDigits)
		decDigits := nullInt(n.MaxDecDigits)
		if useColor && n.Overflows() {
			intDigits = color.YellowString(intDigits)
			decDigits = color.YellowString(decDigits)
		}
		table.Append([]string{n.Table, n.Column, nullFloat(n.MinVal), nullFloat(n.MaxVal), intDigits, decDigits})
	}
	table.Render()

	renderSection(w, "ROW COUNTS")
	table = newTable(w, "Table", "Rows")
	for _, c := range report.Counts {
		table.Append([]string{c.Table, strconv.FormatInt(c.Count, 10)})
	}
	table.Render()

	fmt.Fprintln(w)
	if report.HasFindings() {
		msg := "Findings detected: some values will not survive extraction as-is"
		if useColor {
			msg = color.RedString(msg)
		}
		fmt.Fprintln(w, msg)
	} else {
		msg := "No incompatible values found"
		if useColor {
			msg = color.GreenString(msg)
		}
		fmt.Fprintln(w, msg)
	}
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func renderSection(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
}

func nullString(v sql.NullString) string {
	if !v.Valid {
		return "-"
	}
	return v.String
}

func nullInt(v sql.NullInt64) string {
	if !v.Valid {
		return "-"
	}
	return strconv.FormatInt(v.Int64, 10)
}

func nullFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return "-"
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}
