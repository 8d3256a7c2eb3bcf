package diagnose

import "whdiag/pkg/models"

// DefaultSchema is the warehouse schema the audited tables live in.
const DefaultSchema = "COCCDM"

// DefaultTables returns the built-in check configuration. Order matters:
// emitted sections iterate the slice in declaration order, so output stays
// byte-identical between runs.
func DefaultTables() []models.TableCheck {
	return []models.TableCheck{
		{
			Name:           "WH_LOANS",
			DateFilterCol:  "RUNDATE",
			DateColumns:    []string{"RUNDATE", "ORIGDATE", "DATEMAT", "PAIDOFFDATE", "DATELASTMAINT", "ADDDATE", "STOPDATE"},
			NumericColumns: []string{"ORIGBAL", "NOTEBAL", "BOOKBALANCE", "AVAILBALAMT", "COBAL", "PCTPARTSOLD", "LCRATE", "OLDPI", "PF"},
		},
		{
			Name:           "WH_ACCTCOMMON",
			DateFilterCol:  "EFFDATE",
			DateColumns:    []string{"EFFDATE", "CONTRACTDATE", "DATEMAT", "CLOSEDATE", "DATELASTMAINT"},
			NumericColumns: []string{"BOOKBALANCE", "AVAILBAL", "YTDINTPD", "YTDINTACC", "INTRATE"},
		},
		{
			Name:           "WH_ACCT",
			DateFilterCol:  "RUNDATE",
			DateColumns:    []string{"RUNDATE", "DATEMAT", "EFFDATE", "DATELASTMAINT"},
			NumericColumns: []string{"BOOKBALANCE", "AVAILBAL", "INTRATE"},
		},
	}
}
