package models

type Config struct {
	Schema     string       `yaml:"schema"`
	Connection Connection   `yaml:"connection"`
	Tables     []TableCheck `yaml:"tables"`
}

// Connection holds warehouse connection settings used by the run command.
type Connection struct {
	Account   string `yaml:"account"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
	Warehouse string `yaml:"warehouse"`
	Role      string `yaml:"role"`
}

// TableCheck describes which columns of a warehouse table get audited.
// DateFilterCol is the snapshot column used to select a single load batch.
type TableCheck struct {
	Name           string   `yaml:"name"`
	DateFilterCol  string   `yaml:"date_filter_col"`
	DateColumns    []string `yaml:"date_columns"`
	NumericColumns []string `yaml:"numeric_columns"`
}
