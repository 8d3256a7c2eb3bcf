package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"whdiag/internal/config"
	"whdiag/internal/runner"
	"whdiag/internal/ui"
	"whdiag/pkg/errors"
	"whdiag/pkg/models"
)

var (
	runTimeout        time.Duration
	runFailOnFindings bool
	runNoColor        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the diagnostic checks against the warehouse",
	Long: `Connect to the warehouse configured in the config file and execute the
config-driven diagnostic checks directly, rendering the results as tables.

Connection settings left empty by the config file fall back to a
config.yaml found in the current directory or ~/.whdiag.

The sample-row and safe extraction queries are not executed; those belong to
the extraction job and are only ever emitted as text.`,
	Args: cobra.NoArgs,
	RunE: runChecks,
}

func init() {
	rootCmd.AddCommand(runCmd)
	registerRunFlags(runCmd.Flags())
}

func registerRunFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&runTimeout, "timeout", 5*time.Minute, "Overall timeout for the check run")
	fs.BoolVar(&runFailOnFindings, "fail-on-findings", false, "Exit non-zero when checks flag incompatible data")
	fs.BoolVar(&runNoColor, "no-color", false, "Disable colored output")
}

// resolveConnection fills connection settings left empty by the config file
// from viper's search path (./config.yaml or ~/.whdiag/config.yaml).
func resolveConnection(conn *models.Connection) {
	if conn.Account == "" {
		conn.Account = viper.GetString("connection.account")
	}
	if conn.Username == "" {
		conn.Username = viper.GetString("connection.username")
	}
	if conn.Password == "" {
		conn.Password = viper.GetString("connection.password")
	}
	if conn.Database == "" {
		conn.Database = viper.GetString("connection.database")
	}
	if conn.Schema == "" {
		conn.Schema = viper.GetString("connection.schema")
	}
	if conn.Warehouse == "" {
		conn.Warehouse = viper.GetString("connection.warehouse")
	}
	if conn.Role == "" {
		conn.Role = viper.GetString("connection.role")
	}
}

func runChecks(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	resolveConnection(&cfg.Connection)

	u := ui.NewUI(verbose, quiet)
	u.Header("Warehouse Diagnostics")
	u.VerbosePrintf("Schema: %s, tables: %d\n", cfg.Schema, len(cfg.Tables))

	service := runner.NewService(cfg.Connection, runTimeout)
	if err := service.Connect(); err != nil {
		return err
	}
	defer service.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	report, err := service.RunChecks(ctx, cfg.Schema, cfg.Tables)
	if err != nil {
		return err
	}

	runner.RenderReport(cmd.OutOrStdout(), report, !runNoColor)

	if report.HasFindings() {
		if runFailOnFindings {
			return errors.New(errors.ErrCodeInvalidInput, "diagnostic checks flagged incompatible data").
				WithSuggestions("Review the findings above", "Use the safe extraction queries for the affected tables")
		}
		u.Warning("Some values will need remediation before extraction")
		return nil
	}

	u.Success("All checks passed")
	return nil
}
