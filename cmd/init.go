package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"whdiag/internal/config"
	"whdiag/internal/diagnose"
	"whdiag/internal/ui"
	"whdiag/pkg/models"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a starter configuration file seeded with the built-in table checks.

Edit the generated file to point the run command at your warehouse or to
adjust which tables and columns get audited. The file lands at
~/.whdiag/config.yaml unless WHDIAG_CONFIG overrides the location.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeStarterConfig(initForce)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}

func writeStarterConfig(force bool) error {
	if config.Exists() && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", config.GetConfigFile())
	}

	cfg := &models.Config{
		Schema: diagnose.DefaultSchema,
		Tables: diagnose.DefaultTables(),
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to write starter config: %w", err)
	}

	ui.ShowSuccess(fmt.Sprintf("Wrote %s", config.GetConfigFile()))
	return nil
}
