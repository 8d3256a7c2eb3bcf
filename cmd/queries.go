package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"whdiag/internal/config"
	"whdiag/internal/diagnose"
)

var (
	queriesSchema string
	queriesOutput string
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Print the diagnostic SQL script",
	Long: `Print the full diagnostic SQL script: invalid date checks, date
distributions, numeric precision metadata, extreme value checks, sample row
extraction, row counts, and the safe extraction queries.

Same output as running whdiag with no arguments, plus flag overrides.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return emitQueries(cmd.OutOrStdout(), queriesSchema, queriesOutput)
	},
}

func init() {
	rootCmd.AddCommand(queriesCmd)

	queriesCmd.Flags().StringVarP(&queriesSchema, "schema", "s", "", "Override the warehouse schema")
	queriesCmd.Flags().StringVarP(&queriesOutput, "output", "o", "", "Write the script to a file instead of stdout")
}

func emitQueries(w io.Writer, schemaOverride, outputPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	schema := cfg.Schema
	if schemaOverride != "" {
		schema = schemaOverride
	}

	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := diagnose.NewEmitter(f, schema, cfg.Tables).Emit(); err != nil {
			f.Close()
			return err
		}
		// A close failure means the script may be truncated on disk
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	return diagnose.NewEmitter(w, schema, cfg.Tables).Emit()
}
