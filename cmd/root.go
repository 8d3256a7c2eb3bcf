package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"whdiag/internal/ui"
)

var (
	verbose bool
	quiet   bool

	rootCmd = &cobra.Command{
		Use:   "whdiag",
		Short: "Generate warehouse table diagnostic SQL",
		Long: `whdiag - Audit warehouse tables for dates and numbers that break the
downstream extraction's stricter types.

Run with no arguments to print the full diagnostic SQL script to stdout,
ready to paste into SQL Developer, TOAD, or any Oracle client.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return emitQueries(cmd.OutOrStdout(), "", "")
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home + "/.whdiag")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is okay; built-in checks apply
	}
}
