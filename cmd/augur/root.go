package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/augur/internal/config"
	"github.com/aretw0/augur/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "augur",
	Short: "Augur augments ontology ABoxes from declarative directives",
	Long: `Augur runs directive packs over YAML ontologies, asserting classes,
properties and reified individuals wherever the pack functions hold.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("backend") {
			b, _ := cmd.Flags().GetString("backend")
			loaded.Backend = config.Backend(b)
			if err := loaded.Validate(); err != nil {
				return err
			}
		}

		level, err := logging.ParseLevel(loaded.Log.Level)
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(loaded.Log.Format)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.NewWriter(os.Stderr, level, format)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("backend", "", "Run state backend: memory, file or redis")
}
