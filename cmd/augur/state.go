package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/augur/internal/cli"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/aretw0/augur/pkg/registry"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [ontology-id]...",
	Short: "Show the run records kept by the configured backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		backends, err := cli.OpenBackends(cfg)
		if err != nil {
			return err
		}
		defer backends.Close()

		ctx := cmd.Context()
		ids := args
		if len(ids) == 0 {
			if ids, err = backends.State.List(ctx); err != nil {
				return err
			}
		}

		records := make([]domain.RunRecord, 0, len(ids))
		for _, id := range ids {
			rec, err := backends.State.Load(ctx, id)
			if errors.Is(err, domain.ErrRunStateNotFound) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: not augmented\n", id)
				continue
			}
			if err != nil {
				return err
			}
			records = append(records, *rec)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [ontology-id]...",
	Short: "Forget run state and reified tuples",
	Long: `Clears the run records and the reified tuple ledger of the given ontologies,
or of every ontology when none is given. The next augment runs them again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backends, err := cli.OpenBackends(cfg)
		if err != nil {
			return err
		}
		defer backends.Close()

		engine, err := cli.NewEngine(cfg, registry.New(), backends, logger, domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		if err := engine.Reset(cmd.Context(), args...); err != nil {
			return err
		}
		logger.Info("reset", "ontologies", args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd, resetCmd)
}
