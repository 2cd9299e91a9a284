package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/augur/pkg/adapters/mangle"
	"github.com/aretw0/augur/pkg/adapters/memory"
	"github.com/aretw0/augur/pkg/domain"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <ontology.yaml>",
	Short: "Evaluate a Datalog query over a YAML ontology",
	Long: `Evaluates a Mangle query against the ABox of the ontology and prints the
rows of the result predicate. The ABox is visible through instance_of/2,
object_value/3 and data_value/3.`,
	Example: `  augur query scene.yaml -e 'result(D) :- instance_of(D, "Driver").'`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("expr")
		path, _ := cmd.Flags().GetString("file")
		result, _ := cmd.Flags().GetString("result")

		if (text == "") == (path == "") {
			return errors.New("exactly one of --expr and --file is required")
		}
		if path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			text = string(data)
		}

		onto, err := memory.LoadFile(args[0])
		if err != nil {
			return err
		}

		engine := mangle.New(mangle.WithResultPredicate(result))
		rows, err := engine.Query(cmd.Context(), onto, domain.QuerySpec{Text: text})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, strings.Join(rows.Variables, "\t"))
		for _, row := range rows.Bindings {
			cells := make([]string, len(rows.Variables))
			for i, v := range rows.Variables {
				cells[i] = string(row[v])
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		logger.Debug("query evaluated", "rows", len(rows.Bindings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringP("expr", "e", "", "Inline query source")
	queryCmd.Flags().StringP("file", "f", "", "Read the query from this file")
	queryCmd.Flags().String("result", mangle.DefaultResult, "Predicate read back as rows")
}
