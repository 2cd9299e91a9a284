package main

import (
	"github.com/aretw0/augur/pkg/adapters/memory"
	"github.com/aretw0/augur/pkg/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <ontology.yaml>",
	Short: "Write the ABox of a YAML ontology as RDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		base, _ := cmd.Flags().GetString("base")

		onto, err := memory.LoadFile(args[0])
		if err != nil {
			return err
		}
		return export.New(base).Write(cmd.Context(), cmd.OutOrStdout(), onto, export.Format(format))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("format", string(export.FormatNTriples), "Output format: ntriples or turtle")
	exportCmd.Flags().String("base", export.DefaultBase, "Namespace for identifiers that are not IRIs")
}
