package main

import (
	"fmt"

	"github.com/aretw0/augur"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of augur",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "augur version %s\n", augur.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
