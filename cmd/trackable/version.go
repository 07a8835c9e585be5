package main

import (
	"fmt"

	"github.com/aretw0/trackable"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of trackable",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "trackable version %s\n", trackable.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
