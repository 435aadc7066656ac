package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "rebuild the index file from the collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.engine.BuildIndex(); err != nil {
			return err
		}

		idx := a.engine.Index()
		fmt.Fprintf(cmd.OutOrStdout(), "Index written to %s with %d terms over %d documents.\n",
			a.cfg.IndexPath, idx.Len(), idx.TotalNumOfDoc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
