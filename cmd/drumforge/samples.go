package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drumforge/internal/config"
	"drumforge/internal/library"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List the indexed sample library",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		lib := library.New(cfg.SampleDir)
		if err := lib.Scan(); err != nil {
			return err
		}
		for _, s := range lib.List() {
			fmt.Printf("%-10s %8d  %s\n", s.Category, s.Size, s.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(samplesCmd)
}
