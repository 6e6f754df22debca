package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "drumforge",
	Short: "Layered drum one-shot generator",
	Long: `drumforge combines body, transient and texture samples through a fixed
processing chain, renders finished one-shots offline through FFmpeg, and
previews the chain live while parameters are tweaked.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
