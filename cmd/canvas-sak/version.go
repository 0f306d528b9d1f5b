package main

import (
	"github.com/spf13/cobra"
)

var (
	// Version is the current version (overridden by ldflags at build time)
	Version = "0.3.0"
	// Commit is the git revision the binary was built from (optional ldflag)
	Commit = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if Commit != "" {
			output("canvas-sak %s (%s)", Version, Commit)
			return
		}
		output("canvas-sak %s", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
