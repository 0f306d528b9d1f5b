package main

import (
	"github.com/spf13/cobra"

	"canvassak/internal/config"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize canvas-sak configuration",
	Long: `Show the resolved configuration, or write a starter config file with
--init. The config file holds the Canvas base URL and access token;
CANVAS_URL and CANVAS_ACCESS_TOKEN environment variables override it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configInit {
			path, err := config.WriteTemplate()
			if err != nil {
				return err
			}
			output("wrote starter config to %s", path)
			output("edit it with your Canvas URL and access token")
			return nil
		}

		path, err := config.Path()
		if err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		output("config file: %s", path)
		output("url: %s", cfg.URL)
		// Never echo the token; its presence is all that matters.
		output("token: configured")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write a starter config file")
}
