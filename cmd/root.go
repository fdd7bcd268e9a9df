package cmd

import (
	"github.com/spf13/cobra"
)

const (
	appName = "jobscore"
)

var (
	// Used for flags.
	configDir string

	rootCmd = &cobra.Command{
		Use:          appName,
		Short:        "jobscore serves job postings and scores candidate applications against them",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "directory containing config.yaml")
}
