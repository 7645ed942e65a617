// Package cmd holds the tetra command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tetra-engine/tetra/internal/config"
)

// NewRootCmd builds the tetra command tree.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		cfg        config.Config
	)

	rootCmd := &cobra.Command{
		Use:          "tetra",
		Short:        "Run and inspect tetra engine projects",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	current := func() config.Config { return cfg }
	rootCmd.AddCommand(
		newRunCmd(current),
		newStageCmd(current),
	)
	return rootCmd
}
