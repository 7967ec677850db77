package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/config"
)

// initCmd: rethrow init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .rethrow.yaml configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Write(cfgFile, config.Default()); err != nil {
			return fmt.Errorf("failed to initialize config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", cfgFile)
		return nil
	},
}
