// Package config provides the config parent command and subcommands.
package config

import (
	"github.com/spf13/cobra"

	"github.com/GigaGaiaWorld/codex/cmd/config/subcommands"
)

// ConfigCmd is the parent command for all config-related subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pl2cy configuration",
	Long: "Manage pl2cy configuration.\n\n" +
		"The config command allows you to create, view, edit, validate, and reset the " +
		"pl2cy configuration. Configuration is stored in a YAML file located at " +
		"~/.config/pl2cy/config.yaml by default. Every key can also be set through a " +
		"PL2CY_ environment variable, for example PL2CY_APPLY_BATCH_SIZE.",
}

func init() {
	// Register subcommands
	ConfigCmd.AddCommand(subcommands.InitCmd)
	ConfigCmd.AddCommand(subcommands.ShowCmd)
	ConfigCmd.AddCommand(subcommands.EditCmd)
	ConfigCmd.AddCommand(subcommands.ResetCmd)
	ConfigCmd.AddCommand(subcommands.ValidateCmd)
}
