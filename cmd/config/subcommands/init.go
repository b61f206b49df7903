package subcommands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GigaGaiaWorld/codex/internal/config"
)

var (
	initForce bool
)

// InitCmd writes a configuration file populated with defaults.
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Long: "Write a configuration file with default values.\n\n" +
		"Creates the config file at the default location (or the --config path) with " +
		"every setting at its default. Credentials are not written; they are read from " +
		"the environment variables named by graph.uri_env, graph.username_env and " +
		"graph.password_env. An existing file is kept unless --force is given.",
	Example: `  # Create the default configuration
  pl2cy config init

  # Overwrite an existing configuration
  pl2cy config init --force`,
	PreRunE: validateInit,
	RunE:    runInit,
}

func init() {
	InitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}

func validateInit(cmd *cobra.Command, args []string) error {
	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.GetConfigPath()

	if config.ConfigExistsAt(configPath) && !initForce {
		return fmt.Errorf("config file already exists at %s; use --force to overwrite", configPath)
	}

	cfg := config.LoadWithDefaults()
	if err := config.Write(cfg, configPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", configPath)
	return nil
}
