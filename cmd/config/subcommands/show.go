package subcommands

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/GigaGaiaWorld/codex/internal/config"
)

var (
	showRaw    bool
	showFormat string
)

// ShowCmd displays the current configuration.
var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current configuration",
	Long: "Display the current configuration.\n\n" +
		"Shows the current pl2cy configuration values. By default, shows " +
		"the effective configuration with defaults and environment overrides " +
		"applied, as YAML or TOML. Use --raw to show only the contents of the " +
		"config file. Passwords are masked.",
	Example: `  # Show effective configuration
  pl2cy config show

  # Show effective configuration as TOML
  pl2cy config show --format toml

  # Show only explicitly set values
  pl2cy config show --raw`,
	PreRunE: validateShow,
	RunE:    runShow,
}

func init() {
	ShowCmd.Flags().BoolVar(&showRaw, "raw", false, "Show only explicitly configured values (no defaults)")
	ShowCmd.Flags().StringVar(&showFormat, "format", "yaml", "Output format: yaml or toml")
}

func validateShow(cmd *cobra.Command, args []string) error {
	if showFormat != "yaml" && showFormat != "toml" {
		return fmt.Errorf("invalid format %q; must be yaml or toml", showFormat)
	}

	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if showRaw {
		return showRawConfig(cmd)
	}
	return showEffectiveConfig(cmd)
}

func showRawConfig(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	// Read the config file directly
	configPath := config.GetConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "# No configuration file found")
			fmt.Fprintf(out, "# Default location: %s\n", configPath)
			return nil
		}
		return fmt.Errorf("failed to read config file; %w", err)
	}

	fmt.Fprintf(out, "# Configuration file: %s\n", configPath)
	fmt.Fprintln(out, string(data))
	return nil
}

func showEffectiveConfig(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Get()
	if err != nil {
		return err
	}
	if cfg.Graph.Password != "" {
		cfg.Graph.Password = "********"
	}

	var data []byte
	switch showFormat {
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to format configuration; %w", err)
	}

	source := config.ConfigFilePath()
	if source == "" {
		source = "none, defaults only"
	}
	fmt.Fprintln(out, "# Effective configuration (with defaults)")
	fmt.Fprintf(out, "# Config file: %s\n", source)
	fmt.Fprintln(out, string(data))
	return nil
}
