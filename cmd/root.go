package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	applycmd "github.com/GigaGaiaWorld/codex/cmd/apply"
	compilecmd "github.com/GigaGaiaWorld/codex/cmd/compile"
	configcmd "github.com/GigaGaiaWorld/codex/cmd/config"
	loadcmd "github.com/GigaGaiaWorld/codex/cmd/load"
	versioncmd "github.com/GigaGaiaWorld/codex/cmd/version"
	"github.com/GigaGaiaWorld/codex/internal/config"
	"github.com/GigaGaiaWorld/codex/internal/logging"
)

// logManager is the global logging manager, created in init() and upgraded after config loads
var logManager *logging.Manager

// Persistent flag variables.
var (
	rootConfigFile string
	rootLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "pl2cy",
	Short: "Compile fact files into property graph statements",
	Long: "pl2cy compiles files of ground facts into Cypher statements for a property graph.\n\n" +
		"Unary facts such as person(alice). become labels on entity nodes and binary facts " +
		"such as lives_in(alice, paris). become relationships between them. The compiled " +
		"statements are idempotent upserts: they can be written out as Cypher or JSON, or " +
		"applied directly to Neo4j or FalkorDB in ordered, retried transactional batches.",
	PersistentPreRunE: runInitialize,
}

func init() {
	// Create logging Manager in bootstrap mode (stderr text only)
	logManager = logging.NewManager()
	slog.SetDefault(logManager.Logger())

	rootCmd.PersistentFlags().StringVar(&rootConfigFile, "config", "", "Config file (default search: $PL2CY_CONFIG_DIR, ~/.config/pl2cy, .)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(compilecmd.CompileCmd)
	rootCmd.AddCommand(applycmd.ApplyCmd)
	rootCmd.AddCommand(loadcmd.LoadCmd)
	rootCmd.AddCommand(configcmd.ConfigCmd)
	rootCmd.AddCommand(versioncmd.VersionCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	// Initialize config subsystem
	var err error
	if rootConfigFile != "" {
		err = config.InitFromPath(rootConfigFile)
	} else {
		err = config.Init()
	}
	if err != nil {
		return err
	}

	if rootLogLevel != "" {
		if _, ok := logging.ParseLevel(rootLogLevel); !ok {
			return fmt.Errorf("invalid log level %q; must be one of debug, info, warn, error", rootLogLevel)
		}
		config.Set("log_level", rootLogLevel)
	}

	// Upgrade logging after config is available
	logFile := config.GetPath("log_file")
	levelStr := config.GetString("log_level")
	level, ok := logging.ParseLevel(levelStr)
	if !ok {
		level = logging.DefaultLevel
		if levelStr != "" {
			logger.Warn("invalid log level configured, using default", "configured", levelStr, "default", "info")
		}
	}

	rotation := logging.WithRotation(config.GetInt("log_max_size_mb"), config.GetInt("log_max_backups"))
	if err := logManager.Upgrade(logFile, level, rotation); err != nil {
		logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
		// Don't return error - continue with bootstrap mode
	}

	return nil
}

// Execute runs the root command and prints a single error line on failure.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	// Ensure logging is properly closed on exit
	defer func() { _ = logManager.Close() }()

	// Interrupts cancel a running apply at its next blocking point
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	if err != nil {
		cmd, _, _ := rootCmd.Find(os.Args[1:])
		if cmd == nil {
			cmd = rootCmd
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !cmd.SilenceUsage {
			fmt.Fprintf(os.Stderr, "\n")
			cmd.SetOut(os.Stderr)
			_ = cmd.Usage()
		}

		return err
	}

	return nil
}
