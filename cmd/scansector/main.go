// Package main implements the scansector command line tool: a scanner and
// grid visualizer for Starsector campaign saves.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scansector/cmd/scansector/tui"
	"scansector/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	themeFlag  string

	// Loaded configuration, available to every command.
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scansector",
	Short: "Scansector - Starsector system scanner",
	Long: `Scansector parses a Starsector campaign save and renders a grid
visualization of the celestial objects in each star system, with
mission-relevant objects highlighted.

Run without arguments to start the interactive browser: pick a save,
filter and select a system, and watch the map update as you play.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive browser.
		return tui.Run(cfg)
	},
}

// rootPersistentPreRunE is set on rootCmd in init; defining it in the
// composite literal above would create an initialization cycle, since the
// closure refers to rootCmd itself.
func rootPersistentPreRunE(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if themeFlag != "" {
		cfg.Theme = themeFlag
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// The interactive browser owns the terminal; keep the logger quiet
	// there.
	if cmd == rootCmd {
		logger = zap.NewNop()
		return nil
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(logLevel())
	logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// logLevel resolves --verbose against the configured level.
func logLevel() zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	switch cfg.Logging.Level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func init() {
	rootCmd.PersistentPreRunE = rootPersistentPreRunE

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file location")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "Color theme: dark, light or auto")

	rootCmd.AddCommand(systemsCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
