package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cashpilot/cockpit"
	"github.com/cashpilot/cockpit/api"
	bt "github.com/cashpilot/cockpit/bubbletea"
	"github.com/cashpilot/cockpit/config"
	"github.com/cashpilot/cockpit/session"
)

var (
	configPath string
	apiURL     string
	stateDir   string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "cockpit",
	Short: "Terminal chat client for the CashPilot assistant",
	Long: `cockpit connects to a CashPilot backend and provides a terminal chat
UI with sign in, conversation history and multi-agent replies.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/cockpit/config.toml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "CashPilot API base URL")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory for session state and logs")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP request timeout")
}

// loadConfig resolves the effective configuration: defaults, then the
// config file, then COCKPIT_* environment variables, then flags.
func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if stateDir != "" {
		cfg.StateDir = stateDir
	}
	if timeout > 0 {
		cfg.RequestTimeout = timeout
	}
	return cfg, nil
}

// newLogger opens the log file under the state directory. The TUI owns
// the terminal, so logs never go to stdout; if the file cannot be opened
// the client simply runs unlogged.
func newLogger(dir string) *zap.Logger {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(dir, "cockpit.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newClient(cfg config.Config, logger *zap.Logger) *api.Client {
	return api.New(
		api.WithBaseURL(cfg.APIBaseURL),
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.StateDir)
	defer func() { _ = logger.Sync() }()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := newClient(cfg, logger)
	store := session.NewStore(cfg.StateDir)
	model := bt.New(client, store, cockpit.DefaultTheme(), bt.WithLogger(logger))

	logger.Info("starting",
		zap.String("version", version),
		zap.String("api_base_url", cfg.APIBaseURL))

	if err := bt.Run(ctx, model); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}
