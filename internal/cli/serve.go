package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/issuewatch/issuewatch/internal/audit"
	"github.com/issuewatch/issuewatch/internal/config"
	"github.com/issuewatch/issuewatch/internal/logging"
	"github.com/issuewatch/issuewatch/internal/mcp"
)

var (
	serveConfig  string
	serveAudit   string
	serveNoAudit bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to config YAML (defaults to environment variables)")
	serveCmd.Flags().StringVar(&serveAudit, "audit", audit.DefaultPath(), "Path to the invocation audit database")
	serveCmd.Flags().BoolVar(&serveNoAudit, "no-audit", false, "Disable the invocation audit log")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP tool server on stdio",
	Long:  "Runs issuewatch as an MCP (Model Context Protocol) server over stdio.\nExposes the tools: issues_list, issues_get, issues_create, issues_update, tracker_health.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// A .env file is optional; real environment variables win.
	godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	auditPath := serveAudit
	if serveNoAudit {
		auditPath = ""
	}

	srv, err := mcp.New(mcp.Options{
		Config:    cfg,
		Logger:    logger,
		AuditPath: auditPath,
	})
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	if serveConfig != "" {
		watcher, err := config.NewWatcher(serveConfig, logger, func(next *config.Config) {
			// Transport and limiter settings apply on next start; only the
			// fields safe to swap live are picked up here.
			logger.Info("config change accepted",
				zap.String("logLevel", next.LogLevel),
				zap.String("environment", next.Environment))
		})
		if err != nil {
			logger.Warn("config watching disabled", zap.Error(err))
		} else {
			go watcher.Run(ctx)
		}
	}

	logger.Info("issuewatch MCP server running on stdio",
		zap.String("baseUrl", cfg.BaseURL),
		zap.String("environment", cfg.Environment))

	return srv.Run(ctx)
}

// loadConfig reads the config file when --config is set, otherwise builds the
// config from environment variables.
func loadConfig() (*config.Config, error) {
	if serveConfig != "" {
		cfg, err := config.Load(serveConfig)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("configuration from environment: %w", err)
	}
	return cfg, nil
}
