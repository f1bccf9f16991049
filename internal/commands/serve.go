package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bookwright-dev/bookwright/internal/book"
	"github.com/bookwright-dev/bookwright/internal/config"
	"github.com/bookwright-dev/bookwright/internal/ledger"
	"github.com/bookwright-dev/bookwright/internal/lockguard"
	"github.com/bookwright-dev/bookwright/internal/rpc"
	"github.com/bookwright-dev/bookwright/internal/session"
	"github.com/bookwright-dev/bookwright/internal/tools"
)

func newServeCommand() *cobra.Command {
	var configPath string
	var file string
	var write bool
	var auditLog string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ledger tools over JSON-RPC on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("file") {
				cfg.LedgerFile = file
			}
			if cmd.Flags().Changed("write") {
				cfg.Write = write
			}
			if cmd.Flags().Changed("audit-log") {
				cfg.AuditLog = auditLog
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultFile+" if present)")
	cmd.Flags().StringVar(&file, "file", "", "ledger file to open at startup")
	cmd.Flags().BoolVar(&write, "write", false, "enable mutating tools")
	cmd.Flags().StringVar(&auditLog, "audit-log", "", "CSV file receiving one row per tool call")

	return cmd
}

// newLogger builds the process logger. Logs go to stderr: stdout carries
// the JSON-RPC stream and must stay clean.
func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	mode := book.ModeReadOnly
	serverName := "bookwright (read-only)"
	if cfg.Write {
		mode = book.ModeReadWrite
		serverName = "bookwright (read-write)"
	}

	if cfg.LedgerFile == "" {
		return fmt.Errorf("no ledger file configured (use --file, LEDGER_FILE, or %s)", config.DefaultFile)
	}

	guard := lockguard.New(cfg.OwnerProcess, logger)
	mgr := session.NewManager(mode, guard, logger)
	mgr.SetConfiguredPath(cfg.LedgerFile)
	defer mgr.ShutdownCleanup()

	if err := mgr.Open(cfg.LedgerFile, true); err != nil {
		return fmt.Errorf("opening %s: %w", cfg.LedgerFile, err)
	}

	svc := ledger.NewService(mgr)
	server := rpc.NewServer(serverName, tools.Registry(svc, cfg.Write), logger)
	if cfg.AuditLog != "" {
		server.WithAuditLog(cfg.AuditLog)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down on signal")
		return nil
	}
}
