package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/bookwright-dev/bookwright/internal/agent"
	"github.com/bookwright-dev/bookwright/internal/book"
	"github.com/bookwright-dev/bookwright/internal/config"
	"github.com/bookwright-dev/bookwright/internal/ledger"
	"github.com/bookwright-dev/bookwright/internal/lockguard"
	"github.com/bookwright-dev/bookwright/internal/session"
	"github.com/bookwright-dev/bookwright/internal/tools"
)

func newAssistCommand() *cobra.Command {
	var configPath string
	var file string
	var write bool

	cmd := &cobra.Command{
		Use:   "assist [prompt...]",
		Short: "Start an interactive session with the AI assistant",
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
			return runAssist(cmd.Context(), cfg, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultFile+" if present)")
	cmd.Flags().StringVar(&file, "file", "", "ledger file to open at startup")
	cmd.Flags().BoolVar(&write, "write", false, "enable mutating tools")

	return cmd
}

func runAssist(ctx context.Context, cfg *config.Config, initialPrompt string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	mode := book.ModeReadOnly
	if cfg.Write {
		mode = book.ModeReadWrite
	}

	guard := lockguard.New(cfg.OwnerProcess, logger)
	mgr := session.NewManager(mode, guard, logger)
	mgr.SetConfiguredPath(cfg.LedgerFile)
	defer mgr.ShutdownCleanup()

	if cfg.LedgerFile != "" {
		if err := mgr.Open(cfg.LedgerFile, true); err != nil {
			return fmt.Errorf("opening %s: %w", cfg.LedgerFile, err)
		}
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fmt.Errorf("initializing chat client: %w", err)
	}

	svc := ledger.NewService(mgr)
	a := agent.New(os.Stdout, os.Stdin, cfg.Model, tools.Registry(svc, cfg.Write))

	var prompts []string
	if initialPrompt != "" {
		prompts = append(prompts, initialPrompt)
	}
	return a.Run(ctx, client, prompts...)
}
