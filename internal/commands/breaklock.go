package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bookwright-dev/bookwright/internal/config"
	"github.com/bookwright-dev/bookwright/internal/lockguard"
)

func newBreakLockCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "break-lock <file>",
		Short: "Remove a stale lock left behind by a crashed process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(configPath)
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runBreakLock(path, cfg.OwnerProcess)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultFile+" if present)")

	return cmd
}

func runBreakLock(path, ownerProcess string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	lockPath := lockguard.LockPath(path)
	if _, err := os.Stat(lockPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("No lock on %s\n", path)
			return nil
		}
		return fmt.Errorf("checking lock: %w", err)
	}

	guard := lockguard.New(ownerProcess, logger)
	if err := guard.EnsureOpenable(path); err != nil {
		if errors.Is(err, lockguard.ErrOwnerRunning) {
			return fmt.Errorf("%s appears to be running; close it and retry", ownerProcess)
		}
		return err
	}

	fmt.Printf("Removed stale lock %s\n", lockPath)
	return nil
}
