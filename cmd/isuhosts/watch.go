package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/isuhosts/isuhosts/internal/config"
	"github.com/isuhosts/isuhosts/internal/logging"
)

func init() {
	rootCmd.AddCommand(newWatchCmd())
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Apply now and again whenever the config file changes",
		Long: `The watch command applies the configuration once, then watches the
config file and re-applies after every change until interrupted.

Example:
  isuhosts watch --config fleet.yaml --backup-dir backups`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return fmt.Errorf("watch requires --config")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	if err := syncFleet(cfg); err != nil {
		return err
	}

	manager := config.NewManager(configPath)
	err = manager.Watch(func(reloaded *config.Config) {
		next := *reloaded
		overlayFlags(cmd, &next)
		if err := config.ValidateConfig(&next); err != nil {
			logging.Error("reloaded config rejected", "path", manager.Path(), "error", err)
			return
		}
		if err := syncFleet(&next); err != nil {
			logging.Error("apply after reload failed", "error", err)
		}
	}, func(err error) {
		logging.Error("config reload failed", "path", manager.Path(), "error", err)
	})
	if err != nil {
		return err
	}
	defer manager.Stop()

	logging.Info("watching config", "path", manager.Path())
	<-ctx.Done()
	logging.Info("stopping watch")
	return nil
}

// syncFleet plans and applies every rewrite for cfg.
func syncFleet(cfg *config.Config) error {
	f, err := newFleet(cfg)
	if err != nil {
		return err
	}

	rewrites, err := f.PlanAll()
	if err != nil {
		return err
	}

	written, err := f.ApplyAll(rewrites)
	if err != nil {
		return err
	}

	logging.Info("fleet synced", "servers", len(rewrites), "written", written)
	return nil
}
