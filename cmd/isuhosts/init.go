package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isuhosts/isuhosts/internal/config"
)

var initForce bool

func init() {
	cmd := newInitCmd()
	cmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(cmd)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <ip>...",
		Short: "Write a config file listing the given peers",
		Long: `The init command writes a YAML config file at --config holding the given
peers plus the defaults, overridden by any flags set on the command line.

Example:
  isuhosts init --config fleet.yaml --backup-dir backups 10.0.0.1 10.0.0.2`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return fmt.Errorf("init requires --config")
	}

	cfg := config.Default()
	overlayFlags(cmd, cfg)
	cfg.Peers = args

	if err := config.Create(configPath, cfg, initForce); err != nil {
		return err
	}

	printInfo("✓ Wrote %s with %d peer(s)\n", configPath, len(cfg.Peers))
	return nil
}
