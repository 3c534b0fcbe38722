package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newApplyCmd())
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply [ip...]",
		Short: "Rewrite every server's hosts file in place",
		Long: `The apply command plans the rewrite of every server's hosts file and,
only if all of them load and parse, writes them back in place.

Example:
  isuhosts apply 10.0.0.1 10.0.0.2 10.0.0.3
  isuhosts apply --backup-dir backups --config fleet.yaml`,
		RunE: runApply,
	}
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
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

	printInfo("✓ Rewrote %d of %d hosts file(s)\n", written, len(rewrites))
	return nil
}
