package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/isuhosts/isuhosts/internal/fleet"
)

var printDiff bool

func init() {
	cmd := newPrintCmd()
	cmd.Flags().BoolVar(&printDiff, "diff", false, "Print unified diffs instead of full files")
	rootCmd.AddCommand(cmd)
}

func newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print [ip...]",
		Short: "Print every rewritten hosts file without touching disk",
		Long: `The print command plans the rewrite of every server's hosts file and
writes the results to stdout, one file after another.

Example:
  isuhosts print 10.0.0.1 10.0.0.2 10.0.0.3
  isuhosts print --diff --config fleet.yaml`,
		RunE: runPrint,
	}
}

func runPrint(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	if !printDiff {
		return fleet.Print(out, rewrites)
	}

	for _, rw := range rewrites {
		diff, err := rw.UnifiedDiff()
		if err != nil {
			return err
		}
		if _, err := io.WriteString(out, diff); err != nil {
			return err
		}
	}
	return nil
}
