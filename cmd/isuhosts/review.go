package main

import (
	"github.com/spf13/cobra"

	"github.com/isuhosts/isuhosts/internal/tui"
)

func init() {
	rootCmd.AddCommand(newReviewCmd())
}

func newReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review [ip...]",
		Short: "Review planned rewrites interactively before applying",
		Long: `The review command opens a terminal UI listing every server with the
diff of its planned hosts rewrite. Press 'a' to apply all rewrites or 'q'
to quit without writing anything.`,
		RunE: runReview,
	}
}

func runReview(cmd *cobra.Command, args []string) error {
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

	result, err := tui.Review(rewrites, f.ApplyAll)
	if err != nil {
		return err
	}
	if result.Err != nil {
		return result.Err
	}

	if result.Applied {
		printInfo("✓ Rewrote %d of %d hosts file(s)\n", result.Written, len(rewrites))
	} else {
		printInfo("No changes applied.\n")
	}
	return nil
}
