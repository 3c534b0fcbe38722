package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newBackupsCmd())
	rootCmd.AddCommand(newRestoreCmd())
}

func newBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backups <n> [ip...]",
		Short: "List backups of server n's hosts file",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBackups,
	}
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <n> <backup> [ip...]",
		Short: "Restore server n's hosts file from a backup",
		Long: `The restore command replaces server n's hosts file with a backup listed
by the backups command. The current file is backed up first.

Example:
  isuhosts restore 2 hosts.20240102-030405.000.bak --config fleet.yaml`,
		Args: cobra.MinimumNArgs(2),
		RunE: runRestore,
	}
}

func parseServerIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid server index %q", s)
	}
	return n, nil
}

func runBackups(cmd *cobra.Command, args []string) error {
	n, err := parseServerIndex(args[0])
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args[1:])
	if err != nil {
		return err
	}
	f, err := newFleet(cfg)
	if err != nil {
		return err
	}

	backups, err := f.ListBackups(n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(backups) == 0 {
		fmt.Fprintf(out, "No backups for %s.\n", f.HostName(n))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODIFIED\tSIZE")
	fmt.Fprintln(w, "----\t--------\t----")
	for _, b := range backups {
		fmt.Fprintf(w, "%s\t%s\t%d\n", b.Name, time.Unix(b.Timestamp, 0).Format(time.DateTime), b.Size)
	}
	return w.Flush()
}

func runRestore(cmd *cobra.Command, args []string) error {
	n, err := parseServerIndex(args[0])
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args[2:])
	if err != nil {
		return err
	}
	f, err := newFleet(cfg)
	if err != nil {
		return err
	}

	if err := f.Restore(n, args[1]); err != nil {
		return err
	}

	printInfo("✓ Restored %s from %s\n", f.HostPath(n), args[1])
	return nil
}
