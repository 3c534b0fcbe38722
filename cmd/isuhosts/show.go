package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var showAll bool

func init() {
	cmd := newShowCmd()
	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Print every line of the planned file, numbered")
	rootCmd.AddCommand(cmd)
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <n> [ip...]",
		Short: "Show the managed entries planned for server n",
		Long: `The show command plans server n's rewrite and lists every alias of the
managed region with its planned address, its address in the current file,
and whether applying would add or update it.

Example:
  isuhosts show 2 --config fleet.yaml
  isuhosts show 1 --all 10.0.0.1 10.0.0.2`,
		Args: cobra.MinimumNArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
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

	rw, err := f.Plan(n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showAll {
		for i, l := range rw.Table.Lines() {
			fmt.Fprintf(out, "%4d  %s\n", i+1, l.String())
		}
		return nil
	}

	status, err := rw.Status()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%s)\n\n", rw.Name, rw.Path)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALIAS\tPLANNED\tCURRENT\tSTATE")
	fmt.Fprintln(w, "-----\t-------\t-------\t-----")
	for _, s := range status {
		current := "-"
		if s.Current.IsValid() {
			current = s.Current.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Alias, s.Planned, current, s.State)
	}
	return w.Flush()
}
