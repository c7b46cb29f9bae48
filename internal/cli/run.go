package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Inspect stored reconciliation runs",
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Print a stored run with its view",
		Args:  cobra.ExactArgs(1),
		Run:   runRunGet,
	}
	get.Flags().Bool("view-only", false, "Print only the reconciled view")
	get.Flags().Bool("diagnostics", false, "Print only the diagnostics")

	runCmd.AddCommand(get)
	RootCmd.AddCommand(runCmd)
}

func runRunGet(cmd *cobra.Command, args []string) {
	viewOnly, _ := cmd.Flags().GetBool("view-only")
	diagsOnly, _ := cmd.Flags().GetBool("diagnostics")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	run, err := s.GetRun(cmd.Context(), args[0])
	if err != nil {
		exitErr("run get", err)
	}

	var result any = run
	switch {
	case diagsOnly:
		result = run.View.Diagnostics
	case viewOnly:
		result = run.View
	}
	if err := emit(cmd.OutOrStdout(), result, "json", ""); err != nil {
		exitErr("write result", err)
	}
}
