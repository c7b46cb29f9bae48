package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a run view or the whole store",
		Long: "Export the reconciled view of a run (--run) as JSON or YAML, or dump every stored\n" +
			"statute and dictamen version (--all) in the format read by import.",
		Run: runExport,
	}

	cmd.Flags().String("run", "", "Run id to export")
	cmd.Flags().Bool("all", false, "Export all stored statutes and dictámenes")
	cmd.Flags().String("kind", "", "With --all, only statute or dictamen records")
	cmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	runID, _ := cmd.Flags().GetString("run")
	all, _ := cmd.Flags().GetBool("all")
	kind, _ := cmd.Flags().GetString("kind")
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	if (runID == "") == !all {
		exitErr("export", fmt.Errorf("exactly one of --run or --all is required"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var result any
	if all {
		b, err := s.ExportAll(cmd.Context(), kind)
		if err != nil {
			exitErr("export", err)
		}
		result = b
	} else {
		run, err := s.GetRun(cmd.Context(), runID)
		if err != nil {
			exitErr("export", err)
		}
		result = run.View
	}

	if err := emit(cmd.OutOrStdout(), result, format, out); err != nil {
		exitErr("export", err)
	}
}
