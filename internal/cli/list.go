package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/dictamen/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored statutes, dictámenes, or runs",
		Run:   runList,
	}

	cmd.Flags().String("kind", "statutes", "What to list: statutes, dictamenes, runs")
	cmd.Flags().String("statute-id", "", "Only runs of this statute version")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("keys-only", false, "Only output keys (or run ids)")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")
	statuteID, _ := cmd.Flags().GetString("statute-id")
	limit, _ := cmd.Flags().GetInt("limit")
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	switch kind {
	case "statutes", "statute", "dictamenes", "dictamen":
		list := s.ListStatutes
		if kind == "dictamenes" || kind == "dictamen" {
			list = s.ListDictamenes
		}
		recs, err := list(ctx, store.ListParams{Limit: limit})
		if err != nil {
			exitErr("list", err)
		}
		if keysOnly {
			for _, r := range recs {
				fmt.Fprintf(w, "%s\tv%d\n", r.Key, r.Version)
			}
			return
		}
		if err := emit(w, recs, "json", ""); err != nil {
			exitErr("write result", err)
		}
	case "runs", "run":
		runs, err := s.ListRuns(ctx, store.ListRunsParams{StatuteID: statuteID, Limit: limit})
		if err != nil {
			exitErr("list", err)
		}
		if keysOnly {
			for _, r := range runs {
				fmt.Fprintln(w, r.ID)
			}
			return
		}
		if err := emit(w, runs, "json", ""); err != nil {
			exitErr("write result", err)
		}
	default:
		exitErr("list", fmt.Errorf("unknown kind %q (valid: statutes, dictamenes, runs)", kind))
	}
}
