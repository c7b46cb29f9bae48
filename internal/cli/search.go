package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/dictamen/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search reconciled articles by keyword",
		Long:  "Search the labels and the original and amended text of articles in stored runs.",
		Run:   runSearch,
	}

	cmd.Flags().String("run", "", "Filter by run id")
	cmd.Flags().String("status", "", "Filter by status (unchanged, substituted, incorporated, repealed or the Spanish estado)")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	runID, _ := cmd.Flags().GetString("run")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.SearchArticles(cmd.Context(), store.SearchParams{
		RunID:  runID,
		Query:  query,
		Status: status,
		Limit:  limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return
	}

	if err := emit(cmd.OutOrStdout(), results, "json", ""); err != nil {
		exitErr("write result", err)
	}
}
