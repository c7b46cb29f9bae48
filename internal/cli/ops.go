package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/dictamen/internal/store"
)

func init() {
	opsCmd := &cobra.Command{
		Use:   "ops",
		Short: "Store and retrieve dictamen operation lists",
	}

	put := &cobra.Command{
		Use:   "put FILE...",
		Short: "Store operation files as one dictamen",
		Long:  "Store one or more operation JSON files, concatenated in argument order, under a single key.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runOpsPut,
	}
	put.Flags().StringP("key", "k", "", "Key (default: first file name)")
	put.Flags().String("name", "", "Dictamen name")

	get := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a stored dictamen",
		Run:   runOpsGet,
	}
	get.Flags().StringP("key", "k", "", "Key (required)")
	get.Flags().Bool("history", false, "Return all versions (newest first)")
	get.Flags().Int("version", 0, "Specific version number")
	get.MarkFlagRequired("key")

	opsCmd.AddCommand(put, get)
	RootCmd.AddCommand(opsCmd)
}

func runOpsPut(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	name, _ := cmd.Flags().GetString("name")
	if key == "" {
		if args[0] == "-" {
			exitErr("ops put", fmt.Errorf("--key is required when reading stdin"))
		}
		key = keyFromPath(args[0])
	}

	ops, err := readOperations(args)
	if err != nil {
		exitErr("read operations", err)
	}
	for i, op := range ops {
		if err := op.Validate(); err != nil {
			exitErr("ops put", fmt.Errorf("operaciones[%d]: %w", i, err))
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := s.PutDictamen(cmd.Context(), store.PutDictamenParams{Key: key, Name: name, Operations: ops})
	if err != nil {
		exitErr("ops put", err)
	}

	if err := emit(cmd.OutOrStdout(), rec.Record, "json", ""); err != nil {
		exitErr("write result", err)
	}
}

func runOpsGet(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	history, _ := cmd.Flags().GetBool("history")
	version, _ := cmd.Flags().GetInt("version")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	recs, err := s.GetDictamen(cmd.Context(), store.GetParams{Key: key, History: history, Version: version})
	if err != nil {
		exitErr("ops get", err)
	}

	var result any = recs[0]
	if history || len(recs) > 1 {
		result = recs
	}
	if err := emit(cmd.OutOrStdout(), result, "json", ""); err != nil {
		exitErr("write result", err)
	}
}
