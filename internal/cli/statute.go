package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/dictamen/internal/store"
)

func init() {
	statuteCmd := &cobra.Command{
		Use:   "statute",
		Short: "Store and retrieve statutes",
	}

	put := &cobra.Command{
		Use:   "put FILE",
		Short: "Store a statute file",
		Long:  "Store a statute JSON file (\"-\" for stdin). An existing key gets a new version.",
		Args:  cobra.ExactArgs(1),
		Run:   runStatutePut,
	}
	put.Flags().StringP("key", "k", "", "Key (default: file name)")

	get := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a stored statute",
		Run:   runStatuteGet,
	}
	get.Flags().StringP("key", "k", "", "Key (required)")
	get.Flags().Bool("history", false, "Return all versions (newest first)")
	get.Flags().Int("version", 0, "Specific version number")
	get.Flags().Bool("meta", false, "Omit the statute body")
	get.MarkFlagRequired("key")

	statuteCmd.AddCommand(put, get)
	RootCmd.AddCommand(statuteCmd)
}

func runStatutePut(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	if key == "" {
		if args[0] == "-" {
			exitErr("statute put", fmt.Errorf("--key is required when reading stdin"))
		}
		key = keyFromPath(args[0])
	}

	st, err := readStatute(args[0])
	if err != nil {
		exitErr("read statute", err)
	}
	if err := st.Validate(); err != nil {
		exitErr("statute put", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := s.PutStatute(cmd.Context(), store.PutStatuteParams{Key: key, Statute: st})
	if err != nil {
		exitErr("statute put", err)
	}

	// Echo the envelope only
	if err := emit(cmd.OutOrStdout(), rec.Record, "json", ""); err != nil {
		exitErr("write result", err)
	}
}

func runStatuteGet(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	history, _ := cmd.Flags().GetBool("history")
	version, _ := cmd.Flags().GetInt("version")
	metaOnly, _ := cmd.Flags().GetBool("meta")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	recs, err := s.GetStatute(cmd.Context(), store.GetParams{
		Key:     key,
		History: history,
		Version: version,
	})
	if err != nil {
		exitErr("statute get", err)
	}
	if metaOnly {
		for i := range recs {
			recs[i].Statute = nil
		}
	}

	var result any = recs[0]
	if history || len(recs) > 1 {
		result = recs
	}
	if err := emit(cmd.OutOrStdout(), result, "json", ""); err != nil {
		exitErr("write result", err)
	}
}
