package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/dictamen/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Import statutes and dictámenes from an export",
		Long:  "Import records from JSON (file or stdin). Expects the format produced by export --all.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	r, closeFn, err := open(path)
	if err != nil {
		exitErr("open input", err)
	}
	data, err := io.ReadAll(r)
	closeFn()
	if err != nil {
		exitErr("read input", err)
	}

	var bundle store.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), &bundle)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d}`+"\n", imported)
}
