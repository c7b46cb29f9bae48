package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/dictamen/internal/model"
	"github.com/rcliao/dictamen/internal/reconcile"
	"github.com/rcliao/dictamen/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Apply a dictamen to a statute",
		Long: "Reconcile a statute against the operations of a dictamen and print the annotated view.\n" +
			"Inputs come from files (--statute, --ops) or from the store (--statute-key, --dictamen-key).\n" +
			"Several --ops files are concatenated in flag order.",
		Run: runReconcile,
	}

	cmd.Flags().String("statute", "", "Statute JSON file (\"-\" for stdin)")
	cmd.Flags().String("statute-key", "", "Stored statute key (or key to save --statute under)")
	cmd.Flags().StringArray("ops", nil, "Operations JSON file, repeatable")
	cmd.Flags().String("dictamen-key", "", "Stored dictamen key (or key to save --ops under)")
	cmd.Flags().String("name", "", "Dictamen name when saving")
	cmd.Flags().String("policy", "", "Target policy: explicit or text (default from config)")
	cmd.Flags().Bool("save", false, "Store the inputs and the run")
	cmd.Flags().StringP("out", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().StringP("format", "f", "json", "Output format: json or yaml")
	cmd.Flags().Bool("fail-on-diagnostics", false, "Exit with status 2 when the run has diagnostics")

	RootCmd.AddCommand(cmd)
}

func runReconcile(cmd *cobra.Command, args []string) {
	statuteFile, _ := cmd.Flags().GetString("statute")
	statuteKey, _ := cmd.Flags().GetString("statute-key")
	opsFiles, _ := cmd.Flags().GetStringArray("ops")
	dictamenKey, _ := cmd.Flags().GetString("dictamen-key")
	name, _ := cmd.Flags().GetString("name")
	policyFlag, _ := cmd.Flags().GetString("policy")
	save, _ := cmd.Flags().GetBool("save")
	out, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")
	failOnDiags, _ := cmd.Flags().GetBool("fail-on-diagnostics")

	if statuteFile == "" && statuteKey == "" {
		exitErr("reconcile", fmt.Errorf("--statute or --statute-key is required"))
	}
	if len(opsFiles) == 0 && dictamenKey == "" {
		exitErr("reconcile", fmt.Errorf("--ops or --dictamen-key is required"))
	}

	policy := cfg.TargetPolicy()
	if policyFlag != "" {
		p, err := reconcile.ParseTargetPolicy(policyFlag)
		if err != nil {
			exitErr("reconcile", err)
		}
		policy = p
	}

	var s *store.SQLiteStore
	needStore := save || (statuteFile == "" && statuteKey != "") || (len(opsFiles) == 0 && dictamenKey != "")
	if needStore {
		var err error
		s, err = openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()
	}

	ctx := cmd.Context()
	in, err := loadInputs(ctx, s, inputs{
		statuteFile: statuteFile,
		statuteKey:  statuteKey,
		opsFiles:    opsFiles,
		dictamenKey: dictamenKey,
		name:        name,
		save:        save,
	})
	if err != nil {
		exitErr("reconcile", err)
	}

	engine := reconcile.New(reconcile.Options{
		Policy:    policy,
		Overrides: cfg.ChapterOverrides(),
		Logger:    logger,
	})
	view, err := engine.Reconcile(in.statute, in.ops)
	if err != nil {
		exitErr("reconcile", err)
	}

	var result any = view
	if save {
		run, err := s.PutRun(ctx, store.PutRunParams{
			StatuteID:  in.statuteID,
			DictamenID: in.dictamenID,
			Policy:     policy.String(),
			View:       view,
		})
		if err != nil {
			exitErr("save run", err)
		}
		logger.Info("saved run", zap.String("run", run.ID))
		result = run
	}

	if err := emit(cmd.OutOrStdout(), result, format, out); err != nil {
		exitErr("write result", err)
	}

	if failOnDiags && len(view.Diagnostics) > 0 {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "%d diagnostics, %d operations skipped\n", len(view.Diagnostics), len(view.Skipped()))
		os.Exit(2)
	}
}

type inputs struct {
	statuteFile string
	statuteKey  string
	opsFiles    []string
	dictamenKey string
	name        string
	save        bool
}

type loaded struct {
	statute    *model.Statute
	ops        []model.Operation
	statuteID  string
	dictamenID string
}

// loadInputs reads files or stored documents, storing file inputs when saving.
func loadInputs(ctx context.Context, s store.Store, in inputs) (*loaded, error) {
	var l loaded

	switch {
	case in.statuteFile != "":
		st, err := readStatute(in.statuteFile)
		if err != nil {
			return nil, err
		}
		l.statute = st
		if in.save {
			key := in.statuteKey
			if key == "" {
				key = keyFromPath(in.statuteFile)
			}
			rec, err := s.PutStatute(ctx, store.PutStatuteParams{Key: key, Statute: st})
			if err != nil {
				return nil, fmt.Errorf("save statute: %w", err)
			}
			l.statuteID = rec.ID
		}
	default:
		recs, err := s.GetStatute(ctx, store.GetParams{Key: in.statuteKey})
		if err != nil {
			return nil, err
		}
		l.statute, l.statuteID = recs[0].Statute, recs[0].ID
	}

	switch {
	case len(in.opsFiles) > 0:
		ops, err := readOperations(in.opsFiles)
		if err != nil {
			return nil, err
		}
		l.ops = ops
		if in.save {
			key := in.dictamenKey
			if key == "" {
				key = keyFromPath(in.opsFiles[0])
			}
			rec, err := s.PutDictamen(ctx, store.PutDictamenParams{Key: key, Name: in.name, Operations: ops})
			if err != nil {
				return nil, fmt.Errorf("save dictamen: %w", err)
			}
			l.dictamenID = rec.ID
		}
	default:
		recs, err := s.GetDictamen(ctx, store.GetParams{Key: in.dictamenKey})
		if err != nil {
			return nil, err
		}
		l.ops, l.dictamenID = recs[0].Operations, recs[0].ID
	}

	return &l, nil
}
