package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/dictamen/internal/model"
)

// readStatute decodes a statute file; "-" reads stdin.
func readStatute(path string) (*model.Statute, error) {
	r, closeFn, err := open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	st, err := model.DecodeStatute(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}

// readOperations decodes paths concurrently and concatenates the lists in
// path order.
func readOperations(paths []string) ([]model.Operation, error) {
	lists := make([][]model.Operation, len(paths))
	var g errgroup.Group
	g.SetLimit(4)
	for i, p := range paths {
		g.Go(func() error {
			r, closeFn, err := open(p)
			if err != nil {
				return err
			}
			defer closeFn()
			ops, err := model.DecodeOperations(r)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			lists[i] = ops
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Operation
	for _, ops := range lists {
		all = append(all, ops...)
	}
	return all, nil
}

func open(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// keyFromPath derives a store key from a file name ("dir/ley_20744.json" -> "ley_20744").
func keyFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// render encodes v as indented JSON or as YAML with the same field names.
func render(v any, format string) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	switch format {
	case "", "json":
		return append(b, '\n'), nil
	case "yaml":
		var tree any
		if err := json.Unmarshal(b, &tree); err != nil {
			return nil, err
		}
		return yaml.Marshal(tree)
	default:
		return nil, fmt.Errorf("unknown format %q (valid: json, yaml)", format)
	}
}

// emit writes v to out, or to stdout when out is empty.
func emit(w io.Writer, v any, format, out string) error {
	b, err := render(v, format)
	if err != nil {
		return err
	}
	if out == "" {
		_, err = w.Write(b)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return os.WriteFile(out, b, 0o644)
}
