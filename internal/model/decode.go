package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeStatute reads a statute file, either wrapped under "ley" or bare.
func DecodeStatute(r io.Reader) (*Statute, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("decode statute: %w", err)
	}
	if raw, ok := probe["ley"]; ok {
		b = raw
	}
	var st Statute
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode statute: %w", err)
	}
	return &st, nil
}

// DecodeOperations reads a JSON array of operations. A top-level object with
// an "operaciones" array is accepted too.
func DecodeOperations(r io.Reader) ([]Operation, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var wrapped struct {
			Operations []Operation `json:"operaciones"`
		}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return nil, fmt.Errorf("decode operations: %w", err)
		}
		return wrapped.Operations, nil
	}
	var ops []Operation
	if err := json.Unmarshal(b, &ops); err != nil {
		return nil, fmt.Errorf("decode operations: %w", err)
	}
	return ops, nil
}
