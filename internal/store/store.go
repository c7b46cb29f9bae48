// Package store provides the storage interface for statutes, dictámenes, and
// reconciliation runs, and its SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/dictamen/internal/model"
)

// ErrNotFound is returned when a key, version, or run does not exist.
var ErrNotFound = errors.New("not found")

// PutStatuteParams holds parameters for storing a statute.
type PutStatuteParams struct {
	Key     string
	Statute *model.Statute
}

// PutDictamenParams holds parameters for storing an operation list.
type PutDictamenParams struct {
	Key        string
	Name       string
	Operations []model.Operation
}

// GetParams holds parameters for retrieving a statute or dictamen.
type GetParams struct {
	Key     string
	History bool
	Version int // 0 means latest
}

// ListParams holds parameters for listing statutes or dictámenes.
type ListParams struct {
	Limit int
}

// PutRunParams holds parameters for storing a reconciliation.
type PutRunParams struct {
	StatuteID  string
	DictamenID string
	Policy     string
	View       *model.View
}

// ListRunsParams holds parameters for listing runs.
type ListRunsParams struct {
	StatuteID string
	Limit     int
}

// RmParams holds parameters for deleting a statute or dictamen.
type RmParams struct {
	Kind        string
	Key         string
	AllVersions bool
	Hard        bool
}

// Store defines the storage interface.
type Store interface {
	// PutStatute stores a statute under key, as a new version when the key exists.
	PutStatute(ctx context.Context, p PutStatuteParams) (*model.StatuteRecord, error)

	// GetStatute retrieves a statute by key.
	// Returns a slice (single element normally, multiple with History=true).
	GetStatute(ctx context.Context, p GetParams) ([]model.StatuteRecord, error)

	// ListStatutes lists the latest version of every statute.
	ListStatutes(ctx context.Context, p ListParams) ([]model.Record, error)

	// PutDictamen stores an operation list under key, versioned like statutes.
	PutDictamen(ctx context.Context, p PutDictamenParams) (*model.DictamenRecord, error)

	// GetDictamen retrieves an operation list by key.
	GetDictamen(ctx context.Context, p GetParams) ([]model.DictamenRecord, error)

	// ListDictamenes lists the latest version of every dictamen.
	ListDictamenes(ctx context.Context, p ListParams) ([]model.Record, error)

	// PutRun stores a reconciled view and indexes its articles.
	PutRun(ctx context.Context, p PutRunParams) (*model.Run, error)

	// GetRun retrieves a run with its view.
	GetRun(ctx context.Context, id string) (*model.Run, error)

	// ListRuns lists runs, newest first, without their views.
	ListRuns(ctx context.Context, p ListRunsParams) ([]model.Run, error)

	// SearchArticles finds reconciled articles by text.
	SearchArticles(ctx context.Context, p SearchParams) ([]model.RunArticle, error)

	// Rm soft-deletes (or hard-deletes) a statute or dictamen.
	Rm(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}
