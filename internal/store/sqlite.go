package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/dictamen/internal/model"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		key         TEXT NOT NULL,
		name        TEXT,
		number      TEXT,
		body        TEXT NOT NULL,
		items       INTEGER NOT NULL DEFAULT 0,
		version     INTEGER NOT NULL DEFAULT 1,
		supersedes  TEXT,
		created_at  TEXT NOT NULL,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_documents_kind_key ON documents(kind, key);
	CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_documents_deleted ON documents(deleted_at);

	CREATE TABLE IF NOT EXISTS runs (
		id           TEXT PRIMARY KEY,
		statute_id   TEXT NOT NULL REFERENCES documents(id),
		dictamen_id  TEXT NOT NULL REFERENCES documents(id),
		policy       TEXT NOT NULL,
		view         TEXT NOT NULL,
		unchanged    INTEGER NOT NULL DEFAULT 0,
		substituted  INTEGER NOT NULL DEFAULT 0,
		incorporated INTEGER NOT NULL DEFAULT 0,
		repealed     INTEGER NOT NULL DEFAULT 0,
		diagnostics  INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_statute ON runs(statute_id);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

	CREATE TABLE IF NOT EXISTS run_articles (
		id             TEXT PRIMARY KEY,
		run_id         TEXT NOT NULL REFERENCES runs(id),
		seq            INTEGER NOT NULL,
		article_id     TEXT NOT NULL,
		label          TEXT NOT NULL,
		status         TEXT NOT NULL,
		title_number   TEXT NOT NULL,
		chapter_number TEXT,
		original_text  TEXT,
		amended_text   TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_run_articles_run ON run_articles(run_id, seq);
	CREATE INDEX IF NOT EXISTS idx_run_articles_status ON run_articles(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) PutStatute(ctx context.Context, p PutStatuteParams) (*model.StatuteRecord, error) {
	if p.Statute == nil {
		return nil, fmt.Errorf("statute is required")
	}
	rec, err := s.putDocument(ctx, model.KindStatute, p.Key, p.Statute.Name, p.Statute.Number, p.Statute, p.Statute.ArticleCount())
	if err != nil {
		return nil, err
	}
	return &model.StatuteRecord{Record: *rec, Statute: p.Statute}, nil
}

func (s *SQLiteStore) PutDictamen(ctx context.Context, p PutDictamenParams) (*model.DictamenRecord, error) {
	ops := p.Operations
	if ops == nil {
		ops = []model.Operation{}
	}
	rec, err := s.putDocument(ctx, model.KindDictamen, p.Key, p.Name, lawNumber(ops), ops, len(ops))
	if err != nil {
		return nil, err
	}
	return &model.DictamenRecord{Record: *rec, Operations: ops}, nil
}

// lawNumber returns the statute number the operations amend, when they agree on one.
func lawNumber(ops []model.Operation) string {
	var n string
	for _, op := range ops {
		if op.LawNumber == "" {
			continue
		}
		if n != "" && n != op.LawNumber {
			return ""
		}
		n = op.LawNumber
	}
	return n
}

func (s *SQLiteStore) putDocument(ctx context.Context, kind, key, name, number string, body any, items int) (*model.Record, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("key is required")
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}

	now := time.Now().UTC()
	id := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Latest version, deleted or not, so numbers never repeat
	var prevID string
	var prevVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT id, version FROM documents
		 WHERE kind = ? AND key = ?
		 ORDER BY version DESC LIMIT 1`, kind, key).Scan(&prevID, &prevVersion)

	version := 1
	var supersedes *string
	if err == nil {
		version = prevVersion + 1
		supersedes = &prevID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, kind, key, name, number, body, items, version, supersedes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, kind, key, name, number, string(b), items, version, supersedes, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", kind, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rec := &model.Record{
		ID:        id,
		Kind:      kind,
		Key:       key,
		Name:      name,
		Number:    number,
		Version:   version,
		Items:     items,
		CreatedAt: now,
	}
	if supersedes != nil {
		rec.Supersedes = *supersedes
	}
	return rec, nil
}

func (s *SQLiteStore) GetStatute(ctx context.Context, p GetParams) ([]model.StatuteRecord, error) {
	recs, bodies, err := s.getDocuments(ctx, model.KindStatute, p)
	if err != nil {
		return nil, err
	}
	out := make([]model.StatuteRecord, len(recs))
	for i := range recs {
		out[i].Record = recs[i]
		if err := json.Unmarshal([]byte(bodies[i]), &out[i].Statute); err != nil {
			return nil, fmt.Errorf("decode statute %s: %w", recs[i].ID, err)
		}
	}
	return out, nil
}

func (s *SQLiteStore) GetDictamen(ctx context.Context, p GetParams) ([]model.DictamenRecord, error) {
	recs, bodies, err := s.getDocuments(ctx, model.KindDictamen, p)
	if err != nil {
		return nil, err
	}
	out := make([]model.DictamenRecord, len(recs))
	for i := range recs {
		out[i].Record = recs[i]
		if err := json.Unmarshal([]byte(bodies[i]), &out[i].Operations); err != nil {
			return nil, fmt.Errorf("decode dictamen %s: %w", recs[i].ID, err)
		}
	}
	return out, nil
}

const documentColumns = `id, kind, key, name, number, items, version, supersedes, created_at, deleted_at`

func (s *SQLiteStore) getDocuments(ctx context.Context, kind string, p GetParams) ([]model.Record, []string, error) {
	var query string
	var args []interface{}

	if p.History {
		query = `SELECT ` + documentColumns + `, body
				 FROM documents WHERE kind = ? AND key = ? AND deleted_at IS NULL
				 ORDER BY version DESC`
		args = []interface{}{kind, p.Key}
	} else if p.Version > 0 {
		query = `SELECT ` + documentColumns + `, body
				 FROM documents WHERE kind = ? AND key = ? AND version = ? AND deleted_at IS NULL
				 LIMIT 1`
		args = []interface{}{kind, p.Key, p.Version}
	} else {
		query = `SELECT ` + documentColumns + `, body
				 FROM documents WHERE kind = ? AND key = ? AND deleted_at IS NULL
				 ORDER BY version DESC LIMIT 1`
		args = []interface{}{kind, p.Key}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var recs []model.Record
	var bodies []string
	for rows.Next() {
		var body string
		r, err := scanRecord(rows, &body)
		if err != nil {
			return nil, nil, err
		}
		recs = append(recs, r)
		bodies = append(bodies, body)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	if len(recs) == 0 {
		return nil, nil, fmt.Errorf("%s %s: %w", kind, p.Key, ErrNotFound)
	}
	return recs, bodies, nil
}

func (s *SQLiteStore) ListStatutes(ctx context.Context, p ListParams) ([]model.Record, error) {
	return s.listDocuments(ctx, model.KindStatute, p)
}

func (s *SQLiteStore) ListDictamenes(ctx context.Context, p ListParams) ([]model.Record, error) {
	return s.listDocuments(ctx, model.KindDictamen, p)
}

func (s *SQLiteStore) listDocuments(ctx context.Context, kind string, p ListParams) ([]model.Record, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	// Only the latest version of each key
	query := `
		SELECT d.id, d.kind, d.key, d.name, d.number, d.items, d.version, d.supersedes, d.created_at, d.deleted_at
		FROM documents d
		INNER JOIN (
			SELECT kind, key, MAX(version) AS max_ver
			FROM documents WHERE deleted_at IS NULL
			GROUP BY kind, key
		) latest ON d.kind = latest.kind AND d.key = latest.key AND d.version = latest.max_ver
		WHERE d.deleted_at IS NULL AND d.kind = ?
		ORDER BY d.created_at DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	if p.Kind != model.KindStatute && p.Kind != model.KindDictamen {
		return fmt.Errorf("unknown kind %q (valid: %s, %s)", p.Kind, model.KindStatute, model.KindDictamen)
	}

	if p.Hard {
		var ids []string
		q := `SELECT id FROM documents WHERE kind = ? AND key = ? ORDER BY version DESC`
		if !p.AllVersions {
			q = `SELECT id FROM documents WHERE kind = ? AND key = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`
		}
		rows, err := s.db.QueryContext(ctx, q, p.Kind, p.Key)
		if err != nil {
			return err
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		rows.Close()
		if len(ids) == 0 {
			return fmt.Errorf("%s %s: %w", p.Kind, p.Key, ErrNotFound)
		}
		return s.hardDelete(ctx, ids)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if p.AllVersions {
		res, err := s.db.ExecContext(ctx,
			`UPDATE documents SET deleted_at = ? WHERE kind = ? AND key = ? AND deleted_at IS NULL`,
			now, p.Kind, p.Key)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%s %s: %w", p.Kind, p.Key, ErrNotFound)
		}
		return nil
	}

	// Soft-delete latest version only
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE kind = ? AND key = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`,
		p.Kind, p.Key).Scan(&id)
	if err != nil {
		return fmt.Errorf("%s %s: %w", p.Kind, p.Key, ErrNotFound)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE documents SET deleted_at = ? WHERE id = ?`, now, id)
	return err
}

// hardDelete removes documents together with the runs that reference them.
func (s *SQLiteStore) hardDelete(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM run_articles WHERE run_id IN (SELECT id FROM runs WHERE statute_id = ? OR dictamen_id = ?)`, id, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE statute_id = ? OR dictamen_id = ?`, id, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecord reads documentColumns, plus any extra trailing destinations.
func scanRecord(row scanner, extra ...interface{}) (model.Record, error) {
	var r model.Record
	var name, number, supersedes, deletedAt sql.NullString
	var createdAt string

	dest := []interface{}{
		&r.ID, &r.Kind, &r.Key, &name, &number, &r.Items,
		&r.Version, &supersedes, &createdAt, &deletedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return r, err
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.Name = name.String
	r.Number = number.String
	if supersedes.Valid {
		r.Supersedes = supersedes.String
	}
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		r.DeletedAt = &t
	}
	return r, nil
}
