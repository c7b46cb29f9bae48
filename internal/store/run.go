package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rcliao/dictamen/internal/model"
	"github.com/rcliao/dictamen/internal/segment"
)

func (s *SQLiteStore) PutRun(ctx context.Context, p PutRunParams) (*model.Run, error) {
	if p.View == nil {
		return nil, fmt.Errorf("view is required")
	}
	if p.StatuteID == "" || p.DictamenID == "" {
		return nil, fmt.Errorf("statute and dictamen ids are required")
	}
	b, err := json.Marshal(p.View)
	if err != nil {
		return nil, fmt.Errorf("encode view: %w", err)
	}

	now := time.Now().UTC()
	run := &model.Run{
		ID:          s.newID(),
		StatuteID:   p.StatuteID,
		DictamenID:  p.DictamenID,
		Policy:      p.Policy,
		Summary:     p.View.Summary,
		Diagnostics: len(p.View.Diagnostics),
		CreatedAt:   now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sm := run.Summary
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, statute_id, dictamen_id, policy, view, unchanged, substituted, incorporated, repealed, diagnostics, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StatuteID, run.DictamenID, run.Policy, string(b),
		sm.Unchanged, sm.Substituted, sm.Incorporated, sm.Repealed, run.Diagnostics,
		now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_articles (id, run_id, seq, article_id, label, status, title_number, chapter_number, original_text, amended_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i, a := range p.View.Articles() {
		var chapter *string
		if a.ChapterNumber != "" {
			chapter = &a.ChapterNumber
		}
		if _, err := stmt.ExecContext(ctx,
			s.newID(), run.ID, i, a.ID.String(), a.Label, a.Status.String(), a.TitleNumber, chapter,
			contentText(a.Label, a.Original), contentText(a.Label, a.Amended)); err != nil {
			return nil, fmt.Errorf("insert article %s: %w", a.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	run.View = p.View
	return run, nil
}

// contentText renders an article version as one searchable replacement text.
func contentText(label string, c *model.Content) string {
	if c == nil {
		return ""
	}
	return segment.Render(label, *c)
}

const runColumns = `id, statute_id, dictamen_id, policy, unchanged, substituted, incorporated, repealed, diagnostics, created_at`

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	var view string
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+`, view FROM runs WHERE id = ?`, id)
	run, err := scanRun(row, &view)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	run.View = &model.View{}
	if err := json.Unmarshal([]byte(view), run.View); err != nil {
		return nil, fmt.Errorf("decode view %s: %w", id, err)
	}
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, p ListRunsParams) ([]model.Run, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	var args []interface{}
	if p.StatuteID != "" {
		query += ` WHERE statute_id = ?`
		args = append(args, p.StatuteID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func scanRun(row scanner, extra ...interface{}) (model.Run, error) {
	var r model.Run
	var createdAt string
	dest := []interface{}{
		&r.ID, &r.StatuteID, &r.DictamenID, &r.Policy,
		&r.Summary.Unchanged, &r.Summary.Substituted, &r.Summary.Incorporated, &r.Summary.Repealed,
		&r.Diagnostics, &createdAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return r, err
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return r, nil
}
