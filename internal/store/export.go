package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/dictamen/internal/model"
)

// Bundle is a portable dump of stored statutes and dictámenes.
type Bundle struct {
	ExportedAt time.Time              `json:"exported_at"`
	Statutes   []model.StatuteRecord  `json:"statutes"`
	Dictamenes []model.DictamenRecord `json:"dictamenes"`
}

// ExportAll returns every non-deleted version, optionally filtered by kind.
func (s *SQLiteStore) ExportAll(ctx context.Context, kind string) (*Bundle, error) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	if kind != "" {
		where = append(where, "kind = ?")
		args = append(args, kind)
	}

	query := `SELECT ` + documentColumns + `, body
	          FROM documents WHERE ` + strings.Join(where, " AND ") + ` ORDER BY kind, key, version`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	b := &Bundle{
		ExportedAt: time.Now().UTC(),
		Statutes:   []model.StatuteRecord{},
		Dictamenes: []model.DictamenRecord{},
	}
	for rows.Next() {
		var body string
		r, err := scanRecord(rows, &body)
		if err != nil {
			return nil, err
		}
		switch r.Kind {
		case model.KindStatute:
			sr := model.StatuteRecord{Record: r}
			if err := json.Unmarshal([]byte(body), &sr.Statute); err != nil {
				return nil, fmt.Errorf("decode statute %s: %w", r.ID, err)
			}
			b.Statutes = append(b.Statutes, sr)
		case model.KindDictamen:
			dr := model.DictamenRecord{Record: r}
			if err := json.Unmarshal([]byte(body), &dr.Operations); err != nil {
				return nil, fmt.Errorf("decode dictamen %s: %w", r.ID, err)
			}
			b.Dictamenes = append(b.Dictamenes, dr)
		}
	}
	return b, rows.Err()
}

// Import stores every record of a bundle as a new version under its key.
// Records are applied in bundle order so relative version order survives.
func (s *SQLiteStore) Import(ctx context.Context, b *Bundle) (int, error) {
	imported := 0
	for _, sr := range b.Statutes {
		if _, err := s.PutStatute(ctx, PutStatuteParams{Key: sr.Key, Statute: sr.Statute}); err != nil {
			return imported, fmt.Errorf("statute %s: %w", sr.Key, err)
		}
		imported++
	}
	for _, dr := range b.Dictamenes {
		if _, err := s.PutDictamen(ctx, PutDictamenParams{Key: dr.Key, Name: dr.Name, Operations: dr.Operations}); err != nil {
			return imported, fmt.Errorf("dictamen %s: %w", dr.Key, err)
		}
		imported++
	}
	return imported, nil
}
