package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string        `json:"db_path"`
	DBSizeBytes     int64         `json:"db_size_bytes"`
	Statutes        int           `json:"statutes"`
	Dictamenes      int           `json:"dictamenes"`
	TotalDocuments  int           `json:"total_documents"`
	ActiveDocuments int           `json:"active_documents"`
	Runs            int           `json:"runs"`
	RunArticles     int           `json:"run_articles"`
	Statuses        []StatusStats `json:"statuses"`
}

// StatusStats counts indexed run articles per status.
type StatusStats struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&st.TotalDocuments)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE deleted_at IS NULL`).Scan(&st.ActiveDocuments)
	s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT key) FROM documents WHERE kind = 'statute' AND deleted_at IS NULL`).Scan(&st.Statutes)
	s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT key) FROM documents WHERE kind = 'dictamen' AND deleted_at IS NULL`).Scan(&st.Dictamenes)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.Runs)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run_articles`).Scan(&st.RunArticles)

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) AS cnt
		FROM run_articles
		GROUP BY status ORDER BY cnt DESC, status`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ss StatusStats
		rows.Scan(&ss.Status, &ss.Count)
		st.Statuses = append(st.Statuses, ss)
	}

	return st, nil
}
