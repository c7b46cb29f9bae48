package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rcliao/dictamen/internal/model"
)

// SearchParams holds parameters for searching reconciled articles.
type SearchParams struct {
	RunID  string
	Query  string
	Status string
	Limit  int
}

// SearchArticles finds run articles whose label or text contains the query.
func (s *SQLiteStore) SearchArticles(ctx context.Context, p SearchParams) ([]model.RunArticle, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	var where []string
	var args []interface{}

	if p.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, p.RunID)
	}
	if p.Status != "" {
		st, err := model.ParseStatus(p.Status)
		if err != nil {
			return nil, err
		}
		where = append(where, "status = ?")
		args = append(args, st.String())
	}
	if p.Query != "" {
		q := "%" + p.Query + "%"
		where = append(where, "(label LIKE ? OR original_text LIKE ? OR amended_text LIKE ?)")
		args = append(args, q, q, q)
	}
	if len(where) == 0 {
		return nil, fmt.Errorf("search needs a query, a status, or a run")
	}

	query := fmt.Sprintf(`
		SELECT run_id, seq, article_id, label, status, title_number, chapter_number, original_text, amended_text
		FROM run_articles
		WHERE %s
		ORDER BY run_id DESC, seq
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.RunArticle
	for rows.Next() {
		var a model.RunArticle
		var status string
		var chapter, original, amended sql.NullString
		if err := rows.Scan(&a.RunID, &a.Seq, &a.ArticleID, &a.Label, &status, &a.TitleNumber,
			&chapter, &original, &amended); err != nil {
			return nil, err
		}
		if err := a.Status.UnmarshalText([]byte(status)); err != nil {
			return nil, err
		}
		a.Estado = a.Status.Estado()
		a.ChapterNumber = chapter.String
		a.OriginalText = original.String
		a.AmendedText = amended.String
		results = append(results, a)
	}
	return results, rows.Err()
}
