package model

import "time"

// Document kinds kept by the store.
const (
	KindStatute  = "statute"
	KindDictamen = "dictamen"
)

// Record is the stored envelope of a versioned statute or dictamen.
type Record struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Key        string     `json:"key"`
	Name       string     `json:"name,omitempty"`
	Number     string     `json:"number,omitempty"`
	Version    int        `json:"version"`
	Supersedes string     `json:"supersedes,omitempty"`
	Items      int        `json:"items"` // articles of a statute, operations of a dictamen
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// StatuteRecord is a stored statute.
type StatuteRecord struct {
	Record
	Statute *Statute `json:"statute,omitempty"`
}

// DictamenRecord is a stored operation list.
type DictamenRecord struct {
	Record
	Operations []Operation `json:"operations,omitempty"`
}

// Run is one stored reconciliation.
type Run struct {
	ID          string    `json:"id"`
	StatuteID   string    `json:"statute_id"`
	DictamenID  string    `json:"dictamen_id"`
	Policy      string    `json:"policy"`
	Summary     Summary   `json:"summary"`
	Diagnostics int       `json:"diagnostics"`
	CreatedAt   time.Time `json:"created_at"`
	View        *View     `json:"view,omitempty"`
}

// RunArticle is the indexed row of one reconciled article of a run.
type RunArticle struct {
	RunID         string `json:"run_id"`
	Seq           int    `json:"seq"`
	ArticleID     string `json:"article_id"`
	Label         string `json:"label"`
	Status        Status `json:"status"`
	Estado        string `json:"estado"`
	TitleNumber   string `json:"title_number"`
	ChapterNumber string `json:"chapter_number,omitempty"`
	OriginalText  string `json:"original_text,omitempty"`
	AmendedText   string `json:"amended_text,omitempty"`
}
