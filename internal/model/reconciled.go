package model

import (
	"fmt"

	"github.com/rcliao/dictamen/internal/ident"
)

// Status is the change status of a reconciled article.
type Status int

const (
	StatusUnchanged Status = iota
	StatusSubstituted
	StatusIncorporated
	StatusRepealed
)

var statusNames = [...]string{"unchanged", "substituted", "incorporated", "repealed"}

var statusEstados = [...]string{"sin_cambios", "sustituido", "incorporado", "derogado"}

// String returns the English status name.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Estado returns the Spanish status value consumed by the presentation layer.
func (s Status) Estado() string {
	if s < 0 || int(s) >= len(statusEstados) {
		return ""
	}
	return statusEstados[s]
}

// ParseStatus accepts either the English or the Spanish name.
func ParseStatus(v string) (Status, error) {
	for i := range statusNames {
		if v == statusNames[i] || v == statusEstados[i] {
			return Status(i), nil
		}
	}
	return StatusUnchanged, fmt.Errorf("unknown status %q", v)
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Content is the title, body, and incisos of one version of an article.
type Content struct {
	Title   string   `json:"title,omitempty"`
	Text    string   `json:"text"`
	Incisos []Inciso `json:"incisos,omitempty"`
}

// ReconciledArticle is an article annotated with its change status.
type ReconciledArticle struct {
	ID            ident.ID `json:"id"`
	Label         string   `json:"label"`
	Status        Status   `json:"status"`
	Estado        string   `json:"estado"`
	Original      *Content `json:"original,omitempty"`
	Amended       *Content `json:"amended,omitempty"`
	Action        string   `json:"action,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	TitleNumber   string   `json:"title_number"`
	ChapterNumber string   `json:"chapter_number,omitempty"`
}

// View is the reconciled statute: the statute shell with annotated articles.
type View struct {
	Name        string       `json:"name"`
	Number      string       `json:"number"`
	Titles      []TitleView  `json:"titles"`
	Summary     Summary      `json:"summary"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// TitleView mirrors a statute title.
type TitleView struct {
	Number   string              `json:"number"`
	Name     string              `json:"name"`
	Articles []ReconciledArticle `json:"articles"`
	Chapters []ChapterView       `json:"chapters,omitempty"`
}

// ChapterView mirrors a statute chapter.
type ChapterView struct {
	Number   string              `json:"number"`
	Name     string              `json:"name"`
	Repealed bool                `json:"repealed,omitempty"`
	Articles []ReconciledArticle `json:"articles"`
}

// Summary counts reconciled articles per status.
type Summary struct {
	Unchanged        int      `json:"unchanged"`
	Substituted      int      `json:"substituted"`
	Incorporated     int      `json:"incorporated"`
	Repealed         int      `json:"repealed"`
	RepealedChapters []string `json:"repealed_chapters,omitempty"`
}

// Add counts one article.
func (s *Summary) Add(st Status) {
	switch st {
	case StatusSubstituted:
		s.Substituted++
	case StatusIncorporated:
		s.Incorporated++
	case StatusRepealed:
		s.Repealed++
	default:
		s.Unchanged++
	}
}

// Articles returns every reconciled article in view order.
func (v *View) Articles() []ReconciledArticle {
	var out []ReconciledArticle
	for _, t := range v.Titles {
		out = append(out, t.Articles...)
		for _, c := range t.Chapters {
			out = append(out, c.Articles...)
		}
	}
	return out
}

// Find returns the reconciled article with the given id.
func (v *View) Find(id ident.ID) (ReconciledArticle, bool) {
	for _, a := range v.Articles() {
		if a.ID == id {
			return a, true
		}
	}
	return ReconciledArticle{}, false
}

// Skipped returns the indexes of operations left out of the merge, in order.
func (v *View) Skipped() []int {
	var out []int
	seen := make(map[int]bool)
	for _, d := range v.Diagnostics {
		if !d.Kind.Skips() || d.Operation < 0 || seen[d.Operation] {
			continue
		}
		seen[d.Operation] = true
		out = append(out, d.Operation)
	}
	return out
}
