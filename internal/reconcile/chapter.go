package reconcile

import (
	"strings"

	"github.com/rcliao/dictamen/internal/ident"
	"github.com/rcliao/dictamen/internal/model"
)

// ChapterOverride lists, for one chapter the statute source omits or leaves
// empty, the literal texts of its unnumbered articles. Every override must
// say why it exists.
type ChapterOverride struct {
	Chapter  string
	Title    string // title that owns the chapter, used when the chapter is absent
	Name     string
	Reason   string
	Articles []model.Content
}

// Expansion is the set of articles a chapter-level repeal applies to.
type Expansion struct {
	Chapter  string
	IDs      []ident.ID
	Override *ChapterOverride
}

// ArticleIDs assigns ids to the articles of one container: numbered articles
// keep their number, unnumbered ones get dense 1-based synthetic ids scoped
// to the container.
func ArticleIDs(scope string, articles []model.Article) []ident.ID {
	ids := make([]ident.ID, len(articles))
	k := 0
	for i, a := range articles {
		id := ident.Parse(a.Number.String())
		if ident.IsBlankLabel(a.Number.String()) || id.IsZero() {
			k++
			id = ident.Synthetic(scope, k)
		}
		ids[i] = id
	}
	return ids
}

// titleScope is the synthetic scope of articles directly under a title.
func titleScope(t model.Title) string {
	return "TIT_" + strings.ToUpper(strings.TrimSpace(t.Number))
}

func sameChapter(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ExpandChapter enumerates the articles of chapter, matched case-insensitively
// across all titles. When the statute has no structured articles for it, the
// matching override (if any) is used; otherwise ok is false.
func ExpandChapter(st *model.Statute, chapter string, overrides []ChapterOverride) (Expansion, bool) {
	exp := Expansion{Chapter: strings.ToUpper(strings.TrimSpace(chapter))}
	for _, t := range st.Titles {
		for _, c := range t.Chapters {
			if sameChapter(c.Number, chapter) {
				exp.IDs = append(exp.IDs, ArticleIDs(c.Number, c.Articles)...)
			}
		}
	}
	if len(exp.IDs) > 0 {
		return exp, true
	}

	for i := range overrides {
		o := &overrides[i]
		if !sameChapter(o.Chapter, chapter) || len(o.Articles) == 0 {
			continue
		}
		exp.Override = o
		for k := range o.Articles {
			exp.IDs = append(exp.IDs, ident.Synthetic(o.Chapter, k+1))
		}
		return exp, true
	}
	return exp, false
}
