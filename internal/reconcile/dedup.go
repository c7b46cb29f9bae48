package reconcile

import (
	"github.com/rcliao/dictamen/internal/ident"
	"github.com/rcliao/dictamen/internal/model"
)

// location points at a container in the statute: a title's direct article
// list (chapter == -1) or one of its chapters.
type location struct {
	title   int
	chapter int
}

type indexed struct {
	article *model.Article
	loc     location
}

// index maps every article of the statute to its id and container.
type index struct {
	statute  *model.Statute
	articles map[ident.ID]indexed
}

func newIndex(st *model.Statute) *index {
	ix := &index{statute: st, articles: make(map[ident.ID]indexed)}
	for ti := range st.Titles {
		t := &st.Titles[ti]
		ix.add(ArticleIDs(titleScope(*t), t.Articles), t.Articles, location{ti, -1})
		for ci := range t.Chapters {
			c := &t.Chapters[ci]
			ix.add(ArticleIDs(c.Number, c.Articles), c.Articles, location{ti, ci})
		}
	}
	return ix
}

func (ix *index) add(ids []ident.ID, articles []model.Article, loc location) {
	for i, id := range ids {
		if _, dup := ix.articles[id]; dup {
			continue
		}
		ix.articles[id] = indexed{article: &articles[i], loc: loc}
	}
}

func (ix *index) lookup(id ident.ID) (indexed, bool) {
	a, ok := ix.articles[id]
	return a, ok
}

// exists reports whether id is a real numbered article of the statute.
func (ix *index) exists(id ident.ID) bool {
	if id.IsSynthetic() || id.IsZero() {
		return false
	}
	_, ok := ix.articles[id]
	return ok
}

// IsNewArticle reports whether an incorporation of id adds an article the
// statute does not already have. Matching is exact on parsed identifiers.
func IsNewArticle(st *model.Statute, id ident.ID) bool {
	return !newIndex(st).exists(id)
}

func originalContent(a *model.Article) *model.Content {
	c := &model.Content{Title: a.Title, Text: a.Text}
	if len(a.Incisos) > 0 {
		c.Incisos = append([]model.Inciso(nil), a.Incisos...)
	}
	return c
}
