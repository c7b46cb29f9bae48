package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/dictamen/internal/ident"
	"github.com/rcliao/dictamen/internal/model"
)

// container is one article list of the statute with the numbered ids it holds.
type container struct {
	loc   location
	scope string
	ids   []ident.ID
}

func (c container) bounds() (lo, hi int, ok bool) {
	for _, id := range c.ids {
		if id.IsSynthetic() || id.IsZero() {
			continue
		}
		if !ok || id.Base < lo {
			lo = id.Base
		}
		if !ok || id.Base > hi {
			hi = id.Base
		}
		ok = true
	}
	return lo, hi, ok
}

func (c container) holdsBase(base int) bool {
	for _, id := range c.ids {
		if !id.IsSynthetic() && id.Base == base {
			return true
		}
	}
	return false
}

// containers lists the article lists of st in source order. A title's direct
// list counts when it holds articles or when the title has no chapters.
func containers(st *model.Statute) []container {
	var out []container
	for ti, t := range st.Titles {
		if len(t.Articles) > 0 || len(t.Chapters) == 0 {
			scope := titleScope(t)
			out = append(out, container{loc: location{ti, -1}, scope: scope, ids: ArticleIDs(scope, t.Articles)})
		}
		for ci, c := range t.Chapters {
			out = append(out, container{loc: location{ti, ci}, scope: strings.ToUpper(strings.TrimSpace(c.Number)), ids: ArticleIDs(c.Number, c.Articles)})
		}
	}
	return out
}

// place picks the container a new article belongs to: the one already
// holding its base number, else the one whose numbered range covers it,
// else the one with the greatest maximum below it, else the last one.
func place(cs []container, id ident.ID) (location, bool) {
	if len(cs) == 0 {
		return location{}, false
	}
	if id.IsSynthetic() {
		for _, c := range cs {
			if c.scope == id.Scope {
				return c.loc, true
			}
		}
		return cs[len(cs)-1].loc, true
	}

	for _, c := range cs {
		if c.holdsBase(id.Base) {
			return c.loc, true
		}
	}
	for _, c := range cs {
		if lo, hi, ok := c.bounds(); ok && lo <= id.Base && id.Base <= hi {
			return c.loc, true
		}
	}
	best, bestMax := -1, -1
	for i, c := range cs {
		if _, hi, ok := c.bounds(); ok && hi < id.Base && hi > bestMax {
			best, bestMax = i, hi
		}
	}
	if best >= 0 {
		return cs[best].loc, true
	}
	return cs[len(cs)-1].loc, true
}

// assembler builds the reconciled view from the statute shell and the merged entries.
type assembler struct {
	st    *model.Statute
	m     *merger
	view  *model.View
	seen  map[ident.ID]bool
	diags []model.Diagnostic
}

func assemble(st *model.Statute, m *merger) *model.View {
	a := &assembler{
		st:   st,
		m:    m,
		view: &model.View{Name: st.Name, Number: st.Number, Titles: make([]model.TitleView, 0, len(st.Titles))},
		seen: make(map[ident.ID]bool),
	}

	for _, t := range st.Titles {
		tv := model.TitleView{
			Number:   t.Number,
			Name:     t.Name,
			Articles: a.records(titleScope(t), t.Articles, t.Number, ""),
		}
		for _, c := range t.Chapters {
			tv.Chapters = append(tv.Chapters, model.ChapterView{
				Number:   c.Number,
				Name:     c.Name,
				Articles: a.records(c.Number, c.Articles, t.Number, c.Number),
			})
		}
		a.view.Titles = append(a.view.Titles, tv)
	}

	cs := containers(st)
	for _, id := range m.added {
		e := m.entries[id]
		if e.override != nil {
			a.placeOverride(e)
			continue
		}
		loc, ok := place(cs, id)
		if !ok {
			a.diags = append(a.diags, model.Diagnostic{
				Kind:      model.DiagUnplacedArticle,
				Operation: e.opIndex,
				Target:    id.String(),
				Message:   fmt.Sprintf("statute has no title or chapter to hold article %s", id),
			})
			continue
		}
		a.appendAt(loc, a.record(id, e, label(id, "")))
	}

	a.finish()
	return a.view
}

// records converts the articles of one container, in source order.
func (a *assembler) records(scope string, articles []model.Article, title, chapter string) []model.ReconciledArticle {
	out := make([]model.ReconciledArticle, 0, len(articles))
	for i, id := range ArticleIDs(scope, articles) {
		art := &articles[i]
		var r model.ReconciledArticle
		if a.seen[id] {
			a.diags = append(a.diags, model.Diagnostic{
				Kind:      model.DiagAmbiguousIdentifier,
				Operation: -1,
				Target:    id.String(),
				Message:   fmt.Sprintf("article %s appears more than once in the statute; operations apply to the first occurrence", id),
			})
			r = unchanged(id, art)
		} else if e, ok := a.m.entries[id]; ok {
			r = a.record(id, e, label(id, art.Number.String()))
		} else {
			r = unchanged(id, art)
		}
		a.seen[id] = true
		r.TitleNumber, r.ChapterNumber = title, chapter
		out = append(out, r)
	}
	return out
}

func unchanged(id ident.ID, art *model.Article) model.ReconciledArticle {
	return model.ReconciledArticle{
		ID:       id,
		Label:    label(id, art.Number.String()),
		Status:   model.StatusUnchanged,
		Estado:   model.StatusUnchanged.Estado(),
		Original: originalContent(art),
	}
}

func (a *assembler) record(id ident.ID, e *entry, lbl string) model.ReconciledArticle {
	r := model.ReconciledArticle{
		ID:       id,
		Label:    lbl,
		Status:   e.status,
		Estado:   e.status.Estado(),
		Original: e.original,
		Action:   e.action,
		Sources:  e.sources,
	}
	if e.status != model.StatusUnchanged && e.status != model.StatusRepealed {
		r.Amended = e.amended
	}
	return r
}

// label is the display label: the canonical number, the source label for
// unnumbered articles that carry one, or "s/n" plus the position.
func label(id ident.ID, raw string) string {
	if !id.IsSynthetic() {
		return id.String()
	}
	if !ident.IsBlankLabel(raw) {
		return strings.TrimSpace(raw)
	}
	return fmt.Sprintf("s/n %d", id.Position)
}

func (a *assembler) appendAt(loc location, r model.ReconciledArticle) {
	tv := &a.view.Titles[loc.title]
	r.TitleNumber = tv.Number
	if loc.chapter < 0 {
		tv.Articles = append(tv.Articles, r)
		return
	}
	cv := &tv.Chapters[loc.chapter]
	r.ChapterNumber = cv.Number
	cv.Articles = append(cv.Articles, r)
}

// placeOverride puts an article synthesised from a chapter override into its
// chapter, adding a chapter shell to the override's title when the statute
// lacks the chapter altogether.
func (a *assembler) placeOverride(e *entry) {
	o := e.override
	for ti := range a.view.Titles {
		for ci := range a.view.Titles[ti].Chapters {
			if sameChapter(a.view.Titles[ti].Chapters[ci].Number, o.Chapter) {
				a.appendAt(location{ti, ci}, a.record(e.id, e, label(e.id, "")))
				return
			}
		}
	}
	for ti := range a.view.Titles {
		tv := &a.view.Titles[ti]
		if !strings.EqualFold(strings.TrimSpace(tv.Number), strings.TrimSpace(o.Title)) {
			continue
		}
		tv.Chapters = append(tv.Chapters, model.ChapterView{
			Number:   o.Chapter,
			Name:     o.Name,
			Articles: []model.ReconciledArticle{},
		})
		a.appendAt(location{ti, len(tv.Chapters) - 1}, a.record(e.id, e, label(e.id, "")))
		return
	}
	a.diags = append(a.diags, model.Diagnostic{
		Kind:      model.DiagUnplacedArticle,
		Operation: e.opIndex,
		Target:    e.id.String(),
		Message:   fmt.Sprintf("override for chapter %s names title %q, which the statute does not have", o.Chapter, o.Title),
	})
}

// finish sorts every container canonically, flags repealed chapters, and
// computes the summary.
func (a *assembler) finish() {
	repealed := make(map[string]bool, len(a.m.repealedChapters))
	for _, c := range a.m.repealedChapters {
		repealed[c] = true
	}

	v := a.view
	for ti := range v.Titles {
		tv := &v.Titles[ti]
		sortRecords(tv.Articles)
		for _, r := range tv.Articles {
			v.Summary.Add(r.Status)
		}
		for ci := range tv.Chapters {
			cv := &tv.Chapters[ci]
			sortRecords(cv.Articles)
			cv.Repealed = repealed[strings.ToUpper(strings.TrimSpace(cv.Number))]
			for _, r := range cv.Articles {
				v.Summary.Add(r.Status)
			}
		}
	}
	v.Summary.RepealedChapters = append([]string(nil), a.m.repealedChapters...)

	v.Diagnostics = make([]model.Diagnostic, 0, len(a.m.diags)+len(a.diags))
	v.Diagnostics = append(v.Diagnostics, a.m.diags...)
	v.Diagnostics = append(v.Diagnostics, a.diags...)
}

func sortRecords(rs []model.ReconciledArticle) {
	sort.SliceStable(rs, func(i, j int) bool { return ident.Less(rs[i].ID, rs[j].ID) })
}
