package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/dictamen/internal/ident"
	"github.com/rcliao/dictamen/internal/model"
	"github.com/rcliao/dictamen/internal/segment"
)

// entry is the running reconciliation state of one article id.
type entry struct {
	id       ident.ID
	status   model.Status
	original *model.Content
	amended  *model.Content
	action   string
	sources  []string

	inStatute bool
	loc       location
	override  *ChapterOverride // set for articles synthesised from an override
	opIndex   int              // operation that created an entry outside the statute
}

func (e *entry) touch(op model.Operation) {
	e.action = op.Action
	src := op.Source.String()
	if src == "" {
		return
	}
	for _, s := range e.sources {
		if s == src {
			return
		}
	}
	e.sources = append(e.sources, src)
}

// merger folds operations, in list order, into per-article entries.
type merger struct {
	ix        *index
	resolver  Resolver
	overrides []ChapterOverride
	log       *zap.Logger

	entries          map[ident.ID]*entry
	added            []ident.ID // entries not present in the statute, in creation order
	pending          map[ident.ID][]pendingRepeal
	repealedChapters []string
	diags            []model.Diagnostic
}

// pendingRepeal is a repeal of an id nothing has incorporated yet.
type pendingRepeal struct {
	id    ident.ID
	index int
	op    model.Operation
}

func newMerger(ix *index, r Resolver, overrides []ChapterOverride, log *zap.Logger) *merger {
	return &merger{
		ix:        ix,
		resolver:  r,
		overrides: overrides,
		log:       log,
		entries:   make(map[ident.ID]*entry),
		pending:   make(map[ident.ID][]pendingRepeal),
	}
}

func (m *merger) report(kind model.DiagnosticKind, index int, op model.Operation, target, format string, args ...any) {
	m.diags = append(m.diags, newDiagnostic(kind, index, op, target, fmt.Sprintf(format, args...)))
}

// get returns the entry for id, creating it from the statute when the
// article exists there. It returns nil for ids unknown to both.
func (m *merger) get(id ident.ID) *entry {
	if e, ok := m.entries[id]; ok {
		return e
	}
	a, ok := m.ix.lookup(id)
	if !ok {
		return nil
	}
	e := &entry{
		id:        id,
		status:    model.StatusUnchanged,
		original:  originalContent(a.article),
		inStatute: true,
		loc:       a.loc,
	}
	m.entries[id] = e
	return e
}

func (m *merger) create(id ident.ID, index int) *entry {
	e := &entry{id: id, opIndex: index}
	m.entries[id] = e
	m.added = append(m.added, id)
	return e
}

func (m *merger) apply(index int, op model.Operation) {
	kind := op.Kind()
	if kind == model.ActionUnknown {
		if strings.TrimSpace(op.Action) == "" {
			m.report(model.DiagUnsupportedAction, index, op, "", "operation has no action verb")
		} else {
			m.report(model.DiagUnsupportedAction, index, op, "", "action %q is not substitute, incorporate, or repeal", op.Action)
		}
		return
	}

	t, diags := m.resolver.Resolve(index, op)
	m.diags = append(m.diags, diags...)
	if !t.Resolved() {
		return
	}
	m.log.Debug("resolved operation",
		zap.Int("operation", index),
		zap.String("action", kind.String()),
		zap.String("target", t.String()),
		zap.String("rule", t.Rule.String()))

	switch {
	case t.Rule == RuleChapter:
		m.repealChapter(index, op, t.Chapter)
	case t.Inciso != "":
		m.editInciso(index, op, kind, t)
	case kind == model.ActionRepeal:
		m.repeal(index, op, t.Article)
	case kind == model.ActionSubstitute:
		m.substitute(index, op, t.Article)
	case kind == model.ActionIncorporate:
		m.incorporate(index, op, t.Article)
	}
}

// repeal is terminal: it clears amended content and nothing later reverts it.
// A repeal of an unknown id waits for a later incorporation of that id.
func (m *merger) repeal(index int, op model.Operation, id ident.ID) {
	e := m.get(id)
	if e == nil {
		m.pending[id] = append(m.pending[id], pendingRepeal{id: id, index: index, op: op})
		return
	}
	e.status = model.StatusRepealed
	e.amended = nil
	e.touch(op)
}

// close reports the repeals whose id was never incorporated, in operation order.
func (m *merger) close() {
	var left []pendingRepeal
	for _, ps := range m.pending {
		left = append(left, ps...)
	}
	sort.Slice(left, func(i, j int) bool { return left[i].index < left[j].index })
	for _, p := range left {
		m.report(model.DiagTargetNotFound, p.index, p.op, p.id.String(), "repealed article %s does not exist in the statute", p.id)
	}
	m.pending = make(map[ident.ID][]pendingRepeal)
}

// incorporate adds a new article, or folds into substitution when the
// statute already has one with the same id.
func (m *merger) incorporate(index int, op model.Operation, id ident.ID) {
	if e := m.get(id); e != nil {
		m.replace(e, op)
		return
	}
	e := m.create(id, index)
	if repeals, ok := m.pending[id]; ok {
		delete(m.pending, id)
		e.status = model.StatusRepealed
		for _, p := range repeals {
			e.touch(p.op)
		}
		e.touch(op)
		e.action = repeals[len(repeals)-1].op.Action
		return
	}
	e.status = model.StatusIncorporated
	e.amended = segment.Split(op.Text()).Content()
	if e.amended.Title == "" {
		// the first body line doubles as the display title
		line, rest, _ := strings.Cut(e.amended.Text, "\n")
		if line = strings.TrimSpace(line); line != "" {
			e.amended.Title = line
			e.amended.Text = strings.TrimSpace(rest)
		}
	}
	e.touch(op)
}

// editInciso changes a single inciso of an existing article.
func (m *merger) editInciso(index int, op model.Operation, kind model.Action, t Target) {
	e := m.get(t.Article)
	if e == nil {
		m.report(model.DiagTargetNotFound, index, op, t.String(), "article %s does not exist in the statute", t.Article)
		return
	}
	if e.status == model.StatusRepealed {
		return
	}

	var next model.Content
	switch {
	case e.amended != nil:
		next = *e.amended
	case e.original != nil:
		next = *e.original
	}
	incisos := append([]model.Inciso(nil), next.Incisos...)

	pos := -1
	for i, inc := range incisos {
		if inc.Letter == t.Inciso {
			pos = i
			break
		}
	}

	switch kind {
	case model.ActionRepeal:
		if pos < 0 {
			m.report(model.DiagTargetNotFound, index, op, t.String(), "article %s has no inciso %s", t.Article, t.Inciso)
			return
		}
		incisos = append(incisos[:pos], incisos[pos+1:]...)
	default:
		text := incisoText(op.Text(), t.Inciso)
		if pos >= 0 {
			incisos[pos].Text = text
		} else {
			incisos = append(incisos, model.Inciso{Letter: t.Inciso, Text: text})
			sort.SliceStable(incisos, func(i, j int) bool { return incisos[i].Letter < incisos[j].Letter })
		}
	}

	next.Incisos = incisos
	e.amended = &next
	if e.status == model.StatusUnchanged {
		e.status = model.StatusSubstituted
	}
	e.touch(op)
}

// incisoText extracts the new text of one inciso from a replacement.
func incisoText(text, letter string) string {
	r := segment.Split(text)
	for _, inc := range r.Incisos {
		if inc.Letter == letter {
			return inc.Text
		}
	}
	if r.Text == "" && len(r.Incisos) == 1 {
		return r.Incisos[0].Text
	}
	return r.Text
}
