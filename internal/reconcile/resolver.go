package reconcile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rcliao/dictamen/internal/ident"
	"github.com/rcliao/dictamen/internal/model"
	"github.com/rcliao/dictamen/internal/segment"
)

// TargetPolicy decides which source wins when the explicit target field and
// the number restated by the replacement text disagree.
type TargetPolicy int

const (
	PreferExplicit TargetPolicy = iota
	PreferText
)

// ParseTargetPolicy accepts "explicit" (or "") and "text".
func ParseTargetPolicy(s string) (TargetPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "explicit":
		return PreferExplicit, nil
	case "text":
		return PreferText, nil
	}
	return PreferExplicit, fmt.Errorf("unknown target policy %q (valid: explicit, text)", s)
}

func (p TargetPolicy) String() string {
	if p == PreferText {
		return "text"
	}
	return "explicit"
}

// Rule names the resolution rule that produced a target.
type Rule int

const (
	RuleNone Rule = iota
	RuleExplicit
	RuleReplacementText
	RuleHeaderIncorporation
	RuleHeaderArticle
	RuleChapter
)

func (r Rule) String() string {
	switch r {
	case RuleExplicit:
		return "explicit"
	case RuleReplacementText:
		return "replacement_text"
	case RuleHeaderIncorporation:
		return "header_incorporation"
	case RuleHeaderArticle:
		return "header_article"
	case RuleChapter:
		return "chapter"
	default:
		return "none"
	}
}

// Target is what one operation applies to: an article (optionally one of its
// incisos) or, for chapter repeals, a whole chapter.
type Target struct {
	Article ident.ID
	Chapter string
	Inciso  string
	Rule    Rule
}

// Resolved reports whether any rule matched.
func (t Target) Resolved() bool { return t.Rule != RuleNone }

func (t Target) String() string {
	if t.Rule == RuleChapter {
		return "capítulo " + t.Chapter
	}
	if t.Inciso != "" {
		return t.Article.String() + " inc. " + t.Inciso
	}
	return t.Article.String()
}

var (
	headerIncorporationRe = regexp.MustCompile(`(?i)incorp[óo]rase\s+como\s+art[íi]culo\s+(\d+(?:\s*(?:` + ident.SuffixPattern + `)\b)?)`)
	headerArticleRe       = regexp.MustCompile(`(?i)art[íi]culo\s+(\d+(?:\s*(?:` + ident.SuffixPattern + `)\b)?)`)
	headerIncisoRe        = regexp.MustCompile(`(?i)inciso\s+([a-zñ])\)\s+del\s+art[íi]culo\s+(\d+(?:\s*(?:` + ident.SuffixPattern + `)\b)?)`)
	headerChapterRe       = regexp.MustCompile(`(?i)der[óo]gase\s+el\s+cap[íi]tulo\s+([IVXLCDM]+|\d+)\b`)
	operativeVerbRe       = regexp.MustCompile(`(?i)(sustit[úu]yese|incorp[óo]rase|der[óo]gase|reempl[áa]zase|modif[íi]case|supr[íi]mese)`)
)

// Resolver determines operation targets with a fixed priority chain:
// explicit field, replacement-text prefix, then header text.
type Resolver struct {
	Policy TargetPolicy
}

// Resolve returns the target of op. Any problems found on the way are
// returned as diagnostics; an unresolved target carries RuleNone.
func (r Resolver) Resolve(index int, op model.Operation) (Target, []model.Diagnostic) {
	var diags []model.Diagnostic
	report := func(kind model.DiagnosticKind, target, format string, args ...any) {
		diags = append(diags, newDiagnostic(kind, index, op, target, fmt.Sprintf(format, args...)))
	}

	if op.Kind() == model.ActionRepeal {
		if chapter := targetChapter(op); chapter != "" {
			return Target{Chapter: chapter, Rule: RuleChapter}, nil
		}
	}

	t := Target{Inciso: normalizeInciso(op.TargetInciso)}
	if t.Inciso == "" {
		if m := headerIncisoRe.FindStringSubmatch(op.Header); m != nil {
			t.Inciso = strings.ToLower(m[1])
		}
	}

	explicit, hasExplicit := r.explicit(op, t.Inciso != "", report)
	textID, hasText := fromReplacement(op.Text())

	switch {
	case hasExplicit && hasText && explicit != textID:
		report(model.DiagTargetConflict, explicit.String(),
			"explicit target %s disagrees with replacement text %s; policy %s", explicit, textID, r.Policy)
		if r.Policy == PreferText {
			t.Article, t.Rule = textID, RuleReplacementText
		} else {
			t.Article, t.Rule = explicit, RuleExplicit
		}
	case hasExplicit:
		t.Article, t.Rule = explicit, RuleExplicit
	case hasText:
		t.Article, t.Rule = textID, RuleReplacementText
	default:
		t.Article, t.Rule = fromHeader(op.Header)
	}

	if !t.Resolved() {
		report(model.DiagUnresolvedTarget, "", "no target article found in destino_articulo, texto_nuevo, or encabezado")
	}
	return t, diags
}

// targetChapter returns the chapter a repeal names, from destino_capitulo or
// a "derógase el capítulo N" header.
func targetChapter(op model.Operation) string {
	if chapter := strings.TrimSpace(op.TargetChapter); chapter != "" {
		return strings.ToUpper(chapter)
	}
	if op.TargetArticle != "" {
		return ""
	}
	if m := headerChapterRe.FindStringSubmatch(op.Header); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

func (r Resolver) explicit(op model.Operation, inciso bool, report func(model.DiagnosticKind, string, string, ...any)) (ident.ID, bool) {
	label := strings.TrimSpace(op.TargetArticle.String())
	if inciso && ident.IsBlankLabel(label) {
		label = strings.TrimSpace(op.ParentArticle.String())
	}
	if ident.IsBlankLabel(label) {
		return ident.ID{}, false
	}
	id, strict := ident.ParseStrict(label)
	if strict {
		return id, true
	}
	id = ident.Parse(label)
	if id.IsZero() {
		report(model.DiagAmbiguousIdentifier, label, "destino_articulo %q is not an article number; ignored", label)
		return ident.ID{}, false
	}
	report(model.DiagAmbiguousIdentifier, label, "destino_articulo %q read leniently as %q", label, id)
	return id, true
}

func fromReplacement(text string) (ident.ID, bool) {
	number, _, ok := segment.Prefix(text)
	if !ok {
		return ident.ID{}, false
	}
	return ident.Parse(number), true
}

// fromHeader prefers "incorpórase como artículo N" over a bare "artículo N",
// since a header also cites the article being amended. A bare mention is
// looked up after the operative verb first so the dictamen's own
// "ARTÍCULO 21-" lead-in is not taken as the target.
func fromHeader(header string) (ident.ID, Rule) {
	if m := headerIncorporationRe.FindStringSubmatch(header); m != nil {
		return ident.Parse(m[1]), RuleHeaderIncorporation
	}
	if loc := operativeVerbRe.FindStringIndex(header); loc != nil {
		if m := headerArticleRe.FindStringSubmatch(header[loc[1]:]); m != nil {
			return ident.Parse(m[1]), RuleHeaderArticle
		}
	}
	if m := headerArticleRe.FindStringSubmatch(header); m != nil {
		return ident.Parse(m[1]), RuleHeaderArticle
	}
	return ident.ID{}, RuleNone
}

func normalizeInciso(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "inciso")
	s = strings.Trim(s, " ()")
	if len([]rune(s)) != 1 {
		return ""
	}
	return s
}

func newDiagnostic(kind model.DiagnosticKind, index int, op model.Operation, target, msg string) model.Diagnostic {
	return model.Diagnostic{
		Kind:      kind,
		Operation: index,
		Source:    op.Source.String(),
		Target:    target,
		Message:   msg,
	}
}
