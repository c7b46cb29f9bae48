package model

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Action is one of the recognised amendment verbs.
type Action int

const (
	ActionUnknown Action = iota
	ActionSubstitute
	ActionIncorporate
	ActionRepeal
)

// String returns the English action name.
func (a Action) String() string {
	switch a {
	case ActionSubstitute:
		return "substitute"
	case ActionIncorporate:
		return "incorporate"
	case ActionRepeal:
		return "repeal"
	default:
		return "unknown"
	}
}

// actionVerbs maps folded verbs (lowercase, no accents) to actions.
var actionVerbs = map[string]Action{
	"substitute":  ActionSubstitute,
	"sustituyese": ActionSubstitute,
	"reemplazase": ActionSubstitute,
	"modificase":  ActionSubstitute,
	"incorporate": ActionIncorporate,
	"incorporase": ActionIncorporate,
	"agregase":    ActionIncorporate,
	"crease":      ActionIncorporate,
	"repeal":      ActionRepeal,
	"derogase":    ActionRepeal,
	"suprimese":   ActionRepeal,
}

// ParseAction maps a verb such as "Sustitúyese" or "repeal" to an Action.
func ParseAction(verb string) Action {
	return actionVerbs[Fold(verb)]
}

// Fold lowercases s and strips combining accents ("Derógase" -> "derogase").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Operation is one amendment record detected in a dictamen.
type Operation struct {
	Action        string   `json:"accion"`
	LawNumber     string   `json:"ley_numero,omitempty"`
	TargetArticle Label    `json:"destino_articulo,omitempty"`
	TargetInciso  string   `json:"destino_inciso,omitempty"`
	ParentArticle Label    `json:"destino_articulo_padre,omitempty"` // article owning TargetInciso
	TargetChapter string   `json:"destino_capitulo,omitempty"`
	NewText       string   `json:"texto_nuevo,omitempty"`
	NewTextLines  []string `json:"texto_nuevo_lineas,omitempty"`
	Header        string   `json:"encabezado,omitempty"`
	Source        Label    `json:"dictamen_articulo,omitempty"`
}

// Kind returns the parsed action of the operation.
func (o Operation) Kind() Action { return ParseAction(o.Action) }

// Text returns the replacement text, rebuilt from its lines when only those
// were extracted.
func (o Operation) Text() string {
	if o.NewText != "" || len(o.NewTextLines) == 0 {
		return o.NewText
	}
	return strings.Join(o.NewTextLines, "\n")
}

// Validate rejects records that carry no field at all. A missing or unknown
// verb is not structural and is reported during reconciliation instead.
func (o Operation) Validate() error {
	if strings.TrimSpace(o.Action) == "" && o.TargetArticle == "" && o.ParentArticle == "" &&
		strings.TrimSpace(o.TargetChapter) == "" && strings.TrimSpace(o.Text()) == "" &&
		strings.TrimSpace(o.Header) == "" {
		return fmt.Errorf("operation is empty")
	}
	return nil
}
