// Package ident models article identifiers and their canonical ordering.
package ident

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Suffix is the ordinal word that follows an article number ("11 bis").
type Suffix int

const (
	SuffixNone Suffix = iota
	SuffixBis
	SuffixTer
	SuffixQuater
	SuffixQuinquies
	SuffixSexies
	SuffixSepties
	SuffixOcties
	SuffixNonies
	SuffixDecies
)

var suffixNames = [...]string{"", "bis", "ter", "quater", "quinquies", "sexies", "septies", "octies", "nonies", "decies"}

// String returns the ordinal word, or "" for SuffixNone.
func (s Suffix) String() string {
	if s < 0 || int(s) >= len(suffixNames) {
		return ""
	}
	return suffixNames[s]
}

// ParseSuffix maps an ordinal word to its Suffix. Unknown words map to SuffixNone.
func ParseSuffix(word string) Suffix {
	word = strings.ToLower(strings.TrimSpace(word))
	for i, name := range suffixNames {
		if i > 0 && name == word {
			return Suffix(i)
		}
	}
	return SuffixNone
}

// SuffixPattern matches any ordinal suffix. Shared with the target resolver.
const SuffixPattern = `bis|ter|quater|quinquies|sexies|septies|octies|nonies|decies`

// ID identifies an article. Numbered articles have an empty Scope; synthetic
// ids stand for unnumbered articles and carry the chapter they belong to
// plus their 1-based position among the unnumbered articles of that chapter.
type ID struct {
	Base     int
	Suffix   Suffix
	Scope    string
	Position int
}

// Synthetic builds the stable identifier of the n-th unnumbered article of a chapter.
func Synthetic(scope string, position int) ID {
	return ID{Scope: strings.ToUpper(strings.TrimSpace(scope)), Position: position}
}

// Numbered builds a numbered identifier.
func Numbered(base int, suffix Suffix) ID {
	return ID{Base: base, Suffix: suffix}
}

// IsSynthetic reports whether the id was manufactured for an unnumbered article.
func (id ID) IsSynthetic() bool { return id.Scope != "" }

// IsZero reports whether id is the lenient-parse fallback value.
func (id ID) IsZero() bool { return id == ID{} }

// String renders the canonical label: "54", "11 bis", "CAP_VIII_ART_3".
func (id ID) String() string {
	if id.IsSynthetic() {
		return fmt.Sprintf("CAP_%s_ART_%d", id.Scope, id.Position)
	}
	if id.Suffix == SuffixNone {
		return strconv.Itoa(id.Base)
	}
	return strconv.Itoa(id.Base) + " " + id.Suffix.String()
}

// MarshalText encodes the canonical label.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses a label leniently.
func (id *ID) UnmarshalText(b []byte) error {
	*id = Parse(string(b))
	return nil
}

var (
	numberedRe  = regexp.MustCompile(`(?i)^(\d+)\s*[°º]?\s*(` + SuffixPattern + `)?\.?$`)
	syntheticRe = regexp.MustCompile(`(?i)^CAP_(\w+?)_ART_(\d+)$`)
	looseRe     = regexp.MustCompile(`(?i)(\d+)\s*[°º]?\s*(?:(` + SuffixPattern + `)\b)?`)
)

// ParseStrict parses a label and reports whether it matched the
// "<integer><optional ordinal>" grammar or the synthetic form.
func ParseStrict(label string) (ID, bool) {
	label = strings.Join(strings.Fields(label), " ")
	if m := syntheticRe.FindStringSubmatch(label); m != nil {
		pos, err := strconv.Atoi(m[2])
		if err == nil && pos > 0 {
			return Synthetic(m[1], pos), true
		}
	}
	m := numberedRe.FindStringSubmatch(label)
	if m == nil {
		return ID{}, false
	}
	base, err := strconv.Atoi(m[1])
	if err != nil {
		return ID{}, false
	}
	return Numbered(base, ParseSuffix(m[2])), true
}

// Parse is the lenient form of ParseStrict: when the label does not match
// the grammar, the first "<integer><optional ordinal>" found inside it is
// used, and labels without any number yield the zero ID.
func Parse(label string) ID {
	if id, ok := ParseStrict(label); ok {
		return id
	}
	m := looseRe.FindStringSubmatch(label)
	if m == nil {
		return ID{}
	}
	base, err := strconv.Atoi(m[1])
	if err != nil {
		return ID{}
	}
	return Numbered(base, ParseSuffix(m[2]))
}

// IsBlankLabel reports whether a source label denotes an unnumbered article.
func IsBlankLabel(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "none", "n/a", "s/n", "null":
		return true
	}
	return false
}

// Compare orders ids canonically: numbered before synthetic, numbered by base
// then suffix rank, synthetic by scope then position.
func Compare(a, b ID) int {
	switch {
	case a.IsSynthetic() != b.IsSynthetic():
		if a.IsSynthetic() {
			return 1
		}
		return -1
	case a.IsSynthetic():
		if c := strings.Compare(a.Scope, b.Scope); c != 0 {
			return c
		}
		return cmpInt(a.Position, b.Position)
	}
	if c := cmpInt(a.Base, b.Base); c != 0 {
		return c
	}
	return cmpInt(int(a.Suffix), int(b.Suffix))
}

// Less reports whether a orders before b.
func Less(a, b ID) bool { return Compare(a, b) < 0 }

// Sort orders ids canonically in place. The sort is stable.
func Sort(ids []ID) {
	sort.SliceStable(ids, func(i, j int) bool { return Less(ids[i], ids[j]) })
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
