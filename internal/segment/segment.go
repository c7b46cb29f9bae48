// Package segment splits replacement article text into its number prefix,
// title sentence, body, and lettered incisos.
package segment

import (
	"regexp"
	"strings"

	"github.com/rcliao/dictamen/internal/ident"
	"github.com/rcliao/dictamen/internal/model"
)

// prefixRe matches "ARTÍCULO 11 bis°- " at the start of a replacement text.
var prefixRe = regexp.MustCompile(`(?i)^[\s"“'«]*ART[ÍI]CULO\s+(\d+(?:\s*(?:` + ident.SuffixPattern + `))?)\s*[°º]?\s*(?:[-–.]\s*)+`)

var incisoRe = regexp.MustCompile(`(?i)^\s*([a-zñ])\)\s+(.*)$`)

// titleEndRe finds the end of the title sentence: a period followed by space.
var titleEndRe = regexp.MustCompile(`\.\s+`)

// Replacement is a parsed replacement text.
type Replacement struct {
	Number  string // article number restated by the prefix, "" when absent
	Title   string
	Text    string
	Incisos []model.Inciso
}

// Content returns the replacement as article content.
func (r Replacement) Content() *model.Content {
	return &model.Content{Title: r.Title, Text: r.Text, Incisos: r.Incisos}
}

// Prefix returns the article number restated at the start of text and the
// remainder after the separator.
func Prefix(text string) (number, rest string, ok bool) {
	loc := prefixRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", strings.TrimSpace(text), false
	}
	number = strings.Join(strings.Fields(text[loc[2]:loc[3]]), " ")
	return number, strings.TrimSpace(text[loc[1]:]), true
}

// Split parses a replacement text. The title is the first sentence of the
// first line when that line holds more than one sentence; lines starting
// with "a) " become incisos and are removed from the body. Lines after an
// inciso continue it until a blank line.
func Split(text string) Replacement {
	number, rest, _ := Prefix(text)
	r := Replacement{Number: number}
	if rest == "" {
		return r
	}

	first, tail, multiline := strings.Cut(rest, "\n")
	if loc := titleEndRe.FindStringIndex(first); loc != nil && !incisoRe.MatchString(first) {
		r.Title = strings.TrimSpace(first[:loc[0]+1])
		first = first[loc[1]:]
	}
	if multiline {
		rest = first + "\n" + tail
	} else {
		rest = first
	}

	r.Text, r.Incisos = splitIncisos(rest)
	return r
}

// splitIncisos separates inciso lines from the body lines.
func splitIncisos(text string) (string, []model.Inciso) {
	var body []string
	var incisos []model.Inciso
	var current *model.Inciso

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(current.Text)
		if current.Text != "" {
			incisos = append(incisos, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := incisoRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &model.Inciso{Letter: strings.ToLower(m[1]), Text: m[2]}
			continue
		}
		if current != nil {
			if strings.TrimSpace(line) == "" {
				flush()
			} else {
				current.Text += "\n" + strings.TrimSpace(line)
			}
			continue
		}
		body = append(body, line)
	}
	flush()

	return strings.TrimSpace(strings.Join(body, "\n")), incisos
}

// Render writes content back as a replacement text restating number, in the
// form Split parses.
func Render(number string, c model.Content) string {
	var b strings.Builder
	b.WriteString("ARTÍCULO ")
	b.WriteString(number)
	b.WriteString("- ")
	b.WriteString(c.Title)
	if c.Title != "" && c.Text != "" {
		b.WriteByte(' ')
	}
	b.WriteString(c.Text)
	for _, inc := range c.Incisos {
		b.WriteString("\n")
		b.WriteString(inc.Letter)
		b.WriteString(") ")
		b.WriteString(inc.Text)
	}
	return b.String()
}
