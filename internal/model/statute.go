// Package model defines the statute, amendment, and reconciled-view data types.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Document is the normalised statute file: the statute under a "ley" key.
type Document struct {
	Ley Statute `json:"ley"`
}

// Statute is the currently effective law.
type Statute struct {
	Name   string  `json:"nombre"`
	Number string  `json:"numero"`
	Titles []Title `json:"titulos"`
}

// Title groups either direct articles or chapters (the source allows both).
type Title struct {
	Number   string    `json:"numero"`
	Name     string    `json:"nombre"`
	Articles []Article `json:"articulos,omitempty"`
	Chapters []Chapter `json:"capitulos,omitempty"`
}

// Chapter groups articles inside a title.
type Chapter struct {
	Number   string    `json:"numero"`
	Name     string    `json:"nombre"`
	Articles []Article `json:"articulos,omitempty"`
}

// Article is one article as loaded from the statute source.
type Article struct {
	Number  Label    `json:"numero"`
	Title   string   `json:"titulo,omitempty"`
	Text    string   `json:"texto"`
	Incisos []Inciso `json:"incisos,omitempty"`
}

// Inciso is a lettered sub-clause of an article.
type Inciso struct {
	Letter string `json:"letra"`
	Text   string `json:"texto"`
}

// Label is an article number as found in source JSON, which may be a string,
// a number, or null.
type Label string

// UnmarshalJSON accepts strings, numbers, and null.
func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*l = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Label(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("article number: %w", err)
		}
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			*l = Label(strconv.FormatInt(i, 10))
		} else {
			*l = Label(n.String())
		}
	}
	return nil
}

// String returns the raw label.
func (l Label) String() string { return string(l) }

// Validate rejects statutes missing required structural fields.
func (s *Statute) Validate() error {
	if s == nil {
		return fmt.Errorf("statute is nil")
	}
	for i, t := range s.Titles {
		if strings.TrimSpace(t.Number) == "" {
			return fmt.Errorf("titulos[%d]: numero is required", i)
		}
		for j, c := range t.Chapters {
			if strings.TrimSpace(c.Number) == "" {
				return fmt.Errorf("titulos[%d].capitulos[%d]: numero is required", i, j)
			}
		}
	}
	return nil
}

// ArticleCount returns the number of structured articles in the statute.
func (s *Statute) ArticleCount() int {
	n := 0
	for _, t := range s.Titles {
		n += len(t.Articles)
		for _, c := range t.Chapters {
			n += len(c.Articles)
		}
	}
	return n
}
