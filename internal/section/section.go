// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package section finds the heading a page fragment sits under and turns it
// into a category slug. Fragments under an excluded heading (historical
// "removed" or "changed" recipes) are reported so extractors can drop them.
package section

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/craftgraph/internal/markup"
)

// DefaultExcluded lists the heading identifiers whose content is never extracted.
var DefaultExcluded = []string{"Removed_recipes", "Changed_recipes"}

// Heading is a section heading as found in the document.
type Heading struct {
	ID    string
	Text  string
	Level int
}

// Locator answers category and exclusion questions for fragments of one
// document. It holds no per-document state and may be shared.
type Locator struct {
	excluded map[string]bool
}

// NewLocator returns a Locator excluding the given heading identifiers, or
// DefaultExcluded when none are given.
func NewLocator(excluded ...string) *Locator {
	if len(excluded) == 0 {
		excluded = DefaultExcluded
	}
	l := &Locator{excluded: make(map[string]bool, len(excluded))}
	for _, id := range excluded {
		l.excluded[normalizeID(id)] = true
	}
	return l
}

// Nearest returns the closest heading above n, or false when there is none.
func (l *Locator) Nearest(n *html.Node) (Heading, bool) {
	var found Heading
	ok := false
	walkBack(n, func(h Heading) bool {
		found, ok = h, true
		return false
	})
	return found, ok
}

// Excluded reports whether n lies in an excluded section: either its nearest
// heading or one of the higher-level headings enclosing that section is in the
// exclusion set.
func (l *Locator) Excluded(n *html.Node) bool {
	excluded := false
	level := 0
	walkBack(n, func(h Heading) bool {
		if level != 0 && h.Level >= level {
			// A sibling section at the same or deeper level; not an enclosure.
			return true
		}
		level = h.Level
		if l.excluded[normalizeID(h.ID)] {
			excluded = true
			return false
		}
		return level > 2
	})
	return excluded
}

// Category returns the slug of the nearest heading. ok is false when no
// heading precedes n or n is in an excluded section.
func (l *Locator) Category(n *html.Node) (slug string, ok bool) {
	h, found := l.Nearest(n)
	if !found || l.Excluded(n) {
		return "", false
	}
	slug = Slug(h.Text)
	return slug, slug != ""
}

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Z}]`)
	whitespace = regexp.MustCompile(`[\s\p{Z}]+`)
)

// Slug lower-cases text, strips non-word characters and joins the remaining
// words with underscores: "Test: Category!" becomes "test_category".
func Slug(text string) string {
	s := strings.ToLower(text)
	s = nonWord.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return whitespace.ReplaceAllString(s, "_")
}

func normalizeID(id string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(id), " ", "_"))
}

// walkBack visits headings before n, nearest first: preceding siblings of n,
// then preceding siblings of each ancestor. visit returns false to stop.
func walkBack(n *html.Node, visit func(Heading) bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		for s := cur.PrevSibling; s != nil; s = s.PrevSibling {
			h, ok := headingOf(s)
			if !ok {
				continue
			}
			if !visit(h) {
				return
			}
		}
	}
}

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// headingOf recognises h2-h6 elements and the div.mw-heading wrappers newer
// MediaWiki versions put around them.
func headingOf(n *html.Node) (Heading, bool) {
	if n.Type != html.ElementNode {
		return Heading{}, false
	}
	el := n
	if n.DataAtom == atom.Div && markup.HasClass(n, "mw-heading") {
		el = nil
		for _, c := range markup.Children(n) {
			if _, ok := headingLevels[c.DataAtom]; ok {
				el = c
				break
			}
		}
		if el == nil {
			return Heading{}, false
		}
	}
	level, ok := headingLevels[el.DataAtom]
	if !ok || level < 2 {
		return Heading{}, false
	}

	h := Heading{Level: level}
	if span := headline(el); span != nil {
		h.ID = markup.Attr(span, "id")
		h.Text = markup.Text(span)
	}
	if h.ID == "" {
		h.ID = markup.Attr(el, "id")
	}
	if h.Text == "" {
		h.Text = markup.Text(el)
	}
	h.Text = strings.TrimSpace(h.Text)
	if h.ID == "" {
		h.ID = strings.ReplaceAll(h.Text, " ", "_")
	}
	return h, true
}

func headline(el *html.Node) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.Type == html.ElementNode && markup.HasClass(c, "mw-headline") {
				found = c
				return
			}
			walk(c)
		}
	}
	walk(el)
	return found
}
