// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markup wraps the parsed wiki page tree. Nodes keep their parent and
// sibling back-references from golang.org/x/net/html; nothing in this package
// mutates the tree after Parse.
package markup

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML document.
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return doc, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(s string) (*goquery.Document, error) {
	return Parse(strings.NewReader(s))
}

// Classes returns the class list of an element node.
func Classes(n *html.Node) []string {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return strings.Fields(Attr(n, "class"))
}

// Attr returns the value of attribute key, or "" when absent.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether n carries class c.
func HasClass(n *html.Node, c string) bool {
	for _, got := range Classes(n) {
		if got == c {
			return true
		}
	}
	return false
}

// ClassMatches reports whether any single class of n matches re.
func ClassMatches(n *html.Node, re *regexp.Regexp) bool {
	for _, c := range Classes(n) {
		if re.MatchString(c) {
			return true
		}
	}
	return false
}

// FindByClass returns descendants of sel with the given tag whose class list
// has an entry matching re, in document order.
func FindByClass(sel *goquery.Selection, tag string, re *regexp.Regexp) *goquery.Selection {
	return sel.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return ClassMatches(s.Get(0), re)
	})
}

// FirstByClass is FindByClass limited to the first match. The result may be empty.
func FirstByClass(sel *goquery.Selection, tag string, re *regexp.Regexp) *goquery.Selection {
	return FindByClass(sel, tag, re).First()
}

// Text returns the visible text under n. Edit-section links are skipped.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
			return
		case html.ElementNode:
			if c.DataAtom == atom.Script || c.DataAtom == atom.Style || HasClass(c, "mw-editsection") {
				return
			}
		case html.CommentNode:
			return
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	if n != nil {
		walk(n)
	}
	return b.String()
}

// LowerText is Text lower-cased.
func LowerText(n *html.Node) string {
	return strings.ToLower(Text(n))
}

// IsElement reports whether n is an element with one of the given tags.
func IsElement(n *html.Node, tags ...atom.Atom) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.DataAtom == t {
			return true
		}
	}
	return false
}

// Closest returns the nearest proper ancestor of n accepted by match, or nil.
func Closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && match(p) {
			return p
		}
	}
	return nil
}

// ClosestTag returns the nearest proper ancestor with one of the given tags.
func ClosestTag(n *html.Node, tags ...atom.Atom) *html.Node {
	return Closest(n, func(p *html.Node) bool { return IsElement(p, tags...) })
}

// Children returns the element children of n with one of the given tags.
// With no tags every element child is returned.
func Children(n *html.Node, tags ...atom.Atom) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if len(tags) == 0 || IsElement(c, tags...) {
			out = append(out, c)
		}
	}
	return out
}

// NextInDocument returns the first element after n in document order
// (excluding n's own descendants) accepted by match, or nil.
func NextInDocument(n *html.Node, match func(*html.Node) bool) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		for s := cur.NextSibling; s != nil; s = s.NextSibling {
			if found := firstInSubtree(s, match); found != nil {
				return found
			}
		}
	}
	return nil
}

func firstInSubtree(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstInSubtree(c, match); found != nil {
			return found
		}
	}
	return nil
}
