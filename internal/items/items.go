// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package items turns wiki links and inventory slots into canonical Items.
package items

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/craftgraph/internal/edition"
	"github.com/pdiddy/craftgraph/internal/markup"
	"github.com/pdiddy/craftgraph/pkg/types"
)

const (
	// BaseURL is the wiki origin article hrefs are resolved against.
	BaseURL = "https://minecraft.wiki"

	// ArticlePrefix marks a reference link to a wiki article.
	ArticlePrefix = "/w/"
)

// captionClasses mark infobox caption and metadata containers. Links inside
// them illustrate the article rather than name gameplay items.
var captionClasses = []string{
	"infobox-imagecaption",
	"infobox-caption",
	"infobox-rows",
	"infobox-metadata",
}

// Resolve returns the Item a link refers to. ok is false when the node is not
// a target-edition article link.
func Resolve(link *html.Node) (item types.Item, ok bool) {
	if !markup.IsElement(link, atom.A) {
		return types.Item{}, false
	}
	href := markup.Attr(link, "href")
	if !strings.HasPrefix(href, ArticlePrefix) {
		return types.Item{}, false
	}
	if inCaption(link) {
		return types.Item{}, false
	}
	if annotatedOffTarget(link) {
		return types.Item{}, false
	}

	name := markup.Attr(link, "title")
	if name == "" {
		name = NameFromPath(href)
	}
	name = strings.TrimSpace(name)
	if name == "" || IsOffTargetName(name) {
		return types.Item{}, false
	}

	return types.Item{Name: name, URL: BaseURL + href}, true
}

// NameFromPath derives a display name from an article href: the prefix is
// dropped, escapes are decoded and underscores become spaces.
func NameFromPath(href string) string {
	p := strings.TrimPrefix(href, ArticlePrefix)
	if i := strings.IndexAny(p, "#?"); i >= 0 {
		p = p[:i]
	}
	if dec, err := url.PathUnescape(p); err == nil {
		p = dec
	}
	return strings.ReplaceAll(p, "_", " ")
}

// ArticleURL builds the canonical URL for a display name.
func ArticleURL(name string) string {
	return BaseURL + ArticlePrefix + strings.ReplaceAll(name, " ", "_")
}

// Named builds an Item that does not come from a link, such as the mob of a
// drop table or the fixed output of the composter.
func Named(name string) types.Item {
	return types.Item{Name: name, URL: ArticleURL(name)}
}

func inCaption(n *html.Node) bool {
	return markup.Closest(n, func(p *html.Node) bool {
		for _, c := range captionClasses {
			if markup.HasClass(p, c) {
				return true
			}
		}
		return false
	}) != nil
}

// annotatedOffTarget reports whether a superscript next to this link, within
// the same table cell or list item, marks it as off-target-edition only.
func annotatedOffTarget(link *html.Node) bool {
	cell := markup.ClosestTag(link, atom.Td, atom.Th, atom.Li)
	if cell == nil {
		return false
	}
	for n := link; n != nil && n != cell; n = n.Parent {
		next := nextElement(n)
		if next != nil && next.DataAtom == atom.Sup && edition.IsOffTargetOnly(markup.Text(next)) {
			return true
		}
	}
	return false
}

// nextElement returns the next element sibling, skipping whitespace text.
// Non-blank text in between breaks adjacency.
func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		switch s.Type {
		case html.ElementNode:
			return s
		case html.TextNode:
			if strings.TrimSpace(s.Data) != "" {
				return nil
			}
		}
	}
	return nil
}
