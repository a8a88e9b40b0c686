// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package items

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/craftgraph/pkg/types"
)

const slotItemClass = "invslot-item"

// ResolveSlot returns the candidate items of an inventory slot in document
// order. A slot holding more than one item container is an animated
// alternative slot. Unresolvable containers are dropped; duplicates are kept.
func ResolveSlot(slot *goquery.Selection) []types.Item {
	var out []types.Item
	slot.Find("span." + slotItemClass).Each(func(_ int, container *goquery.Selection) {
		link := container.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			return strings.HasPrefix(href, ArticlePrefix)
		}).First()
		if link.Length() == 0 {
			return
		}
		if it, ok := Resolve(link.Get(0)); ok {
			out = append(out, it)
		}
	})
	return out
}

// ResolveLinks resolves every article link under n, in document order.
func ResolveLinks(n *html.Node) []types.Item {
	var out []types.Item
	goquery.NewDocumentFromNode(n).Find("a").Each(func(_ int, a *goquery.Selection) {
		if it, ok := Resolve(a.Get(0)); ok {
			out = append(out, it)
		}
	})
	return out
}
