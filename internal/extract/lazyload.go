// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/craftgraph/internal/items"
)

// Subpage is a page transcluded on demand by a load-page placeholder.
type Subpage struct {
	// Ref is the page reference with spaces replaced by underscores
	// (e.g. "Crafting/Building_blocks").
	Ref string

	// URL is the absolute article URL of Ref.
	URL string
}

// Slug returns a file-safe name for the subpage: the last path segment of
// Ref, lower-cased.
func (s Subpage) Slug() string {
	ref := s.Ref
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	return strings.ToLower(ref)
}

// LazyLoadPages returns the subpages referenced by div.load-page placeholders,
// in document order and without repeats. References to historical content
// ("changed" or "removed") are skipped.
func LazyLoadPages(doc *goquery.Document) []Subpage {
	var out []Subpage
	seen := make(map[string]bool)
	doc.Find("div.load-page[data-page]").Each(func(_ int, div *goquery.Selection) {
		ref, _ := div.Attr("data-page")
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return
		}
		lower := strings.ToLower(ref)
		if strings.Contains(lower, "changed") || strings.Contains(lower, "removed") {
			return
		}
		ref = strings.ReplaceAll(ref, " ", "_")
		if seen[ref] {
			return
		}
		seen[ref] = true
		out = append(out, Subpage{Ref: ref, URL: items.BaseURL + items.ArticlePrefix + ref})
	})
	return out
}
