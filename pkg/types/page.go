// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PageKind names the extractor that understands a page's markup.
type PageKind string

const (
	PageCrafting    PageKind = "crafting"
	PageSmelting    PageKind = "smelting"
	PageSmithing    PageKind = "smithing"
	PageStonecutter PageKind = "stonecutter"
	PageTrading     PageKind = "trading"
	PageDrops       PageKind = "drops"
	PageBrewing     PageKind = "brewing"
	PageComposting  PageKind = "composting"
	PageGrindstone  PageKind = "grindstone"
	PageBartering   PageKind = "bartering"
)

// PageKinds lists every page kind the extractor understands.
var PageKinds = []PageKind{
	PageCrafting, PageSmelting, PageSmithing, PageStonecutter, PageTrading,
	PageDrops, PageBrewing, PageComposting, PageGrindstone, PageBartering,
}

// Valid reports whether k is a known page kind.
func (k PageKind) Valid() bool {
	for _, known := range PageKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Page describes one cached wiki page and how to extract it.
type Page struct {
	// ID is a stable page identifier (e.g. "crafting", "mobs/zombie").
	ID string `json:"id" yaml:"id"`

	// Kind selects the extractor.
	Kind PageKind `json:"kind" yaml:"kind"`

	// URL is where the page was fetched from.
	URL string `json:"url" yaml:"url"`

	// Path is the local HTML file.
	Path string `json:"path" yaml:"path"`

	// Mob is the display name of the dropping mob, for drops pages only.
	Mob string `json:"mob,omitempty" yaml:"mob,omitempty"`
}

// Manifest lists the pages available for extraction, in processing order.
type Manifest struct {
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
	Pages     []Page    `json:"pages" yaml:"pages"`
}

// PageResult holds the transformations extracted from one page, in emission order.
type PageResult struct {
	// RunID identifies the extraction run that produced the result.
	RunID string `json:"run_id" yaml:"run_id"`

	PageID string   `json:"page_id" yaml:"page_id"`
	Kind   PageKind `json:"kind" yaml:"kind"`

	Transformations []Transformation `json:"transformations" yaml:"transformations"`

	// Duplicates counts candidates suppressed by signature.
	Duplicates int `json:"duplicates" yaml:"duplicates"`

	// Error records an extraction failure message. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
