// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns a cached wiki page into transformations. Each page
// kind has one extractor; every extractor admits fragments through the
// edition and section checks, resolves slots into items, expands
// alternatives and emits into a page-scoped ResultSet.
package extract

import (
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pdiddy/craftgraph/internal/edition"
	"github.com/pdiddy/craftgraph/internal/section"
	"github.com/pdiddy/craftgraph/pkg/types"
)

// Options tunes a single page extraction.
type Options struct {
	// Logger receives skip decisions at debug level. Nil means no logging.
	Logger *zap.Logger

	// ExcludedSections overrides section.DefaultExcluded when non-empty.
	ExcludedSections []string
}

// run is the state of one page extraction. It is never shared between pages.
type run struct {
	page types.Page
	doc  *goquery.Document
	loc  *section.Locator
	set  *ResultSet
	log  *zap.Logger
}

// ExtractPage runs the extractor for page.Kind over doc. The returned result
// lists the page's transformations in emission order. A construction error
// aborts the page; the result then carries the error message and no
// transformations.
func ExtractPage(doc *goquery.Document, page types.Page, opts Options) (types.PageResult, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &run{
		page: page,
		doc:  doc,
		loc:  section.NewLocator(opts.ExcludedSections...),
		set:  NewResultSet(),
		log:  log.With(zap.String("page", page.ID), zap.String("kind", string(page.Kind))),
	}
	result := types.PageResult{PageID: page.ID, Kind: page.Kind}

	fn, err := extractorFor(page.Kind)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}

	start := time.Now()
	if err := fn(r); err != nil {
		err = fmt.Errorf("extracting %s: %w", page.ID, err)
		result.Error = err.Error()
		pagesTotal.WithLabelValues(string(page.Kind), "failed").Inc()
		return result, err
	}
	pageDuration.WithLabelValues(string(page.Kind)).Observe(time.Since(start).Seconds())
	pagesTotal.WithLabelValues(string(page.Kind), "ok").Inc()

	result.Transformations = r.set.Transformations()
	result.Duplicates = r.set.Duplicates()
	for _, t := range result.Transformations {
		transformationsTotal.WithLabelValues(string(t.Kind)).Inc()
	}
	duplicatesTotal.WithLabelValues(string(page.Kind)).Add(float64(result.Duplicates))

	r.log.Debug("page extracted",
		zap.Int("transformations", len(result.Transformations)),
		zap.Int("duplicates", result.Duplicates))
	return result, nil
}

// extractorFor maps a page kind to its extractor. The set of kinds is closed.
func extractorFor(kind types.PageKind) (func(*run) error, error) {
	switch kind {
	case types.PageCrafting:
		return extractCrafting, nil
	case types.PageSmelting:
		return extractSmelting, nil
	case types.PageSmithing:
		return extractSmithing, nil
	case types.PageStonecutter:
		return extractStonecutter, nil
	case types.PageBrewing:
		return extractBrewing, nil
	case types.PageGrindstone:
		return extractGrindstone, nil
	case types.PageTrading:
		return extractTrading, nil
	case types.PageDrops:
		return extractDrops, nil
	case types.PageComposting:
		return extractComposting, nil
	case types.PageBartering:
		return extractBartering, nil
	default:
		return nil, fmt.Errorf("no extractor for page kind %q", kind)
	}
}

// admit reports whether a fragment is target-edition content outside any
// excluded section.
func (r *run) admit(n *html.Node, what string) bool {
	if !edition.IsTarget(n) {
		r.log.Debug("skipping off-target fragment", zap.String("fragment", what))
		return false
	}
	if r.loc.Excluded(n) {
		r.log.Debug("skipping excluded section", zap.String("fragment", what))
		return false
	}
	return true
}

// emit builds one transformation and adds it to the page's result set.
func (r *run) emit(kind types.Kind, inputs, outputs []types.Item, meta map[string]any) error {
	t, err := types.NewTransformation(kind, inputs, outputs, meta)
	if err != nil {
		return err
	}
	r.set.Emit(t)
	return nil
}
