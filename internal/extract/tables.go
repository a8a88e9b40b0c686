// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/craftgraph/internal/edition"
	"github.com/pdiddy/craftgraph/internal/items"
	"github.com/pdiddy/craftgraph/internal/markup"
	"github.com/pdiddy/craftgraph/pkg/types"
)

// Metadata keys written by table extractors.
const (
	MetaProbability  = "probability"
	MetaSuccessRate  = "success_rate"
	MetaVillagerType = "villager_type"
	MetaLevel        = "level"
)

// Fallbacks for unparseable or missing values.
const (
	defaultProbability  = 1.0
	defaultSuccessRate  = 0.0
	defaultVillagerType = "Unknown"
)

// Fixed items that never appear as links in their tables.
var (
	boneMeal  = items.Named("Bone Meal")
	goldIngot = items.Named("Gold Ingot")
)

// table is a wikitable split into header texts and data rows.
type table struct {
	sel     *goquery.Selection
	headers []string
	rows    []*goquery.Selection
}

func wikitables(doc *goquery.Document) []table {
	var out []table
	doc.Find("table.wikitable").Each(func(_ int, s *goquery.Selection) {
		out = append(out, newTable(s))
	})
	return out
}

func newTable(s *goquery.Selection) table {
	t := table{sel: s}
	trs := s.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		// Rows of nested tables belong to those tables.
		return markup.ClosestTag(tr.Get(0), atom.Table) == s.Get(0)
	})
	if trs.Length() == 0 {
		return t
	}
	trs.First().ChildrenFiltered("th").Each(func(_ int, th *goquery.Selection) {
		t.headers = append(t.headers, strings.TrimSpace(markup.Text(th.Get(0))))
	})
	trs.Slice(1, trs.Length()).Each(func(_ int, tr *goquery.Selection) {
		t.rows = append(t.rows, tr)
	})
	return t
}

// column returns the index of the first header accepted by match, or -1.
func (t table) column(match func(lower string) bool) int {
	for i, h := range t.headers {
		if match(strings.ToLower(h)) {
			return i
		}
	}
	return -1
}

func (t table) hasHeader(match func(lower string) bool) bool {
	return t.column(match) >= 0
}

// cells returns the data cells of a row.
func cells(row *goquery.Selection) []*html.Node {
	return markup.Children(row.Get(0), atom.Td)
}

// percent parses "12.5%" into 0.125.
func percent(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "%") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(text, "%", "")), 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

// fraction parses "20/459" into its ratio.
func fraction(text string) (float64, bool) {
	num, den, ok := strings.Cut(strings.TrimSpace(text), "/")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// admitTable checks the section a table sits in. Edition markers inside the
// table are left to admitRow.
func (r *run) admitTable(n *html.Node, what string) bool {
	if !edition.AncestorIsTarget(n) {
		r.log.Debug("skipping off-target table", zap.String("fragment", what))
		return false
	}
	if r.loc.Excluded(n) {
		r.log.Debug("skipping excluded section", zap.String("fragment", what))
		return false
	}
	return true
}

func (r *run) admitRow(row *goquery.Selection) bool {
	if n := row.Get(0); !edition.IsTarget(n) || !edition.RowIsTarget(n) {
		r.log.Debug("skipping off-target row")
		return false
	}
	return true
}

// extractTrading reads villager trade tables: the wanted column gives the
// inputs and the first item of the given column the output.
func extractTrading(r *run) error {
	for _, t := range wikitables(r.doc) {
		if !r.admitTable(t.sel.Get(0), "trade table") {
			continue
		}
		wanted, given := tradeColumns(t)
		if wanted < 0 || given < 0 {
			continue
		}
		villager := markup.Attr(t.sel.Get(0), "data-description")
		if villager == "" {
			villager = defaultVillagerType
		}

		for _, row := range t.rows {
			cs := cells(row)
			if len(cs) <= max(wanted, given) || !r.admitRow(row) {
				continue
			}
			inputs := items.ResolveLinks(cs[wanted])
			outputs := items.ResolveLinks(cs[given])
			if len(inputs) == 0 || len(outputs) == 0 {
				continue
			}
			meta := map[string]any{
				MetaVillagerType: villager,
				MetaLevel:        strings.TrimSpace(markup.Text(cs[0])),
			}
			if err := r.emit(types.KindTrading, inputs, outputs[:1], meta); err != nil {
				return err
			}
		}
	}
	return nil
}

func tradeColumns(t table) (wanted, given int) {
	wanted = t.column(func(h string) bool { return h == "item wanted" })
	given = t.column(func(h string) bool { return h == "item given" })
	if wanted >= 0 && given >= 0 {
		return wanted, given
	}
	wanted = t.column(func(h string) bool { return strings.Contains(h, "wanted") })
	given = t.column(func(h string) bool { return strings.Contains(h, "given") })
	return wanted, given
}

// MobName derives a display name from a mob page id such as
// "mobs/zombie_villager".
func MobName(pageID string) string {
	id := pageID
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}

// extractDrops reads the first wikitable after the Drops heading of a mob
// page. The mob is the single input of every drop.
func extractDrops(r *run) error {
	anchor := dropsHeading(r.doc)
	if anchor == nil {
		r.log.Debug("no drops section")
		return nil
	}
	tableNode := markup.NextInDocument(anchor, func(n *html.Node) bool {
		return n.DataAtom == atom.Table && markup.HasClass(n, "wikitable")
	})
	if tableNode == nil || !r.admitTable(tableNode, "drops table") {
		return nil
	}

	name := r.page.Mob
	if name == "" {
		name = MobName(r.page.ID)
	}
	mob := items.Named(name)

	t := newTable(goquery.NewDocumentFromNode(tableNode).Selection)
	for _, row := range t.rows {
		cs := cells(row)
		if len(cs) < 2 || !r.admitRow(row) {
			continue
		}
		probability := defaultProbability
		if len(cs) > 2 {
			if p, ok := percent(markup.Text(cs[2])); ok {
				probability = p
			}
		}
		for _, drop := range items.ResolveLinks(cs[0]) {
			meta := map[string]any{MetaProbability: probability}
			if err := r.emit(types.KindMobDrop, []types.Item{mob}, []types.Item{drop}, meta); err != nil {
				return err
			}
		}
	}
	return nil
}

// dropsHeading finds the element with id "Drops", or else the first h2 or h3
// mentioning drops.
func dropsHeading(doc *goquery.Document) *html.Node {
	if s := doc.Find("#Drops").First(); s.Length() > 0 {
		return s.Get(0)
	}
	var found *html.Node
	doc.Find("h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(markup.LowerText(h.Get(0)), "drops") {
			found = h.Get(0)
			return false
		}
		return true
	})
	return found
}

// extractComposting reads composter chance tables: each item of the first
// column composts into bone meal with the second column's chance.
func extractComposting(r *run) error {
	for _, t := range wikitables(r.doc) {
		if !r.admitTable(t.sel.Get(0), "compost table") {
			continue
		}
		if !t.hasHeader(func(h string) bool { return strings.Contains(h, "chance") || strings.Contains(h, "%") }) {
			continue
		}
		for _, row := range t.rows {
			cs := cells(row)
			if len(cs) == 0 || !r.admitRow(row) {
				continue
			}
			rate := defaultSuccessRate
			if len(cs) > 1 {
				if p, ok := percent(markup.Text(cs[1])); ok {
					rate = p
				}
			}
			for _, in := range items.ResolveLinks(cs[0]) {
				meta := map[string]any{MetaSuccessRate: rate}
				if err := r.emit(types.KindComposting, []types.Item{in}, []types.Item{boneMeal}, meta); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// extractBartering reads piglin bartering tables: gold ingots become each
// listed item with the row's chance.
func extractBartering(r *run) error {
	for _, t := range wikitables(r.doc) {
		if !r.admitTable(t.sel.Get(0), "barter table") {
			continue
		}
		itemCol := t.column(func(h string) bool { return strings.Contains(h, "item") })
		chanceCol := t.column(func(h string) bool { return strings.Contains(h, "chance") || strings.Contains(h, "%") })
		if chanceCol < 0 {
			chanceCol = t.column(func(h string) bool { return strings.Contains(h, "weight") })
		}
		if itemCol < 0 || chanceCol < 0 {
			continue
		}

		for _, row := range t.rows {
			cs := cells(row)
			if len(cs) <= max(itemCol, chanceCol) || !r.admitRow(row) {
				continue
			}
			probability := r.barterChance(markup.Text(cs[chanceCol]))
			for _, out := range items.ResolveLinks(cs[itemCol]) {
				meta := map[string]any{MetaProbability: probability}
				if err := r.emit(types.KindBartering, []types.Item{goldIngot}, []types.Item{out}, meta); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *run) barterChance(text string) float64 {
	if p, ok := percent(text); ok {
		return p
	}
	if p, ok := fraction(text); ok {
		return p
	}
	r.log.Debug("unparseable barter chance", zap.String("text", text))
	return defaultProbability
}
