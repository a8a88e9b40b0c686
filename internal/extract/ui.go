// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/craftgraph/internal/items"
	"github.com/pdiddy/craftgraph/internal/markup"
	"github.com/pdiddy/craftgraph/internal/pairing"
	"github.com/pdiddy/craftgraph/pkg/types"
)

// Inventory widget classes.
var (
	craftingUI    = regexp.MustCompile(`mcui.*Crafting.*Table`)
	furnaceUI     = regexp.MustCompile(`mcui.*(Furnace|Smoker)`)
	blastFurnace  = regexp.MustCompile(`mcui.*Blast_Furnace`)
	smokerUI      = regexp.MustCompile(`mcui.*Smoker`)
	smithingUI    = regexp.MustCompile(`mcui.*Smithing.*Table`)
	stonecutterUI = regexp.MustCompile(`mcui.*Stonecutter`)
	brewingUI     = regexp.MustCompile(`mcui.*Brewing.*Stand`)
	grindstoneUI  = regexp.MustCompile(`mcui.*Grindstone`)

	anyInput        = regexp.MustCompile(`^mcui-input`)
	brewingBase     = regexp.MustCompile(`^mcui-input.*base`)
	brewingReagent  = regexp.MustCompile(`^mcui-input.*ingredient`)
	smithingInputNo = regexp.MustCompile(`^mcui-input[123]$`)
)

const categoryKey = "category"

// widget is one inventory UI fragment.
type widget struct {
	sel *goquery.Selection
}

func widgets(doc *goquery.Document, re *regexp.Regexp) []widget {
	var out []widget
	markup.FindByClass(doc.Selection, "span", re).Each(func(_ int, s *goquery.Selection) {
		out = append(out, widget{sel: s})
	})
	return out
}

// slots resolves every span.invslot under the first span with class cls.
// A section without slot wrappers is resolved as one slot.
func (w widget) slots(cls string) ([][]types.Item, bool) {
	sec := w.sel.Find("span." + cls).First()
	if sec.Length() == 0 {
		return nil, false
	}
	var out [][]types.Item
	sec.Find("span.invslot").Each(func(_ int, s *goquery.Selection) {
		out = append(out, items.ResolveSlot(s))
	})
	if len(out) == 0 {
		out = append(out, items.ResolveSlot(sec))
	}
	return out, true
}

// output resolves the candidates of the output slot.
func (w widget) output() []types.Item {
	sec := w.sel.Find("span.mcui-output").First()
	if sec.Length() == 0 {
		return nil
	}
	return items.ResolveSlot(sec)
}

// expand runs a template through the pairing algorithm and emits the results.
func (r *run) expand(kind types.Kind, t pairing.Template, context map[string]any) error {
	ts, err := pairing.Expand(kind, t, context)
	if err != nil {
		return err
	}
	r.set.EmitAll(ts)
	return nil
}

func extractCrafting(r *run) error {
	for _, w := range widgets(r.doc, craftingUI) {
		node := w.sel.Get(0)
		if !r.admit(node, "crafting") {
			continue
		}
		slots, ok := w.slots("mcui-input")
		if !ok {
			continue
		}
		t := pairing.FromSlots(slots, w.output())
		if t.Empty() {
			r.log.Debug("skipping incomplete crafting grid")
			continue
		}
		var context map[string]any
		if cat, ok := r.loc.Category(node); ok {
			context = map[string]any{categoryKey: cat}
		}
		if err := r.expand(types.KindCrafting, t, context); err != nil {
			return err
		}
	}
	return nil
}

// furnaceKind maps a furnace widget to its kind. Blast furnaces are checked
// before plain furnaces since both class names contain "Furnace".
func furnaceKind(w widget) types.Kind {
	n := w.sel.Get(0)
	switch {
	case markup.ClassMatches(n, blastFurnace):
		return types.KindBlastFurnace
	case markup.ClassMatches(n, smokerUI):
		return types.KindSmoker
	default:
		return types.KindSmelting
	}
}

// extractSmelting reads furnace, blast furnace and smoker widgets. Only the
// ingredient slot is an input; the fuel slot is ignored.
func extractSmelting(r *run) error {
	for _, w := range widgets(r.doc, furnaceUI) {
		if !r.admit(w.sel.Get(0), "smelting") {
			continue
		}
		slots, ok := w.slots("mcui-input")
		if !ok {
			continue
		}
		t := pairing.FromSlots(slots, w.output())
		if t.Empty() {
			continue
		}
		if err := r.expand(furnaceKind(w), t, nil); err != nil {
			return err
		}
	}
	return nil
}

// extractSmithing reads the template, base and material slots. Recipes with
// fewer than two resolved inputs are skipped.
func extractSmithing(r *run) error {
	for _, w := range widgets(r.doc, smithingUI) {
		if !r.admit(w.sel.Get(0), "smithing") {
			continue
		}
		var slots [][]types.Item
		markup.FindByClass(w.sel, "span", smithingInputNo).Each(func(_ int, s *goquery.Selection) {
			slots = append(slots, items.ResolveSlot(s))
		})
		t := pairing.FromSlots(slots, w.output())
		if t.Empty() || len(t.Fixed)+len(t.Alternatives) < 2 {
			continue
		}
		if err := r.expand(types.KindSmithing, t, nil); err != nil {
			return err
		}
	}
	return nil
}

// extractStonecutter emits one transformation per output. When the input
// slot cycles through as many candidates as the output, they are paired by
// position; otherwise every input candidate yields every output.
func extractStonecutter(r *run) error {
	for _, w := range widgets(r.doc, stonecutterUI) {
		if !r.admit(w.sel.Get(0), "stonecutter") {
			continue
		}
		sec := w.sel.Find("span.mcui-input").First()
		if sec.Length() == 0 {
			continue
		}
		inputs := items.ResolveSlot(sec)
		outputs := w.output()
		if len(inputs) == 0 || len(outputs) == 0 {
			continue
		}

		if len(inputs) > 1 && len(inputs) == len(outputs) {
			for i := range outputs {
				if err := r.emit(types.KindStonecutter, inputs[i:i+1], outputs[i:i+1], nil); err != nil {
					return err
				}
			}
			continue
		}
		for _, in := range inputs {
			for _, out := range outputs {
				if err := r.emit(types.KindStonecutter, []types.Item{in}, []types.Item{out}, nil); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// extractBrewing reads the base potion and reagent slots.
func extractBrewing(r *run) error {
	for _, w := range widgets(r.doc, brewingUI) {
		if !r.admit(w.sel.Get(0), "brewing") {
			continue
		}
		base := markup.FirstByClass(w.sel, "span", brewingBase)
		if base.Length() == 0 {
			base = w.sel.Find("span.mcui-input").First()
		}
		reagent := markup.FirstByClass(w.sel, "span", brewingReagent)

		var slots [][]types.Item
		if base.Length() > 0 {
			slots = append(slots, items.ResolveSlot(base))
		}
		if reagent.Length() > 0 && !reagent.IsSelection(base) {
			slots = append(slots, items.ResolveSlot(reagent))
		}
		t := pairing.FromSlots(slots, w.output())
		if t.Empty() {
			continue
		}
		if err := r.expand(types.KindBrewing, t, nil); err != nil {
			return err
		}
	}
	return nil
}

// extractGrindstone treats every input slot of the widget as an input.
func extractGrindstone(r *run) error {
	for _, w := range widgets(r.doc, grindstoneUI) {
		if !r.admit(w.sel.Get(0), "grindstone") {
			continue
		}
		var slots [][]types.Item
		markup.FindByClass(w.sel, "span", anyInput).Each(func(_ int, s *goquery.Selection) {
			slots = append(slots, items.ResolveSlot(s))
		})
		t := pairing.FromSlots(slots, w.output())
		if t.Empty() {
			r.log.Debug("skipping incomplete grindstone", zap.Int("slots", len(slots)))
			continue
		}
		if err := r.expand(types.KindGrindstone, t, nil); err != nil {
			return err
		}
	}
	return nil
}
