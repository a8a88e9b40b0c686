// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pairing expands a recipe template with animated alternative slots
// into concrete one-output transformations.
//
// Alternative slots shown side by side on the wiki are correlated ("any wool"
// with "the matching dye" gives "that wool"), so expansion pairs entries by
// position or by output rather than taking the cross product.
package pairing

import (
	"github.com/pdiddy/craftgraph/pkg/types"
)

// MetaHasAlternatives is set on every transformation expanded from a template
// with at least one alternative slot.
const MetaHasAlternatives = "has_alternatives"

// Template is one recipe as read from the page.
type Template struct {
	// Fixed holds single-candidate inputs.
	Fixed []types.Item

	// Alternatives holds the animated slots, each with two or more candidates
	// in document order.
	Alternatives [][]types.Item

	// Outputs holds the output candidates, usually one.
	Outputs []types.Item
}

// FromSlots sorts resolved slots into a Template: empty slots are ignored,
// single-item slots become fixed inputs, the rest alternatives.
func FromSlots(slots [][]types.Item, outputs []types.Item) Template {
	var t Template
	for _, s := range slots {
		switch len(s) {
		case 0:
		case 1:
			t.Fixed = append(t.Fixed, s[0])
		default:
			t.Alternatives = append(t.Alternatives, s)
		}
	}
	t.Outputs = outputs
	return t
}

// Empty reports whether the template has no inputs or no outputs. Extractors
// skip empty templates instead of expanding them.
func (t Template) Empty() bool {
	return (len(t.Fixed) == 0 && len(t.Alternatives) == 0) || len(t.Outputs) == 0
}

// Expand turns a template into transformations of the given kind. The context
// metadata (e.g. category) is merged into every result. Results follow
// document order of the varying dimension. An error means a candidate broke
// the Transformation invariants.
func Expand(kind types.Kind, t Template, context map[string]any) ([]types.Transformation, error) {
	var b builder
	b.kind = kind
	b.context = context

	alts := t.Alternatives
	outs := t.Outputs

	switch {
	case len(alts) == 0:
		if err := b.add(t.Fixed, nil, firstOutput(outs), false); err != nil {
			return nil, err
		}

	case len(alts) == 1:
		slot := alts[0]
		indexed := len(outs) == len(slot)
		for i, alt := range slot {
			out := firstOutput(outs)
			if indexed {
				out = outs[i : i+1]
			}
			if err := b.add(t.Fixed, []types.Item{alt}, out, true); err != nil {
				return nil, err
			}
		}

	case outputGuided(alts, outs):
		for oi, out := range outs {
			paired := make([]types.Item, 0, len(alts))
			for _, slot := range alts {
				paired = append(paired, pick(slot, oi, out, len(outs)))
			}
			if err := b.add(t.Fixed, paired, []types.Item{out}, true); err != nil {
				return nil, err
			}
		}

	case sameLengths(alts):
		first := alts[0]
		for i := range first {
			paired := make([]types.Item, 0, len(alts))
			for _, slot := range alts {
				paired = append(paired, slot[i])
			}
			out := firstOutput(outs)
			if len(first) == len(outs) {
				j := indexOf(first, first[i])
				out = outs[j : j+1]
			}
			if err := b.add(t.Fixed, paired, out, true); err != nil {
				return nil, err
			}
		}

	default:
		// Lengths disagree and the outputs give no guidance: only the first
		// slot varies and the remaining slots' variation is dropped.
		for _, alt := range alts[0] {
			if err := b.add(t.Fixed, []types.Item{alt}, firstOutput(outs), true); err != nil {
				return nil, err
			}
		}
	}

	return b.out, nil
}

// outputGuided reports whether several outputs line up with at least one
// alternative slot.
func outputGuided(alts [][]types.Item, outs []types.Item) bool {
	if len(outs) <= 1 {
		return false
	}
	for _, s := range alts {
		if len(s) == len(outs) {
			return true
		}
	}
	return false
}

func sameLengths(alts [][]types.Item) bool {
	for _, s := range alts[1:] {
		if len(s) != len(alts[0]) {
			return false
		}
	}
	return true
}

// pick selects the entry of slot that belongs with output index oi.
func pick(slot []types.Item, oi int, out types.Item, nOut int) types.Item {
	switch {
	case len(slot) == nOut:
		return slot[oi]
	case len(slot) > nOut:
		for _, it := range slot {
			if it.Name == out.Name {
				return it
			}
		}
		// Index 0 is presumed to be a base entry the outputs do not cover.
		return slot[min(oi+1, len(slot)-1)]
	default:
		return slot[oi%len(slot)]
	}
}

// indexOf returns the first position of its name in slot.
func indexOf(slot []types.Item, it types.Item) int {
	for i, s := range slot {
		if s.Name == it.Name {
			return i
		}
	}
	return 0
}

// firstOutput returns the first candidate, or nil so construction fails loudly.
func firstOutput(outs []types.Item) []types.Item {
	if len(outs) == 0 {
		return nil
	}
	return outs[:1]
}

type builder struct {
	kind    types.Kind
	context map[string]any
	out     []types.Transformation
}

func (b *builder) add(fixed, paired []types.Item, outputs []types.Item, alternatives bool) error {
	inputs := make([]types.Item, 0, len(fixed)+len(paired))
	inputs = append(inputs, fixed...)
	inputs = append(inputs, paired...)

	meta := make(map[string]any, len(b.context)+1)
	for k, v := range b.context {
		meta[k] = v
	}
	if alternatives {
		meta[MetaHasAlternatives] = true
	}

	tr, err := types.NewTransformation(b.kind, inputs, outputs, meta)
	if err != nil {
		return err
	}
	b.out = append(b.out, tr)
	return nil
}
