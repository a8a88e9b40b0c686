// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is the mechanism that turns input items into output items.
type Kind string

const (
	KindBartering    Kind = "bartering"
	KindBlastFurnace Kind = "blast_furnace"
	KindBrewing      Kind = "brewing"
	KindComposting   Kind = "composting"
	KindCrafting     Kind = "crafting"
	KindGrindstone   Kind = "grindstone"
	KindMobDrop      Kind = "mob_drop"
	KindSmelting     Kind = "smelting"
	KindSmithing     Kind = "smithing"
	KindSmoker       Kind = "smoker"
	KindStonecutter  Kind = "stonecutter"
	KindTrading      Kind = "trading"
)

// Kinds lists every transformation kind in lexical order.
var Kinds = []Kind{
	KindBartering, KindBlastFurnace, KindBrewing, KindComposting,
	KindCrafting, KindGrindstone, KindMobDrop, KindSmelting,
	KindSmithing, KindSmoker, KindStonecutter, KindTrading,
}

// Valid reports whether k is one of the fixed kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Item is a game item identified by its canonical display name. Two items
// with the same name are the same item, whatever their URLs.
type Item struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Construction-invariant violations. They indicate a defect in the code
// building the transformation, not bad input markup.
var (
	ErrNoInputs  = errors.New("transformation must have at least one input")
	ErrNoOutputs = errors.New("transformation must have at least one output")
)

// Transformation is one fact of the graph: inputs become outputs through Kind.
// Inputs and outputs are collapsed by item name at construction and keep
// first-seen order. A Transformation is never mutated after NewTransformation.
type Transformation struct {
	Kind     Kind           `json:"kind" yaml:"kind"`
	Inputs   []Item         `json:"inputs" yaml:"inputs"`
	Outputs  []Item         `json:"outputs" yaml:"outputs"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

// NewTransformation validates and builds a Transformation. Metadata is copied;
// a nil map becomes empty.
func NewTransformation(kind Kind, inputs, outputs []Item, metadata map[string]any) (Transformation, error) {
	if !kind.Valid() {
		return Transformation{}, fmt.Errorf("unknown transformation kind %q", kind)
	}
	ins := uniqueByName(inputs)
	outs := uniqueByName(outputs)
	if len(ins) == 0 {
		return Transformation{}, fmt.Errorf("%s: %w", kind, ErrNoInputs)
	}
	if len(outs) == 0 {
		return Transformation{}, fmt.Errorf("%s: %w", kind, ErrNoOutputs)
	}

	meta := make(map[string]any, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}

	return Transformation{
		Kind:     kind,
		Inputs:   ins,
		Outputs:  outs,
		Metadata: meta,
	}, nil
}

func uniqueByName(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Name == "" || seen[it.Name] {
			continue
		}
		seen[it.Name] = true
		out = append(out, it)
	}
	return out
}

// InputNames returns the input names in stored order.
func (t Transformation) InputNames() []string {
	return names(t.Inputs)
}

// OutputNames returns the output names in stored order.
func (t Transformation) OutputNames() []string {
	return names(t.Outputs)
}

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

// Signature is the canonical identity used for deduplication: kind, sorted
// input names, sorted output names and sorted metadata entries. Metadata
// values are compared by their JSON encoding.
func (t Transformation) Signature() string {
	ins := t.InputNames()
	outs := t.OutputNames()
	sort.Strings(ins)
	sort.Strings(outs)

	keys := make([]string, 0, len(t.Metadata))
	for k := range t.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(t.Kind))
	b.WriteByte(0x1e)
	b.WriteString(strings.Join(ins, "\x1f"))
	b.WriteByte(0x1e)
	b.WriteString(strings.Join(outs, "\x1f"))
	b.WriteByte(0x1e)
	for _, k := range keys {
		v, err := json.Marshal(t.Metadata[k])
		if err != nil {
			v = []byte(fmt.Sprintf("%v", t.Metadata[k]))
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.Write(v)
		b.WriteByte(0x1f)
	}
	return b.String()
}
