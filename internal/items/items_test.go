// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package items

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/craftgraph/internal/markup"
	"github.com/pdiddy/craftgraph/pkg/types"
)

func parse(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := markup.ParseString("<html><body>" + body + "</body></html>")
	require.NoError(t, err)
	return doc
}

func resolveFirst(t *testing.T, body string) (types.Item, bool) {
	t.Helper()
	doc := parse(t, body)
	sel := doc.Find("a#target")
	require.Equal(t, 1, sel.Length())
	return Resolve(sel.Get(0))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   types.Item
		wantOK bool
	}{
		{
			name:   "valid link",
			body:   `<a id="target" href="/w/Iron_Ingot">Iron Ingot</a>`,
			want:   types.Item{Name: "Iron Ingot", URL: "https://minecraft.wiki/w/Iron_Ingot"},
			wantOK: true,
		},
		{
			name:   "title attribute wins",
			body:   `<a id="target" href="/w/Planks" title="Oak Planks">planks</a>`,
			want:   types.Item{Name: "Oak Planks", URL: "https://minecraft.wiki/w/Planks"},
			wantOK: true,
		},
		{
			name:   "escaped path",
			body:   `<a id="target" href="/w/Jack_o%27Lantern">x</a>`,
			want:   types.Item{Name: "Jack o'Lantern", URL: "https://minecraft.wiki/w/Jack_o%27Lantern"},
			wantOK: true,
		},
		{
			name: "external link",
			body: `<a id="target" href="https://example.com/w/Stone">Stone</a>`,
		},
		{
			name: "missing href",
			body: `<a id="target">Stone</a>`,
		},
		{
			name: "infobox caption",
			body: `<div class="infobox-imagecaption"><a id="target" href="/w/Stone">Stone</a></div>`,
		},
		{
			name: "education denylist",
			body: `<a id="target" href="/w/Balloon" title="Red Balloon">Red Balloon</a>`,
		},
		{
			name:   "allow-list override",
			body:   `<a id="target" href="/w/Sugar">Sugar</a>`,
			want:   types.Item{Name: "Sugar", URL: "https://minecraft.wiki/w/Sugar"},
			wantOK: true,
		},
		{
			name: "off-target superscript in the same cell",
			body: `<table><tr><td><a href="/w/Stone">Stone</a>
				<a id="target" href="/w/Compound" title="Mystery Block">Mystery Block</a> <sup>[BE only]</sup></td></tr></table>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveFirst(t, tt.body)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveKeepsNeighbourOfAnnotatedLink(t *testing.T) {
	doc := parse(t, `<ul><li><a id="target" href="/w/Stone">Stone</a>,
		<a href="/w/Element">Element</a><sup>Education Edition only</sup></li></ul>`)

	stone, ok := Resolve(doc.Find("a#target").Get(0))
	require.True(t, ok)
	assert.Equal(t, "Stone", stone.Name)

	_, ok = Resolve(doc.Find(`a[href="/w/Element"]`).Get(0))
	assert.False(t, ok)
}

func TestResolveNonLink(t *testing.T) {
	doc := parse(t, `<span id="target">x</span>`)
	_, ok := Resolve(doc.Find("span#target").Get(0))
	assert.False(t, ok)
	_, ok = Resolve(nil)
	assert.False(t, ok)
}

func TestNameFromPath(t *testing.T) {
	assert.Equal(t, "Iron Ingot", NameFromPath("/w/Iron_Ingot"))
	assert.Equal(t, "Potion", NameFromPath("/w/Potion#Awkward"))
	assert.Equal(t, "Jack o'Lantern", NameFromPath("/w/Jack_o%27Lantern"))
}

func TestIsOffTargetName(t *testing.T) {
	assert.True(t, IsOffTargetName("Copper"))
	assert.False(t, IsOffTargetName("Copper Ingot"))
	assert.False(t, IsOffTargetName("Ink Sac"))
	assert.False(t, IsOffTargetName("Sugar"))
	assert.True(t, IsOffTargetName("Lab Table"))
}

func TestResolveSlot(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "single item",
			body: `<span class="invslot"><span class="invslot-item"><a href="/w/Book" title="Book">Book</a></span></span>`,
			want: []string{"Book"},
		},
		{
			name: "animated alternatives keep order and duplicates",
			body: `<span class="invslot animated">
				<span class="invslot-item"><a href="/w/Oak_Planks">Oak</a></span>
				<span class="invslot-item"><a href="/w/Spruce_Planks">Spruce</a></span>
				<span class="invslot-item"><a href="/w/Oak_Planks">Oak</a></span>
			</span>`,
			want: []string{"Oak Planks", "Spruce Planks", "Oak Planks"},
		},
		{
			name: "drops unresolvable containers",
			body: `<span class="invslot animated">
				<span class="invslot-item"><a href="/w/Stick">Stick</a></span>
				<span class="invslot-item"><a href="/w/Heat_Block" title="Heat Block">Heat</a></span>
				<span class="invslot-item"><img src="x.png"></span>
			</span>`,
			want: []string{"Stick"},
		},
		{
			name: "empty slot",
			body: `<span class="invslot"></span>`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.body)
			got := ResolveSlot(doc.Find("span.invslot").First())
			var names []string
			for _, it := range got {
				names = append(names, it.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestResolveLinks(t *testing.T) {
	doc := parse(t, `<td id="cell">2 × <a href="/w/Emerald">Emerald</a> + <a href="/w/Book">Book</a> <a href="#note">note</a></td>`)
	cell := doc.Find("body").Get(0)
	got := ResolveLinks(cell)
	require.Len(t, got, 2)
	assert.Equal(t, "Emerald", got[0].Name)
	assert.Equal(t, "Book", got[1].Name)
}
