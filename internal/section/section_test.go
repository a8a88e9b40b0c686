// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/pdiddy/craftgraph/internal/markup"
)

func target(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := markup.ParseString("<html><body>" + body + "</body></html>")
	require.NoError(t, err)
	sel := doc.Find("#target")
	require.Equal(t, 1, sel.Length())
	return sel.Get(0)
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{
			name: "h2 heading",
			body: `<div><h2><span class="mw-headline" id="Building_blocks">Building blocks</span></h2>
				<div><span id="target"></span></div></div>`,
			want:   "building_blocks",
			wantOK: true,
		},
		{
			name: "h3 heading",
			body: `<div><h3><span class="mw-headline" id="Redstone">Redstone</span></h3>
				<div><span id="target"></span></div></div>`,
			want:   "redstone",
			wantOK: true,
		},
		{
			name: "special characters",
			body: `<div><h2><span class="mw-headline" id="Test">Test: Category!</span></h2>
				<div><span id="target"></span></div></div>`,
			want:   "test_category",
			wantOK: true,
		},
		{
			name: "text wins over id",
			body: `<div><h2><span class="mw-headline" id="Utilities">Utilities and Tools</span></h2>
				<div><span id="target"></span></div></div>`,
			want:   "utilities_and_tools",
			wantOK: true,
		},
		{
			name: "upper case",
			body: `<h2><span class="mw-headline" id="MATERIALS">MATERIALS</span></h2><span id="target"></span>`,
			want:   "materials",
			wantOK: true,
		},
		{
			name: "deeply nested fragment",
			body: `<div><h2><span class="mw-headline" id="Transportation">Transportation</span></h2>
				<div><div><div><span id="target"></span></div></div></div></div>`,
			want:   "transportation",
			wantOK: true,
		},
		{
			name: "closest heading wins",
			body: `<div><h2><span class="mw-headline" id="General">General</span></h2>
				<div><h3><span class="mw-headline" id="Combat">Combat</span></h3>
				<div><span id="target"></span></div></div></div>`,
			want:   "combat",
			wantOK: true,
		},
		{
			name: "modern heading wrapper",
			body: `<div class="mw-heading mw-heading2"><h2 id="Foodstuffs">Foodstuffs</h2>
				<span class="mw-editsection">[edit]</span></div><p><span id="target"></span></p>`,
			want:   "foodstuffs",
			wantOK: true,
		},
		{
			name: "no heading",
			body: `<div><span id="target"></span></div>`,
		},
		{
			name: "removed recipes",
			body: `<div><h2><span class="mw-headline" id="Removed_recipes">Removed recipes</span></h2>
				<div><span id="target"></span></div></div>`,
		},
		{
			name: "changed recipes",
			body: `<div><h2><span class="mw-headline" id="Changed_recipes">Changed recipes</span></h2>
				<div><span id="target"></span></div></div>`,
		},
	}
	l := NewLocator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.Category(target(t, tt.body))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{
			name: "removed recipes",
			body: `<h3><span class="mw-headline" id="Removed_recipes">Removed recipes</span></h3>
				<table><tr><td><span id="target"></span></td></tr></table>`,
			want: true,
		},
		{
			name: "changed recipes",
			body: `<h3><span class="mw-headline" id="Changed_recipes">Changed recipes</span></h3>
				<span id="target"></span>`,
			want: true,
		},
		{
			name: "current recipes",
			body: `<h3><span class="mw-headline" id="Current_recipes">Current recipes</span></h3>
				<span id="target"></span>`,
		},
		{
			name: "no section",
			body: `<div><span id="target"></span></div>`,
		},
		{
			name: "after next section of equal level",
			body: `<h3><span class="mw-headline" id="Removed_recipes">Removed recipes</span></h3>
				<p>old</p>
				<h3><span class="mw-headline" id="Blocks">Blocks</span></h3>
				<span id="target"></span>`,
		},
		{
			name: "subsection of an excluded section",
			body: `<h2><span class="mw-headline" id="Removed_recipes">Removed recipes</span></h2>
				<h3><span class="mw-headline" id="Tools">Tools</span></h3>
				<span id="target"></span>`,
			want: true,
		},
		{
			name: "subsection after the excluded section closed",
			body: `<h2><span class="mw-headline" id="Removed_recipes">Removed recipes</span></h2>
				<h2><span class="mw-headline" id="Recipes">Recipes</span></h2>
				<h3><span class="mw-headline" id="Tools">Tools</span></h3>
				<span id="target"></span>`,
		},
	}
	l := NewLocator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Excluded(target(t, tt.body)))
		})
	}
}

func TestCustomExclusions(t *testing.T) {
	body := `<h3><span class="mw-headline" id="Experimental">Experimental</span></h3><span id="target"></span>`

	assert.False(t, NewLocator().Excluded(target(t, body)))
	assert.True(t, NewLocator("Experimental").Excluded(target(t, body)))
	assert.True(t, NewLocator("experimental").Excluded(target(t, body)))
}

func TestNearest(t *testing.T) {
	n := target(t, `<h2 id="Smelting"><span class="mw-headline" id="Smelting_recipes">Smelting recipes</span></h2><span id="target"></span>`)
	h, ok := NewLocator().Nearest(n)
	require.True(t, ok)
	assert.Equal(t, Heading{ID: "Smelting_recipes", Text: "Smelting recipes", Level: 2}, h)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "decoration_blocks", Slug("Decoration blocks"))
	assert.Equal(t, "test_category", Slug("  Test: Category! "))
	assert.Equal(t, "dyed_items", Slug("Dyed   items"))
	assert.Equal(t, "", Slug("!!"))
	assert.Equal(t, "décor_blocks", Slug("Décor blocks"))
	assert.Equal(t, "naïve_café", Slug("Naïve\u00a0Café!"))
}
