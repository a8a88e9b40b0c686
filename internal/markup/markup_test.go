// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markup

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const page = `<html><body>
<h2><span class="mw-headline" id="Tools">Tools</span><span class="mw-editsection">[edit]</span></h2>
<div class="mcui mcui-Crafting_Table">
  <span class="mcui-input"><span class="invslot">A</span><span class="invslot">B</span></span>
  <span class="mcui-output"><span class="invslot">Out</span></span>
</div>
<table><tr><td><a href="/w/Stick" title="Stick">Stick<!-- hidden --></a><script>x()</script></td></tr></table>
<p id="after">after</p>
</body></html>`

func TestClassHelpers(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	ui := doc.Find("div").Get(0)
	assert.Equal(t, []string{"mcui", "mcui-Crafting_Table"}, Classes(ui))
	assert.True(t, HasClass(ui, "mcui"))
	assert.False(t, HasClass(ui, "mcui-input"))
	assert.True(t, ClassMatches(ui, regexp.MustCompile(`^mcui-Crafting`)))
	assert.Nil(t, Classes(nil))

	slots := FindByClass(doc.Selection, "span", regexp.MustCompile(`^invslot$`))
	assert.Equal(t, 3, slots.Length())
	assert.Equal(t, "A", Text(FirstByClass(doc.Selection, "span", regexp.MustCompile(`^invslot$`)).Get(0)))
	assert.Equal(t, 0, FirstByClass(doc.Selection, "span", regexp.MustCompile(`^nope$`)).Length())
}

func TestAttr(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)
	a := doc.Find("a").Get(0)
	assert.Equal(t, "/w/Stick", Attr(a, "href"))
	assert.Equal(t, "", Attr(a, "missing"))
	assert.Equal(t, "", Attr(nil, "href"))
}

func TestText(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)
	assert.Equal(t, "Tools", Text(doc.Find("h2").Get(0)))
	assert.Equal(t, "Stick", Text(doc.Find("td").Get(0)))
	assert.Equal(t, "tools", LowerText(doc.Find("h2").Get(0)))
	assert.Equal(t, "", Text(nil))
}

func TestTreeNavigation(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	a := doc.Find("a").Get(0)
	assert.True(t, IsElement(a, atom.A))
	assert.False(t, IsElement(a, atom.Div, atom.Span))
	assert.False(t, IsElement(nil, atom.A))

	td := ClosestTag(a, atom.Td)
	require.NotNil(t, td)
	assert.Equal(t, atom.Td, td.DataAtom)
	assert.Nil(t, ClosestTag(a, atom.Ul))
	assert.Nil(t, Closest(nil, func(*html.Node) bool { return true }))

	ui := doc.Find("div").Get(0)
	assert.Len(t, Children(ui), 2)
	assert.Len(t, Children(ui, atom.P), 0)
	assert.Empty(t, Children(nil))

	h2 := doc.Find("h2").Get(0)
	next := NextInDocument(h2, func(n *html.Node) bool { return IsElement(n, atom.P) })
	require.NotNil(t, next)
	assert.Equal(t, "after", Attr(next, "id"))

	// Descendants of the start node are not candidates.
	assert.Nil(t, NextInDocument(h2, func(n *html.Node) bool { return HasClass(n, "mw-headline") }))
}
