// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package edition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/pdiddy/craftgraph/internal/markup"
)

func fragment(t *testing.T, doc, selector string) *html.Node {
	t.Helper()
	d, err := markup.ParseString(doc)
	require.NoError(t, err)
	sel := d.Find(selector)
	require.Equal(t, 1, sel.Length(), "selector %q", selector)
	return sel.Get(0)
}

func TestIsTarget(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{
			name: "unspecified content",
			doc:  `<div><span class="frag">Crafting recipe</span></div>`,
			want: true,
		},
		{
			name: "bedrock in own text",
			doc:  `<div><span class="frag">Bedrock Edition recipe</span></div>`,
			want: false,
		},
		{
			name: "education in own text",
			doc:  `<div><span class="frag">Minecraft Education chemistry</span></div>`,
			want: false,
		},
		{
			name: "java edition marker",
			doc:  `<div><span class="frag">Java Edition recipe</span></div>`,
			want: true,
		},
		{
			name: "bedrock parent section without java",
			doc:  `<section><p>Bedrock Edition</p><span class="frag">recipe</span></section>`,
			want: false,
		},
		{
			name: "parent names both editions",
			doc:  `<div><p>Java Edition and Bedrock Edition</p><span class="frag">recipe</span></div>`,
			want: true,
		},
		{
			name: "row cell with dual markers",
			doc: `<table><tr><td><span class="frag">recipe</span></td>
				<td>Bedrock and Minecraft Education</td></tr></table>`,
			want: false,
		},
		{
			name: "row cell with only-superscript",
			doc: `<table><tr><td><span class="frag">recipe</span></td>
				<td>Note<sup>[BE only]</sup></td></tr></table>`,
			want: false,
		},
		{
			name: "row cell with java-only superscript",
			doc: `<table><tr><td><span class="frag">recipe</span></td>
				<td>Note<sup>[JE only]</sup></td></tr></table>`,
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := fragment(t, "<html><body>"+tt.doc+"</body></html>", "span.frag")
			assert.Equal(t, tt.want, IsTarget(n))
		})
	}
}

func TestIsTargetNil(t *testing.T) {
	assert.True(t, IsTarget(nil))
}

func TestIsOffTargetOnly(t *testing.T) {
	assert.True(t, IsOffTargetOnly("Bedrock Edition only"))
	assert.True(t, IsOffTargetOnly("[BE only]"))
	assert.True(t, IsOffTargetOnly("EE only"))
	assert.True(t, IsOffTargetOnly("Education only"))
	assert.False(t, IsOffTargetOnly("Java Edition only"))
	assert.False(t, IsOffTargetOnly("Bedrock Edition"))
	assert.False(t, IsOffTargetOnly("[1]"))
}

func TestAncestorIsTarget(t *testing.T) {
	doc := `<div><p>Bedrock Edition</p><table class="t"><tr><td>x</td></tr></table></div>`
	assert.False(t, AncestorIsTarget(fragment(t, doc, "table.t")))

	doc = `<div><p>Bedrock Edition and Java Edition</p><table class="t"><tr><td>x</td></tr></table></div>`
	assert.True(t, AncestorIsTarget(fragment(t, doc, "table.t")))

	// A marker inside the table itself is not an ancestor concern.
	doc = `<table class="t"><tr><td>Kelp<sup>Bedrock Edition only</sup></td></tr></table>`
	tbl := fragment(t, doc, "table.t")
	assert.True(t, AncestorIsTarget(tbl))
	assert.False(t, IsTarget(tbl))
}
