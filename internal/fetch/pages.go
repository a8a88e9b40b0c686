// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"strings"

	"github.com/pdiddy/craftgraph/internal/extract"
	"github.com/pdiddy/craftgraph/pkg/types"
)

// Source is one wiki article the fetcher knows how to cache and extract.
type Source struct {
	ID      string
	Kind    types.PageKind
	Article string
	Mob     string
}

// Path returns the cache path of the source relative to the pages directory.
func (s Source) Path() string {
	return s.ID + ".html"
}

// Pages are the mechanic pages, in extraction order.
var Pages = []Source{
	{ID: "crafting", Kind: types.PageCrafting, Article: "Crafting"},
	{ID: "smelting", Kind: types.PageSmelting, Article: "Smelting"},
	{ID: "trading", Kind: types.PageTrading, Article: "Trading"},
	{ID: "smithing", Kind: types.PageSmithing, Article: "Smithing"},
	{ID: "stonecutter", Kind: types.PageStonecutter, Article: "Stonecutter"},
	{ID: "brewing", Kind: types.PageBrewing, Article: "Brewing"},
	{ID: "composting", Kind: types.PageComposting, Article: "Composter"},
	{ID: "grindstone", Kind: types.PageGrindstone, Article: "Grindstone"},
	{ID: "bartering", Kind: types.PageBartering, Article: "Bartering"},
	{ID: "tool", Kind: types.PageCrafting, Article: "Tool"},
}

// MobIDs lists the mobs whose drop tables are fetched.
var MobIDs = []string{
	// passive
	"chicken", "cow", "pig", "sheep", "rabbit", "horse", "donkey", "mule", "llama",
	"fox", "cat", "parrot", "bat", "cod", "salmon", "tropical_fish", "pufferfish",
	"squid", "glow_squid", "turtle", "frog", "tadpole", "axolotl", "goat", "sniffer",
	"armadillo",
	// neutral
	"wolf", "spider", "cave_spider", "enderman", "bee", "iron_golem", "polar_bear",
	"panda", "dolphin", "zombified_piglin", "piglin", "piglin_brute",
	// hostile
	"zombie", "skeleton", "creeper", "witch", "slime", "magma_cube", "ghast", "blaze",
	"phantom", "drowned", "husk", "stray", "shulker", "guardian", "elder_guardian",
	"endermite", "silverfish", "vindicator", "evoker", "vex", "pillager", "ravager",
	"hoglin", "zoglin", "wither_skeleton", "bogged", "breeze",
	// bosses
	"ender_dragon", "wither", "warden",
}

// Mobs returns a drops source for each of ids. The article title is the
// display name with spaces replaced by underscores.
func Mobs(ids []string) []Source {
	out := make([]Source, 0, len(ids))
	for _, id := range ids {
		name := extract.MobName(id)
		out = append(out, Source{
			ID:      "mobs/" + id,
			Kind:    types.PageDrops,
			Article: strings.ReplaceAll(name, " ", "_"),
			Mob:     name,
		})
	}
	return out
}

// Sources returns the full fetch list: mechanic pages, then mobs unless skipped.
func Sources(skipMobs bool) []Source {
	out := append([]Source(nil), Pages...)
	if !skipMobs {
		out = append(out, Mobs(MobIDs)...)
	}
	return out
}
