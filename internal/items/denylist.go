// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package items

// educationOnly lists names that exist only in the educational variant
// (chemistry elements and compounds, colored torches, balloons and so on).
var educationOnly = toSet(
	// Chlorides
	"Cerium Chloride", "Mercuric Chloride", "Potassium Chloride", "Tungsten Chloride",

	// Elements
	"Aluminum", "Argon", "Barium", "Beryllium", "Bismuth", "Boron", "Bromine",
	"Cadmium", "Calcium", "Carbon", "Cerium", "Cesium", "Chlorine", "Chromium",
	"Cobalt", "Copper", "Fluorine", "Gadolinium", "Gallium", "Germanium",
	"Helium", "Hydrogen", "Iodine", "Krypton", "Lanthanum", "Lithium",
	"Magnesium", "Mercury", "Neon", "Nickel", "Nitrogen", "Oxygen",
	"Phosphorus", "Polonium", "Potassium", "Radon", "Rubidium", "Scandium",
	"Selenium", "Silicon", "Silver", "Sodium", "Strontium", "Sulfur",
	"Tantalum", "Tellurium", "Tin", "Titanium", "Tungsten", "Uranium",
	"Xenon", "Yttrium", "Zinc",

	// Compounds
	"Ammonia", "Barium Sulfate", "Benzene", "Boron Trioxide", "Calcium Bromide",
	"Calcium Chloride", "Crude Oil", "Glue", "Hydrogen Peroxide", "Ice Bomb",
	"Iron Sulfide", "Latex", "Lithium Hydride", "Magnesium Nitrate",
	"Magnesium Oxide", "Polyethylene", "Potassium Iodide", "Salt", "Soap",
	"Sodium Acetate", "Sodium Fluoride", "Sodium Hydride", "Sodium Hypochlorite",
	"Sodium Oxide", "Sugar", "Sulfate", "Water",

	// Colored torches
	"Blue Torch", "Red Torch", "Purple Torch", "Green Torch",

	// Sparklers
	"Blue Sparkler", "Red Sparkler", "Purple Sparkler", "Green Sparkler",
	"Orange Sparkler", "White Sparkler",

	// Glow sticks
	"Blue Glow Stick", "Red Glow Stick", "Purple Glow Stick", "Green Glow Stick",
	"Orange Glow Stick", "White Glow Stick", "Yellow Glow Stick",

	// Balloons
	"White Balloon", "Orange Balloon", "Magenta Balloon", "Light Blue Balloon",
	"Yellow Balloon", "Lime Balloon", "Pink Balloon", "Gray Balloon",
	"Light Gray Balloon", "Cyan Balloon", "Purple Balloon", "Blue Balloon",
	"Brown Balloon", "Green Balloon", "Red Balloon", "Black Balloon",

	// Other
	"Bleach", "Heat Block", "Super Fertilizer", "Hardened Glass",
	"Hardened Glass Pane", "Hardened Stained Glass", "Hardened Stained Glass Pane",
	"Colored Torch", "Underwater Torch", "Underwater TNT", "Element Constructor",
	"Compound Creator", "Material Reducer", "Lab Table", "Portfolio",
	"Chalkboard", "Poster", "Slate", "Allow", "Deny", "Border", "Camera", "NPC",
)

// targetKeep overrides educationOnly for target-edition items whose names
// collide with it. "Ink Sac" is deliberately absent from both sets.
var targetKeep = toSet(
	"Copper Ingot", "Copper Block", "Copper Ore", "Raw Copper",
	"Sugar Cane", "Sugar",
	"Ice", "Packed Ice", "Blue Ice",
)

func toSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// IsOffTargetName reports whether name is off-target-platform-only content.
func IsOffTargetName(name string) bool {
	if targetKeep[name] {
		return false
	}
	return educationOnly[name]
}
