// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/craftgraph/internal/export"
	"github.com/pdiddy/craftgraph/pkg/types"
)

func item(name string) types.Item {
	return types.Item{Name: name, URL: "https://minecraft.wiki/w/" + strings.ReplaceAll(name, " ", "_")}
}

func issuesOf(rep Report, check string) []Issue {
	var out []Issue
	for _, is := range rep.Issues {
		if is.Check == check {
			out = append(out, is)
		}
	}
	return out
}

func TestCheckClean(t *testing.T) {
	itemList := []types.Item{item("Coal"), item("Stick"), item("Torch"), item("Zombie"), item("Rotten Flesh")}
	rows := []export.Row{
		{Kind: "crafting", InputItems: []string{"Coal", "Stick"}, OutputItems: []string{"Torch"}, Metadata: map[string]any{}},
		{Kind: "mob_drop", InputItems: []string{"Zombie"}, OutputItems: []string{"Rotten Flesh"}, Metadata: map[string]any{"probability": 1.0}},
	}
	rep := Check(itemList, rows)

	assert.Empty(t, rep.Issues)
	assert.False(t, rep.HasErrors())
	assert.Equal(t, map[string]int{"crafting": 1, "mob_drop": 1}, rep.KindCounts)
	assert.Equal(t, 5, rep.Items)
}

func TestCheckItems(t *testing.T) {
	itemList := []types.Item{
		item("Coal"), item("Coal"),
		{Name: " ", URL: "https://minecraft.wiki/w/_"},
		{Name: "Stick", URL: "https://example.org/Stick"},
		item("Bedrock Edition Thing"),
		item("Magnesium"),
	}
	rep := Check(itemList, nil)

	require.Len(t, issuesOf(rep, CheckDuplicateItem), 1)
	assert.Contains(t, issuesOf(rep, CheckDuplicateItem)[0].Message, `"Coal" appears 2 times`)
	assert.Len(t, issuesOf(rep, CheckEmptyName), 1)
	assert.Len(t, issuesOf(rep, CheckItemURL), 1)
	assert.Len(t, issuesOf(rep, CheckOffTarget), 2)
	assert.Equal(t, 2, rep.Count(SeverityError))
	assert.True(t, rep.HasErrors())
}

func TestCheckRows(t *testing.T) {
	itemList := []types.Item{item("Zombie"), item("Bone Meal"), item("Kelp"), item("Emerald")}
	rows := []export.Row{
		{Kind: "fishing", InputItems: []string{"Kelp"}, OutputItems: []string{"Emerald"}, Metadata: map[string]any{}},
		{Kind: "mob_drop", InputItems: []string{"Zombie"}, OutputItems: []string{"Bone Meal"}, Metadata: map[string]any{}},
		{Kind: "composting", InputItems: []string{"Kelp"}, OutputItems: []string{"Bone Meal"}, Metadata: map[string]any{"success_rate": 1.5}},
		{Kind: "crafting", InputItems: []string{}, OutputItems: []string{"Emerald"}, Metadata: map[string]any{}},
		{Kind: "crafting", InputItems: []string{"Kelp", "Ghost"}, OutputItems: []string{"Emerald"}, Metadata: map[string]any{}},
		{Kind: "crafting", InputItems: []string{"Kelp"}, OutputItems: []string{"Emerald"}, Metadata: map[string]any{"note": "Bedrock only"}},
	}
	rep := Check(itemList, rows)

	schema := issuesOf(rep, CheckSchema)
	require.Len(t, schema, 4)
	assert.Contains(t, schema[0].Message, "transformation 0 (fishing)")
	assert.Contains(t, schema[1].Message, "probability")
	assert.Contains(t, schema[2].Message, "success_rate")
	assert.Contains(t, schema[3].Message, "transformation 3")

	orphans := issuesOf(rep, CheckOrphan)
	require.Len(t, orphans, 1)
	assert.Contains(t, orphans[0].Message, `"Ghost"`)

	assert.Len(t, issuesOf(rep, CheckOffTarget), 1)
	assert.Equal(t, 4, rep.KindCounts["crafting"]+rep.KindCounts["composting"])
}

func TestValidateRowTrading(t *testing.T) {
	row := export.Row{Kind: "trading", InputItems: []string{"Paper"}, OutputItems: []string{"Emerald"},
		Metadata: map[string]any{"villager_type": "Librarian"}}
	err := ValidateRow(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level")

	row.Metadata["level"] = "Novice"
	assert.NoError(t, ValidateRow(row))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	torch, err := types.NewTransformation(types.KindCrafting,
		[]types.Item{item("Coal"), item("Stick")}, []types.Item{item("Torch")}, nil)
	require.NoError(t, err)
	drop, err := types.NewTransformation(types.KindMobDrop,
		[]types.Item{item("Zombie")}, []types.Item{item("Rotten Flesh")}, map[string]any{"probability": 0.5})
	require.NoError(t, err)
	_, err = export.WriteAll(dir, []types.Transformation{torch, drop})
	require.NoError(t, err)

	rep, err := Run(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Empty(t, rep.Issues)
	assert.Equal(t, 2, rep.Transformations)

	// A JSON export that drifted from the CSV export is an error.
	require.NoError(t, export.WriteTransformationsJSON(filepath.Join(dir, export.TransformationsJSON),
		[]types.Transformation{torch}))
	rep, err = Run(dir, nil)
	require.NoError(t, err)
	require.Len(t, issuesOf(rep, CheckJSONMismatch), 1)
	assert.True(t, rep.HasErrors())
}

func TestRunMissingFiles(t *testing.T) {
	_, err := Run(t.TempDir(), nil)
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, export.ItemsCSV), []byte("name,url\n"), 0o644))
	_, err = Run(dir, nil)
	assert.ErrorContains(t, err, "unexpected header")
}

func TestWriteReport(t *testing.T) {
	rep := Report{
		Items:           3,
		Transformations: 4,
		KindCounts:      map[string]int{"smelting": 1, "crafting": 3},
		Issues:          []Issue{{Check: CheckOrphan, Severity: SeverityWarning, Message: "item x"}},
	}
	var out bytes.Buffer
	WriteReport(&out, rep)

	s := out.String()
	assert.Contains(t, s, "Transformations: 4")
	assert.Less(t, strings.Index(s, "crafting"), strings.Index(s, "smelting"))
	assert.Contains(t, s, "(75.0%)")
	assert.Contains(t, s, "0 errors, 1 warnings")
	assert.Contains(t, s, "[warning] orphan_item: item x")

	out.Reset()
	WriteReport(&out, Report{KindCounts: map[string]int{}})
	assert.Contains(t, out.String(), "No issues found.")
}
