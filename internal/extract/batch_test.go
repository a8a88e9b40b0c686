// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/craftgraph/internal/export"
	"github.com/pdiddy/craftgraph/pkg/types"
)

func writePage(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<html><body>"+body+"</body></html>"), 0o644))
}

func batchFixture(t *testing.T) (types.Manifest, types.ExtractionConfig) {
	t.Helper()
	pagesDir := t.TempDir()
	outDir := t.TempDir()

	writePage(t, pagesDir, "crafting.html", craftingFixture([]string{"Torch"}, slot("Coal"), slot("Stick")))
	writePage(t, pagesDir, "stonecutter.html",
		stonecutterFixture([]string{"Stone"}, []string{"Stone Slab", "Stone Stairs"}))
	writePage(t, pagesDir, "mobs/zombie.html", `<h2 id="Drops">Drops</h2><table class="wikitable">
		<tr><th>Item</th><th>Count</th></tr><tr><td>`+link("Rotten Flesh")+`</td><td>0-2</td></tr></table>`)

	manifest := types.Manifest{Pages: []types.Page{
		{ID: "crafting", Kind: types.PageCrafting, Path: "crafting.html"},
		{ID: "stonecutter", Kind: types.PageStonecutter, Path: "stonecutter.html"},
		{ID: "mobs/zombie", Kind: types.PageDrops, Path: "mobs/zombie.html", Mob: "Zombie"},
		{ID: "missing", Kind: types.PageSmelting, Path: "missing.html"},
	}}
	cfg := types.ExtractionConfig{
		PagesDir:    pagesDir,
		OutputDir:   outDir,
		Workers:     2,
		MetricsFile: filepath.Join(outDir, "craftgraph.prom"),
	}
	return manifest, cfg
}

func TestExtractAll(t *testing.T) {
	manifest, cfg := batchFixture(t)
	var out bytes.Buffer

	summary, err := ExtractAll(context.Background(), manifest, cfg, zaptest.NewLogger(t), &out)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Extracted)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 4, summary.Total())
	assert.True(t, summary.HasFailures())
	assert.Equal(t, 4, summary.Transformations)
	assert.NotEmpty(t, summary.RunID)
	assert.Contains(t, out.String(), "extracted stonecutter (2 transformations, 0 duplicates)")
	assert.Contains(t, out.String(), "failed  missing")

	rows, err := export.ReadTransformationsCSV(filepath.Join(cfg.OutputDir, export.TransformationsCSV))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	// Manifest order is kept regardless of worker scheduling.
	assert.Equal(t, "crafting", rows[0].Kind)
	assert.Equal(t, "stonecutter", rows[1].Kind)
	assert.Equal(t, "mob_drop", rows[3].Kind)

	res, err := ReadResult(ResultPath(cfg.OutputDir, "mobs/zombie"))
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, res.RunID)
	assert.Equal(t, []string{"Zombie"}, res.Transformations[0].InputNames())

	metrics, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "craftgraph_transformations_total")
}

func TestExtractAllSkipsUnchangedPages(t *testing.T) {
	manifest, cfg := batchFixture(t)
	manifest.Pages = manifest.Pages[:2]
	cfg.MetricsFile = ""

	first, err := ExtractAll(context.Background(), manifest, cfg, nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, 2, first.Extracted)

	// Make the results strictly newer than the pages.
	later := time.Now().Add(time.Minute)
	for _, p := range manifest.Pages {
		require.NoError(t, os.Chtimes(ResultPath(cfg.OutputDir, p.ID), later, later))
	}

	var out bytes.Buffer
	second, err := ExtractAll(context.Background(), manifest, cfg, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 0, second.Extracted)
	assert.Equal(t, first.Transformations, second.Transformations)
	assert.Contains(t, out.String(), "skipped crafting")

	cfg.Force = true
	forced, err := ExtractAll(context.Background(), manifest, cfg, nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, forced.Extracted)
}

func TestExtractAllCancelled(t *testing.T) {
	manifest, cfg := batchFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExtractAll(ctx, manifest, cfg, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
