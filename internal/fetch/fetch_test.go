// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/craftgraph/pkg/types"
)

const craftingHTML = `<html><body>
<div class="load-page" data-page="Crafting/Building blocks"></div>
<div class="load-page" data-page="Crafting/Removed recipes"></div>
</body></html>`

type wiki struct {
	server *httptest.Server
	hits   map[string]*int32
}

func newWiki(t *testing.T) *wiki {
	t.Helper()
	wk := &wiki{hits: map[string]*int32{}}
	pages := map[string]string{
		"/w/Crafting":                 craftingHTML,
		"/w/Crafting/Building_blocks": "<html><body>blocks</body></html>",
		"/w/Zombie":                   "<html><body>zombie</body></html>",
		"/w/Tropical_Fish":            "<html><body>fish</body></html>",
	}
	for path := range pages {
		wk.hits[path] = new(int32)
	}
	var limited int32
	wk.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "craftgraph-test", r.Header.Get("User-Agent"))
		if r.URL.Path == "/w/Zombie" && atomic.AddInt32(&limited, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(wk.hits[r.URL.Path], 1)
		w.Write([]byte(body))
	}))
	t.Cleanup(wk.server.Close)
	return wk
}

func testConfig(baseURL string, dir string) types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig:        types.HTTPConfig{UserAgent: "craftgraph-test"},
		BaseURL:           baseURL,
		PagesDir:          dir,
		RequestsPerSecond: 1000,
		MaxRetries:        2,
	}
}

func testSources() []Source {
	return append([]Source{
		{ID: "crafting", Kind: types.PageCrafting, Article: "Crafting"},
		{ID: "smelting", Kind: types.PageSmelting, Article: "Smelting"},
	}, Mobs([]string{"zombie"})...)
}

func TestFetchAll(t *testing.T) {
	wk := newWiki(t)
	dir := t.TempDir()
	f := New(testConfig(wk.server.URL, dir), zaptest.NewLogger(t))

	var out bytes.Buffer
	res, err := f.FetchAll(context.Background(), testSources(), &out)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Downloaded)
	assert.Equal(t, 1, res.Failed)
	assert.True(t, res.HasFailures())
	assert.Contains(t, out.String(), "downloaded: crafting/building_blocks")
	assert.Contains(t, out.String(), "failed:  smelting (HTTP 404")

	ids := make([]string, 0, len(res.Manifest.Pages))
	for _, p := range res.Manifest.Pages {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"crafting", "crafting/building_blocks", "mobs/zombie"}, ids)

	sub := res.Manifest.Pages[1]
	assert.Equal(t, types.PageCrafting, sub.Kind)
	assert.Equal(t, "crafting/building_blocks.html", sub.Path)
	assert.Equal(t, wk.server.URL+"/w/Crafting/Building_blocks", sub.URL)
	assert.FileExists(t, filepath.Join(dir, "crafting", "building_blocks.html"))

	zombie := res.Manifest.Pages[2]
	assert.Equal(t, "Zombie", zombie.Mob)
	assert.Equal(t, types.PageDrops, zombie.Kind)
	data, err := os.ReadFile(filepath.Join(dir, "mobs", "zombie.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "zombie")

	loaded, err := LoadManifest(ManifestPath(dir))
	require.NoError(t, err)
	assert.Equal(t, res.Manifest.Pages, loaded.Pages)
	assert.False(t, loaded.FetchedAt.IsZero())

	leftovers, err := filepath.Glob(filepath.Join(dir, "*", ".fetch-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFetchAllSkipsCachedPages(t *testing.T) {
	wk := newWiki(t)
	dir := t.TempDir()
	f := New(testConfig(wk.server.URL, dir), nil)

	_, err := f.FetchAll(context.Background(), testSources(), &bytes.Buffer{})
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := f.FetchAll(context.Background(), testSources(), &out)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Downloaded)
	assert.Equal(t, 3, res.Skipped)
	assert.Contains(t, out.String(), "skipped: crafting (cached)")
	// Subpages are rediscovered from the cached crafting page.
	assert.Len(t, res.Manifest.Pages, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(wk.hits["/w/Crafting"]))
	assert.Equal(t, int32(1), atomic.LoadInt32(wk.hits["/w/Crafting/Building_blocks"]))
}

func TestFetchAllCancelled(t *testing.T) {
	wk := newWiki(t)
	f := New(testConfig(wk.server.URL, t.TempDir()), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchAll(ctx, testSources(), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownloadKeepsCacheOnError(t *testing.T) {
	wk := newWiki(t)
	dir := t.TempDir()
	f := New(testConfig(wk.server.URL, dir), nil)

	dest := filepath.Join(dir, "missing.html")
	_, err := f.Download(context.Background(), wk.server.URL+"/w/Missing", dest)
	require.Error(t, err)
	assert.NoFileExists(t, dest)
}

func TestNewDefaults(t *testing.T) {
	f := New(types.FetchConfig{BaseURL: "https://example.org/"}, nil)
	assert.Equal(t, defaultTimeout, f.cfg.Timeout)
	assert.Equal(t, defaultUserAgent, f.cfg.UserAgent)
	assert.Equal(t, defaultPagesDir, f.cfg.PagesDir)
	assert.Equal(t, "https://example.org/w/Crafting", f.ArticleURL("Crafting"))
}

func TestSources(t *testing.T) {
	all := Sources(false)
	assert.Len(t, all, len(Pages)+len(MobIDs))
	assert.Len(t, Sources(true), len(Pages))

	fish := Mobs([]string{"tropical_fish"})[0]
	assert.Equal(t, "mobs/tropical_fish", fish.ID)
	assert.Equal(t, "Tropical_Fish", fish.Article)
	assert.Equal(t, "Tropical Fish", fish.Mob)
	assert.Equal(t, "mobs/tropical_fish.html", fish.Path())

	seen := map[string]bool{}
	for _, s := range all {
		assert.False(t, seen[s.ID], "duplicate source %s", s.ID)
		seen[s.ID] = true
		assert.True(t, s.Kind.Valid())
	}
}

func TestLoadManifestRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFile)
	require.NoError(t, os.WriteFile(path, []byte("pages:\n  - id: x\n    kind: fishing\n"), 0o644))
	_, err := LoadManifest(path)
	assert.ErrorContains(t, err, "unknown kind")
}
