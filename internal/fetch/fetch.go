// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch caches wiki pages on disk and writes the manifest that the
// extract stage reads. Downloads are rate limited, retried on HTTP 429 and
// skipped when the cached file already exists.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/craftgraph/internal/extract"
	"github.com/pdiddy/craftgraph/internal/httputil"
	"github.com/pdiddy/craftgraph/internal/items"
	"github.com/pdiddy/craftgraph/internal/markup"
	"github.com/pdiddy/craftgraph/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; craftgraph/1.0)"
	defaultRate      = 1.0
	defaultPagesDir  = "pages"
)

// BatchResult holds the outcome of a fetch run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Manifest   types.Manifest
}

// Total returns the number of pages attempted.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any page failed to download.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Fetcher downloads wiki pages into a cache directory.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     types.FetchConfig
	log     *zap.Logger
}

// New returns a Fetcher with zero-valued settings replaced by defaults.
// A nil logger discards log output.
func New(cfg types.FetchConfig, log *zap.Logger) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = items.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PagesDir == "" {
		cfg.PagesDir = defaultPagesDir
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cfg:     cfg,
		log:     log,
	}
}

// ArticleURL returns the URL of a wiki article title.
func (f *Fetcher) ArticleURL(article string) string {
	return f.cfg.BaseURL + items.ArticlePrefix + article
}

// FetchAll downloads every source, plus the lazy-loaded subpages of crafting
// sources, then writes the manifest. Individual failures are reported on w
// and counted; only context cancellation or a manifest write error aborts.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for _, src := range sources {
		page, ok := f.fetchOne(ctx, src, &result, w)
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !ok {
			continue
		}
		result.Manifest.Pages = append(result.Manifest.Pages, page)

		if src.Kind != types.PageCrafting {
			continue
		}
		for _, sub := range f.subpages(src, page) {
			subPage, ok := f.fetchOne(ctx, sub, &result, w)
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if ok {
				result.Manifest.Pages = append(result.Manifest.Pages, subPage)
			}
		}
	}

	result.Manifest.FetchedAt = time.Now().UTC()
	if err := WriteManifest(ManifestPath(f.cfg.PagesDir), result.Manifest); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	f.log.Info("fetch finished",
		zap.Int("downloaded", result.Downloaded),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Int("pages", len(result.Manifest.Pages)))
	return result, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, src Source, result *BatchResult, w io.Writer) (types.Page, bool) {
	page := types.Page{
		ID:   src.ID,
		Kind: src.Kind,
		URL:  f.ArticleURL(src.Article),
		Path: src.Path(),
		Mob:  src.Mob,
	}
	skipped, err := f.Download(ctx, page.URL, filepath.Join(f.cfg.PagesDir, page.Path))
	switch {
	case err != nil:
		fmt.Fprintf(w, "failed:  %s (%v)\n", src.ID, err)
		f.log.Warn("download failed", zap.String("page", src.ID), zap.Error(err))
		result.Failed++
		return page, false
	case skipped:
		fmt.Fprintf(w, "skipped: %s (cached)\n", src.ID)
		result.Skipped++
	default:
		fmt.Fprintf(w, "downloaded: %s\n", src.ID)
		result.Downloaded++
	}
	return page, true
}

// subpages reads a cached crafting page and returns its lazy-loaded subpages
// as sources under the page's id.
func (f *Fetcher) subpages(src Source, page types.Page) []Source {
	file, err := os.Open(filepath.Join(f.cfg.PagesDir, page.Path))
	if err != nil {
		f.log.Warn("reading cached page", zap.String("page", page.ID), zap.Error(err))
		return nil
	}
	defer file.Close()

	doc, err := markup.Parse(file)
	if err != nil {
		f.log.Warn("parsing cached page", zap.String("page", page.ID), zap.Error(err))
		return nil
	}

	var out []Source
	for _, sub := range extract.LazyLoadPages(doc) {
		out = append(out, Source{
			ID:      src.ID + "/" + sub.Slug(),
			Kind:    src.Kind,
			Article: sub.Ref,
		})
	}
	f.log.Debug("lazy-loaded subpages", zap.String("page", page.ID), zap.Int("count", len(out)))
	return out
}

// Download fetches url into destPath unless destPath already exists. The body
// is written to a temporary file in the same directory and renamed on
// success, so an interrupted download never leaves a partial page behind.
func (f *Fetcher) Download(ctx context.Context, url, destPath string) (skipped bool, err error) {
	if _, err := os.Stat(destPath); err == nil {
		return true, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return false, fmt.Errorf("creating directory: %w", err)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries, func(attempt int, wait time.Duration) {
		f.log.Info("rate limited, backing off",
			zap.String("url", url), zap.Int("attempt", attempt), zap.Duration("wait", wait))
	})
	if err != nil {
		return false, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return false, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return false, fmt.Errorf("renaming temp file: %w", err)
	}
	return false, nil
}
