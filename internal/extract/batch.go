// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/craftgraph/internal/export"
	"github.com/pdiddy/craftgraph/internal/markup"
	"github.com/pdiddy/craftgraph/pkg/types"
)

const (
	// PagesDir is the subdirectory of the output directory holding one YAML
	// result per page.
	PagesDir = "pages"

	defaultWorkers = 4
)

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	RunID           string
	Extracted       int
	Skipped         int
	Failed          int
	Transformations int
	Items           int
}

// Total returns the number of pages processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any page failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// outcome is what happened to one page of the batch.
type outcome struct {
	result  types.PageResult
	skipped bool
	err     error
}

// ExtractAll extracts every page of the manifest. Pages run in parallel,
// bounded by cfg.Workers, each with its own result set. Per-page results are
// written to OutputDir/pages/<id>.yaml and the concatenation of all pages, in
// manifest order, to the export files. Pages whose YAML result is newer than
// their HTML are not re-extracted unless cfg.Force is set. A failed page is
// reported and does not stop the batch.
func ExtractAll(ctx context.Context, manifest types.Manifest, cfg types.ExtractionConfig, log *zap.Logger, w io.Writer) (BatchSummary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	summary := BatchSummary{RunID: uuid.NewString()}
	log = log.With(zap.String("run_id", summary.RunID))

	resultsDir := filepath.Join(cfg.OutputDir, PagesDir)
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return summary, fmt.Errorf("creating output directory: %w", err)
	}

	outcomes := make([]outcome, len(manifest.Pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, page := range manifest.Pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = processPage(page, summary.RunID, cfg, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	var all []types.Transformation
	for i, page := range manifest.Pages {
		o := outcomes[i]
		switch {
		case o.err != nil:
			fmt.Fprintf(w, "failed  %s: %v\n", page.ID, o.err)
			log.Warn("page failed", zap.String("page", page.ID), zap.Error(o.err))
			summary.Failed++
			continue
		case o.skipped:
			fmt.Fprintf(w, "skipped %s\n", page.ID)
			summary.Skipped++
		default:
			fmt.Fprintf(w, "extracted %s (%d transformations, %d duplicates)\n",
				page.ID, len(o.result.Transformations), o.result.Duplicates)
			summary.Extracted++
		}
		all = append(all, o.result.Transformations...)
	}

	exported, err := export.WriteAll(cfg.OutputDir, all)
	if err != nil {
		return summary, err
	}
	summary.Transformations = exported.Transformations
	summary.Items = exported.Items

	if cfg.MetricsFile != "" {
		if err := WriteMetrics(cfg.MetricsFile); err != nil {
			return summary, err
		}
	}

	log.Info("extraction finished",
		zap.Int("extracted", summary.Extracted),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("transformations", summary.Transformations),
		zap.Int("items", summary.Items))
	return summary, nil
}

// processPage extracts one page, or reloads its previous result when the
// HTML has not changed since.
func processPage(page types.Page, runID string, cfg types.ExtractionConfig, log *zap.Logger) outcome {
	htmlPath := filepath.Join(cfg.PagesDir, page.Path)
	outPath := ResultPath(cfg.OutputDir, page.ID)

	if !cfg.Force {
		changed, err := hasChanged(htmlPath, outPath)
		if err != nil {
			return outcome{err: err}
		}
		if !changed {
			prev, err := ReadResult(outPath)
			if err == nil && prev.Error == "" {
				return outcome{result: prev, skipped: true}
			}
			log.Debug("previous result unusable, re-extracting", zap.String("page", page.ID))
		}
	}

	f, err := os.Open(htmlPath)
	if err != nil {
		return outcome{err: fmt.Errorf("opening page: %w", err)}
	}
	doc, err := markup.Parse(f)
	f.Close()
	if err != nil {
		return outcome{err: err}
	}

	result, err := ExtractPage(doc, page, Options{Logger: log, ExcludedSections: cfg.ExcludedSections})
	result.RunID = runID
	if werr := writeResult(outPath, result); werr != nil && err == nil {
		err = fmt.Errorf("write error: %w", werr)
	}
	return outcome{result: result, err: err}
}

// ResultPath is where the YAML result of a page is written.
func ResultPath(outputDir, pageID string) string {
	return filepath.Join(outputDir, PagesDir, filepath.FromSlash(pageID)+".yaml")
}

// ReadResult loads a per-page YAML result.
func ReadResult(path string) (types.PageResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PageResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var result types.PageResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return types.PageResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return result, nil
}

func writeResult(path string, result types.PageResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// hasChanged reports whether the page HTML is newer than its result.
func hasChanged(htmlPath, outPath string) (bool, error) {
	in, err := os.Stat(htmlPath)
	if err != nil {
		return false, fmt.Errorf("stat page %s: %w", htmlPath, err)
	}
	out, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat result %s: %w", outPath, err)
	}
	return in.ModTime().After(out.ModTime()), nil
}
