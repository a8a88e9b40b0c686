// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/craftgraph/internal/extract"
	"github.com/pdiddy/craftgraph/internal/fetch"
	"github.com/pdiddy/craftgraph/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract item transformations from the cached wiki pages",
	Long: `Extract reads pages/manifest.yaml, runs the extractor for each page kind
and writes one YAML result per page under output/pages/, then the combined
items.csv, transformations.csv and transformations.json.

Pages whose result is newer than their HTML are not extracted again unless
--force is given. A page that fails is reported and the rest continue.`,
	RunE: runExtract,
}

func init() {
	flags := extractCmd.Flags()
	flags.String("pages-dir", "pages", "page cache written by fetch (contains manifest.yaml)")
	flags.String("output-dir", "output", "output directory")
	flags.Int("workers", 0, "pages extracted concurrently (default 4)")
	flags.String("metrics-file", "", "write Prometheus text-format metrics to this file")
	flags.StringSlice("exclude-section", nil, "heading ids whose content is skipped (default Removed_recipes,Changed_recipes)")
	flags.Bool("force", false, "re-extract pages even when their result is up to date")

	bindFlag(flags, "extraction.pages_dir", "pages-dir")
	bindFlag(flags, "extraction.output_dir", "output-dir")
	bindFlag(flags, "extraction.workers", "workers")
	bindFlag(flags, "extraction.metrics_file", "metrics-file")
	bindFlag(flags, "extraction.excluded_sections", "exclude-section")
	bindFlag(flags, "extraction.force", "force")

	rootCmd.AddCommand(extractCmd)
}

func extractionConfig() types.ExtractionConfig {
	return types.ExtractionConfig{
		PagesDir:         viper.GetString("extraction.pages_dir"),
		OutputDir:        viper.GetString("extraction.output_dir"),
		Workers:          viper.GetInt("extraction.workers"),
		MetricsFile:      viper.GetString("extraction.metrics_file"),
		ExcludedSections: viper.GetStringSlice("extraction.excluded_sections"),
		Force:            viper.GetBool("extraction.force"),
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := extractionConfig()

	manifest, err := fetch.LoadManifest(fetch.ManifestPath(cfg.PagesDir))
	if err != nil {
		return fmt.Errorf("%w (run craftgraph fetch first)", err)
	}

	summary, err := extract.ExtractAll(cmd.Context(), manifest, cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d page(s) failed extraction", summary.Failed)
	}
	return nil
}
