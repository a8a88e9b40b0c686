// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/craftgraph/internal/fetch"
	"github.com/pdiddy/craftgraph/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [page-ids...]",
	Short: "Download and cache the wiki pages the extractor reads",
	Long: `Fetch downloads the mechanic pages (crafting, smelting, trading, ...) and
the mob pages into the pages directory, follows lazy-loaded crafting
subpages and writes pages/manifest.yaml. Cached pages are not downloaded
again; delete a file to refresh it.

With page ids as arguments only those sources are fetched (e.g. "crafting",
"mobs/zombie"); the manifest then lists only those pages.`,
	RunE: runFetch,
}

func init() {
	flags := fetchCmd.Flags()
	flags.String("pages-dir", "pages", "page cache directory")
	flags.String("base-url", "", "wiki origin (default https://minecraft.wiki)")
	flags.Float64("rate", 0, "maximum requests per second (default 1)")
	flags.Duration("timeout", 0, "HTTP request timeout (default 30s)")
	flags.String("user-agent", "", "User-Agent header")
	flags.Int("max-retries", 0, "retries on HTTP 429 (default 5)")
	flags.Bool("skip-mobs", false, "do not fetch mob drop pages")

	bindFlag(flags, "fetch.pages_dir", "pages-dir")
	bindFlag(flags, "fetch.base_url", "base-url")
	bindFlag(flags, "fetch.requests_per_second", "rate")
	bindFlag(flags, "fetch.timeout", "timeout")
	bindFlag(flags, "fetch.user_agent", "user-agent")
	bindFlag(flags, "fetch.max_retries", "max-retries")
	bindFlag(flags, "fetch.skip_mobs", "skip-mobs")

	rootCmd.AddCommand(fetchCmd)
}

func fetchConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("fetch.timeout"),
			UserAgent: viper.GetString("fetch.user_agent"),
		},
		BaseURL:           viper.GetString("fetch.base_url"),
		PagesDir:          viper.GetString("fetch.pages_dir"),
		RequestsPerSecond: viper.GetFloat64("fetch.requests_per_second"),
		MaxRetries:        viper.GetInt("fetch.max_retries"),
		SkipMobs:          viper.GetBool("fetch.skip_mobs"),
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig()

	sources, err := selectSources(fetch.Sources(cfg.SkipMobs && len(args) == 0), args)
	if err != nil {
		return err
	}

	f := fetch.New(cfg, logger)
	result, err := f.FetchAll(cmd.Context(), sources, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d page(s) failed to download", result.Failed)
	}
	return nil
}

// selectSources keeps the sources named by ids, in catalog order. No ids
// keeps everything.
func selectSources(all []fetch.Source, ids []string) ([]fetch.Source, error) {
	if len(ids) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []fetch.Source
	for _, s := range all {
		if want[s.ID] {
			out = append(out, s)
			delete(want, s.ID)
		}
	}
	for id := range want {
		return nil, fmt.Errorf("unknown page %q", id)
	}
	return out, nil
}
