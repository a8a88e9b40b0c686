// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/craftgraph/internal/graphstore"
	"github.com/pdiddy/craftgraph/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Index extraction results in SQLite and query the item graph",
	Long: `Store maintains output/index/craftgraph.db, a SQLite index of the per-page
extraction results. --ingest loads new and changed results (unchanged pages
are skipped). --produces, --uses and --kind query transformations; they can
be combined. --search finds items by name, --stats summarizes the index and
--export writes the selected transformations to output/index/graph.yaml or
graph.json.

With no flags, store ingests.`,
	RunE: runStore,
}

func init() {
	flags := storeCmd.Flags()
	flags.String("output-dir", "output", "extraction output directory (contains pages/, index/)")
	flags.Int("max-results", 50, "maximum number of query results")
	flags.Bool("ingest", false, "index new and changed per-page results")
	flags.String("produces", "", "transformations that output this item")
	flags.String("uses", "", "transformations that take this item as input")
	flags.String("kind", "", "filter transformations by kind")
	flags.String("search", "", "find items whose name contains this text")
	flags.Bool("stats", false, "print index statistics")
	flags.String("export", "", "export the selected transformations: yaml or json")
	flags.Bool("json", false, "print results as JSON")

	bindFlag(flags, "store.output_dir", "output-dir")
	bindFlag(flags, "store.max_results", "max-results")

	rootCmd.AddCommand(storeCmd)
}

func storeConfig() types.StoreConfig {
	return types.StoreConfig{
		OutputDir:  viper.GetString("store.output_dir"),
		MaxResults: viper.GetInt("store.max_results"),
	}
}

func runStore(cmd *cobra.Command, args []string) error {
	ingest, _ := cmd.Flags().GetBool("ingest")
	produces, _ := cmd.Flags().GetString("produces")
	uses, _ := cmd.Flags().GetString("uses")
	kind, _ := cmd.Flags().GetString("kind")
	search, _ := cmd.Flags().GetString("search")
	stats, _ := cmd.Flags().GetBool("stats")
	export, _ := cmd.Flags().GetString("export")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if produces != "" && uses != "" {
		return fmt.Errorf("--produces and --uses cannot be combined")
	}
	if kind != "" && !types.Kind(kind).Valid() {
		return fmt.Errorf("unknown kind %q: use one of %s", kind, kindList())
	}
	querying := produces != "" || uses != "" || kind != ""
	if !querying && search == "" && !stats && export == "" {
		ingest = true
	}

	store, err := graphstore.NewStore(storeConfig(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if ingest {
		summary, err := store.Ingest(ctx, out)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d page(s) failed indexing", summary.Failed)
		}
	}

	opts := graphstore.QueryOptions{Kind: types.Kind(kind)}
	switch {
	case produces != "":
		opts.Item, opts.Role = produces, graphstore.RoleOutput
	case uses != "":
		opts.Item, opts.Role = uses, graphstore.RoleInput
	}

	if export != "" {
		var path string
		switch export {
		case "yaml":
			path, err = store.ExportYAML(ctx, opts)
		case "json":
			path, err = store.ExportJSON(ctx, opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", export)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported to %s\n", path)
	}

	if querying {
		records, err := store.Query(ctx, opts)
		if err != nil {
			return err
		}
		if err := formatRecords(out, records, jsonOutput); err != nil {
			return err
		}
	}

	if search != "" {
		found, err := store.SearchItems(ctx, search)
		if err != nil {
			return err
		}
		if err := formatItems(out, found, jsonOutput); err != nil {
			return err
		}
	}

	if stats {
		st, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		return formatStats(out, st, jsonOutput)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatRecords(w io.Writer, records []graphstore.Record, jsonOutput bool) error {
	if jsonOutput {
		if records == nil {
			records = []graphstore.Record{}
		}
		return writeJSON(w, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-13s  %-40s  %-30s  %s\n", "Kind", "Inputs", "Outputs", "Page")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range records {
		fmt.Fprintf(w, "%-13s  %-40s  %-30s  %s\n",
			r.Kind, truncate(strings.Join(r.Inputs, ", "), 40), truncate(strings.Join(r.Outputs, ", "), 30), r.PageID)
	}
	fmt.Fprintf(w, "\n%d results\n", len(records))
	return nil
}

func formatItems(w io.Writer, found []types.Item, jsonOutput bool) error {
	if jsonOutput {
		if found == nil {
			found = []types.Item{}
		}
		return writeJSON(w, found)
	}
	if len(found) == 0 {
		fmt.Fprintln(w, "No items found.")
		return nil
	}
	for _, it := range found {
		fmt.Fprintf(w, "%-40s  %s\n", it.Name, it.URL)
	}
	return nil
}

func formatStats(w io.Writer, st graphstore.Stats, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "Pages:           %d\nItems:           %d\nTransformations: %d\n",
		st.Pages, st.Items, st.Transformations)
	kinds := make([]string, 0, len(st.ByKind))
	for k := range st.ByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-13s  %d\n", k, st.ByKind[types.Kind(k)])
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func kindList() string {
	names := make([]string, len(types.Kinds))
	for i, k := range types.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
