// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes extracted transformations in the interchange formats
// consumed by downstream tooling: items.csv, transformations.csv and
// transformations.json. Rows carry item names only; URLs live in items.csv.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdiddy/craftgraph/pkg/types"
)

// Output file names.
const (
	ItemsCSV            = "items.csv"
	TransformationsCSV  = "transformations.csv"
	TransformationsJSON = "transformations.json"
)

var (
	itemsHeader           = []string{"item_name", "item_url"}
	transformationsHeader = []string{"transformation_type", "input_items", "output_items", "metadata"}
)

// Row is one transformation in interchange form.
type Row struct {
	Kind        string         `json:"kind"`
	InputItems  []string       `json:"input_items"`
	OutputItems []string       `json:"output_items"`
	Metadata    map[string]any `json:"metadata"`
}

// Rows converts transformations to interchange rows, preserving order.
func Rows(ts []types.Transformation) []Row {
	rows := make([]Row, len(ts))
	for i, t := range ts {
		meta := t.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		rows[i] = Row{
			Kind:        string(t.Kind),
			InputItems:  t.InputNames(),
			OutputItems: t.OutputNames(),
			Metadata:    meta,
		}
	}
	return rows
}

// Items returns every item referenced by ts, one per name, sorted by name.
// The first URL seen for a name wins.
func Items(ts []types.Transformation) []types.Item {
	byName := make(map[string]types.Item)
	for _, t := range ts {
		for _, list := range [][]types.Item{t.Inputs, t.Outputs} {
			for _, it := range list {
				if _, ok := byName[it.Name]; !ok {
					byName[it.Name] = it
				}
			}
		}
	}
	out := make([]types.Item, 0, len(byName))
	for _, it := range byName {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Summary reports what WriteAll produced.
type Summary struct {
	Items           int
	Transformations int
}

// WriteAll writes the three output files into dir.
func WriteAll(dir string, ts []types.Transformation) (Summary, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}
	its := Items(ts)
	if err := WriteItemsCSV(filepath.Join(dir, ItemsCSV), its); err != nil {
		return Summary{}, err
	}
	if err := WriteTransformationsCSV(filepath.Join(dir, TransformationsCSV), ts); err != nil {
		return Summary{}, err
	}
	if err := WriteTransformationsJSON(filepath.Join(dir, TransformationsJSON), ts); err != nil {
		return Summary{}, err
	}
	return Summary{Items: len(its), Transformations: len(ts)}, nil
}

// WriteItemsCSV writes item_name,item_url rows.
func WriteItemsCSV(path string, its []types.Item) error {
	records := make([][]string, 0, len(its))
	for _, it := range its {
		records = append(records, []string{it.Name, it.URL})
	}
	return writeCSV(path, itemsHeader, records)
}

// WriteTransformationsCSV writes one row per transformation. The item and
// metadata cells are JSON-encoded.
func WriteTransformationsCSV(path string, ts []types.Transformation) error {
	records := make([][]string, 0, len(ts))
	for _, r := range Rows(ts) {
		ins, err := json.Marshal(r.InputItems)
		if err != nil {
			return fmt.Errorf("encoding inputs: %w", err)
		}
		outs, err := json.Marshal(r.OutputItems)
		if err != nil {
			return fmt.Errorf("encoding outputs: %w", err)
		}
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		records = append(records, []string{r.Kind, string(ins), string(outs), string(meta)})
	}
	return writeCSV(path, transformationsHeader, records)
}

// WriteTransformationsJSON writes the rows as an indented JSON array.
func WriteTransformationsJSON(path string, ts []types.Transformation) error {
	data, err := json.MarshalIndent(Rows(ts), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
