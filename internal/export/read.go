// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/pdiddy/craftgraph/pkg/types"
)

// ReadItemsCSV reads an items.csv file.
func ReadItemsCSV(path string) ([]types.Item, error) {
	records, err := readCSV(path, itemsHeader)
	if err != nil {
		return nil, err
	}
	out := make([]types.Item, 0, len(records))
	for _, rec := range records {
		out = append(out, types.Item{Name: rec[0], URL: rec[1]})
	}
	return out, nil
}

// ReadTransformationsCSV reads a transformations.csv file back into rows.
func ReadTransformationsCSV(path string) ([]Row, error) {
	records, err := readCSV(path, transformationsHeader)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(records))
	for i, rec := range records {
		row := Row{Kind: rec[0]}
		if err := json.Unmarshal([]byte(rec[1]), &row.InputItems); err != nil {
			return nil, fmt.Errorf("%s line %d: input_items: %w", path, i+2, err)
		}
		if err := json.Unmarshal([]byte(rec[2]), &row.OutputItems); err != nil {
			return nil, fmt.Errorf("%s line %d: output_items: %w", path, i+2, err)
		}
		if err := json.Unmarshal([]byte(rec[3]), &row.Metadata); err != nil {
			return nil, fmt.Errorf("%s line %d: metadata: %w", path, i+2, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// ReadTransformationsJSON reads a transformations.json file.
func ReadTransformationsJSON(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

func readCSV(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 || !slices.Equal(records[0], header) {
		return nil, fmt.Errorf("%s: unexpected header, want %v", path, header)
	}
	return records[1:], nil
}
