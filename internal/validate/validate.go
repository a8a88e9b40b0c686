// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks the quality of exported extraction output: item
// table integrity, transformation row shape, references between the two and
// leakage of off-target-edition content.
package validate

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/craftgraph/internal/export"
	"github.com/pdiddy/craftgraph/internal/items"
	"github.com/pdiddy/craftgraph/pkg/types"
)

// Severity grades an issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Check names.
const (
	CheckDuplicateItem = "duplicate_item"
	CheckItemURL       = "item_url"
	CheckEmptyName     = "empty_name"
	CheckSchema        = "schema"
	CheckOrphan        = "orphan_item"
	CheckOffTarget     = "off_target"
	CheckJSONMismatch  = "json_mismatch"
)

var offTargetKeywords = []string{"bedrock", "education"}

// Issue is one finding.
type Issue struct {
	Check    string   `json:"check" yaml:"check"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// Report is the outcome of a validation run.
type Report struct {
	Items           int            `json:"items" yaml:"items"`
	Transformations int            `json:"transformations" yaml:"transformations"`
	KindCounts      map[string]int `json:"kind_counts" yaml:"kind_counts"`
	Issues          []Issue        `json:"issues" yaml:"issues"`
}

// Count returns the number of issues with severity s.
func (r Report) Count(s Severity) int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error-severity issue was found.
func (r Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

func (r *Report) add(check string, sev Severity, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Check: check, Severity: sev, Message: fmt.Sprintf(format, args...)})
}

// Check validates an item table and transformation rows. It never fails;
// findings are returned in the report.
func Check(itemList []types.Item, rows []export.Row) Report {
	rep := Report{
		Items:           len(itemList),
		Transformations: len(rows),
		KindCounts:      make(map[string]int),
	}
	known := checkItems(&rep, itemList)

	for i, row := range rows {
		rep.KindCounts[row.Kind]++
		if err := ValidateRow(row); err != nil {
			rep.add(CheckSchema, SeverityError, "transformation %d (%s): %v", i, row.Kind, err)
		}
		for _, name := range append(append([]string(nil), row.InputItems...), row.OutputItems...) {
			if !known[name] {
				rep.add(CheckOrphan, SeverityWarning, "transformation %d (%s): item %q not in item table", i, row.Kind, name)
				break
			}
		}
		if meta := fmt.Sprint(row.Metadata); hasOffTargetKeyword(meta) {
			rep.add(CheckOffTarget, SeverityWarning, "transformation %d (%s): metadata mentions another edition", i, row.Kind)
		}
	}
	return rep
}

func checkItems(rep *Report, itemList []types.Item) map[string]bool {
	known := make(map[string]bool, len(itemList))
	counts := make(map[string]int, len(itemList))
	for _, it := range itemList {
		counts[it.Name]++
		known[it.Name] = true

		if strings.TrimSpace(it.Name) == "" {
			rep.add(CheckEmptyName, SeverityError, "item with empty name (url %q)", it.URL)
			continue
		}
		if !strings.HasPrefix(it.URL, items.BaseURL+items.ArticlePrefix) {
			rep.add(CheckItemURL, SeverityWarning, "item %q: url %q is not a wiki article", it.Name, it.URL)
		}
		if items.IsOffTargetName(it.Name) || hasOffTargetKeyword(it.Name) {
			rep.add(CheckOffTarget, SeverityWarning, "item %q looks like off-target edition content", it.Name)
		}
	}

	dups := make([]string, 0)
	for name, n := range counts {
		if n > 1 {
			dups = append(dups, name)
		}
	}
	sort.Strings(dups)
	for _, name := range dups {
		rep.add(CheckDuplicateItem, SeverityError, "item %q appears %d times", name, counts[name])
	}
	return known
}

func hasOffTargetKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range offTargetKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Run reads the exported files in outputDir and checks them. The JSON export
// must agree with the CSV export row for row.
func Run(outputDir string, log *zap.Logger) (Report, error) {
	if log == nil {
		log = zap.NewNop()
	}
	itemList, err := export.ReadItemsCSV(filepath.Join(outputDir, export.ItemsCSV))
	if err != nil {
		return Report{}, err
	}
	rows, err := export.ReadTransformationsCSV(filepath.Join(outputDir, export.TransformationsCSV))
	if err != nil {
		return Report{}, err
	}

	rep := Check(itemList, rows)

	jsonRows, err := export.ReadTransformationsJSON(filepath.Join(outputDir, export.TransformationsJSON))
	switch {
	case err != nil:
		rep.add(CheckJSONMismatch, SeverityError, "%v", err)
	case len(jsonRows) != len(rows):
		rep.add(CheckJSONMismatch, SeverityError, "%s has %d rows, %s has %d",
			export.TransformationsJSON, len(jsonRows), export.TransformationsCSV, len(rows))
	default:
		for i := range rows {
			if !sameRow(rows[i], jsonRows[i]) {
				rep.add(CheckJSONMismatch, SeverityError, "transformation %d differs between CSV and JSON", i)
			}
		}
	}

	log.Info("validation finished",
		zap.Int("items", rep.Items),
		zap.Int("transformations", rep.Transformations),
		zap.Int("errors", rep.Count(SeverityError)),
		zap.Int("warnings", rep.Count(SeverityWarning)))
	return rep, nil
}

func sameRow(a, b export.Row) bool {
	return a.Kind == b.Kind &&
		strings.Join(a.InputItems, "\x00") == strings.Join(b.InputItems, "\x00") &&
		strings.Join(a.OutputItems, "\x00") == strings.Join(b.OutputItems, "\x00") &&
		fmt.Sprint(a.Metadata) == fmt.Sprint(b.Metadata)
}

// WriteReport prints a human-readable report: kind breakdown, then issues.
func WriteReport(w io.Writer, rep Report) {
	fmt.Fprintf(w, "Items: %d\nTransformations: %d\n", rep.Items, rep.Transformations)

	kinds := make([]string, 0, len(rep.KindCounts))
	for k := range rep.KindCounts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		pct := 0.0
		if rep.Transformations > 0 {
			pct = float64(rep.KindCounts[k]) / float64(rep.Transformations) * 100
		}
		fmt.Fprintf(w, "  %-14s %6d (%.1f%%)\n", k, rep.KindCounts[k], pct)
	}

	if len(rep.Issues) == 0 {
		fmt.Fprintln(w, "\nNo issues found.")
		return
	}
	fmt.Fprintf(w, "\n%d errors, %d warnings:\n", rep.Count(SeverityError), rep.Count(SeverityWarning))
	for _, is := range rep.Issues {
		fmt.Fprintf(w, "  [%s] %s: %s\n", is.Severity, is.Check, is.Message)
	}
}
