// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/craftgraph/pkg/types"
)

// Role is the side of a transformation an item appears on.
type Role string

const (
	RoleInput  Role = "input"
	RoleOutput Role = "output"
)

// QueryOptions filters transformation queries. Empty fields do not filter.
type QueryOptions struct {
	// Item restricts results to transformations that use the item in Role.
	Item string
	Role Role

	Kind types.Kind

	// MaxResults limits result count. Zero uses the store default; negative
	// means no limit.
	MaxResults int
}

// Record is a stored transformation.
type Record struct {
	ID       int64          `json:"id" yaml:"id"`
	PageID   string         `json:"page_id" yaml:"page_id"`
	Kind     types.Kind     `json:"kind" yaml:"kind"`
	Inputs   []string       `json:"inputs" yaml:"inputs"`
	Outputs  []string       `json:"outputs" yaml:"outputs"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

// Producers returns the transformations that output item.
func (s *Store) Producers(ctx context.Context, item string) ([]Record, error) {
	return s.Query(ctx, QueryOptions{Item: item, Role: RoleOutput})
}

// Consumers returns the transformations that take item as an input.
func (s *Store) Consumers(ctx context.Context, item string) ([]Record, error) {
	return s.Query(ctx, QueryOptions{Item: item, Role: RoleInput})
}

// ByKind returns the transformations of one kind.
func (s *Store) ByKind(ctx context.Context, kind types.Kind) ([]Record, error) {
	return s.Query(ctx, QueryOptions{Kind: kind})
}

// Query returns distinct transformations matching opts, ordered by kind and
// insertion order.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Record, error) {
	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT t.id, t.page_id, t.kind, t.metadata FROM unique_transformations t WHERE 1=1`)
	if opts.Kind != "" {
		qb.WriteString(` AND t.kind = ?`)
		args = append(args, string(opts.Kind))
	}
	if opts.Item != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM transformation_items ti
			WHERE ti.transformation_id = t.id AND ti.item_name = ?`)
		args = append(args, opts.Item)
		if opts.Role != "" {
			qb.WriteString(` AND ti.role = ?`)
			args = append(args, string(opts.Role))
		}
		qb.WriteString(`)`)
	}
	qb.WriteString(` ORDER BY t.kind, t.id`)
	if maxResults > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, maxResults)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying transformations: %w", err)
	}
	var records []Record
	for rows.Next() {
		var (
			r    Record
			kind string
			meta string
		)
		if err := rows.Scan(&r.ID, &r.PageID, &kind, &meta); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Kind = types.Kind(kind)
		if err := json.Unmarshal([]byte(meta), &r.Metadata); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decoding metadata of %d: %w", r.ID, err)
		}
		records = append(records, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		if err := s.loadItems(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) loadItems(ctx context.Context, r *Record) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, item_name FROM transformation_items
		 WHERE transformation_id = ? ORDER BY role, position`, r.ID)
	if err != nil {
		return fmt.Errorf("loading items of %d: %w", r.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var role, name string
		if err := rows.Scan(&role, &name); err != nil {
			return fmt.Errorf("scanning item: %w", err)
		}
		if Role(role) == RoleInput {
			r.Inputs = append(r.Inputs, name)
		} else {
			r.Outputs = append(r.Outputs, name)
		}
	}
	return rows.Err()
}

// Item looks up one item by exact name.
func (s *Store) Item(ctx context.Context, name string) (types.Item, bool, error) {
	var it types.Item
	err := s.db.QueryRowContext(ctx, `SELECT name, url FROM items WHERE name = ?`, name).Scan(&it.Name, &it.URL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Item{}, false, nil
		}
		return types.Item{}, false, fmt.Errorf("looking up item: %w", err)
	}
	return it, true, nil
}

// SearchItems returns items whose name contains substr, case-insensitively,
// sorted by name.
func (s *Store) SearchItems(ctx context.Context, substr string) ([]types.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, url FROM items WHERE name LIKE ? ESCAPE '\' ORDER BY name LIMIT ?`,
		"%"+escapeLike(substr)+"%", s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()
	var out []types.Item
	for rows.Next() {
		var it types.Item
		if err := rows.Scan(&it.Name, &it.URL); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Stats summarizes the store contents.
type Stats struct {
	Pages           int                `json:"pages" yaml:"pages"`
	Items           int                `json:"items" yaml:"items"`
	Transformations int                `json:"transformations" yaml:"transformations"`
	ByKind          map[types.Kind]int `json:"by_kind" yaml:"by_kind"`
}

// Stats counts pages, items and distinct transformations.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByKind: make(map[types.Kind]int)}
	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT count(*) FROM pages`, &st.Pages},
		{`SELECT count(*) FROM items`, &st.Items},
		{`SELECT count(*) FROM unique_transformations`, &st.Transformations},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return st, fmt.Errorf("counting: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT kind, count(*) FROM unique_transformations GROUP BY kind`)
	if err != nil {
		return st, fmt.Errorf("counting by kind: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return st, fmt.Errorf("scanning count: %w", err)
		}
		st.ByKind[types.Kind(kind)] = n
	}
	return st, rows.Err()
}

// ExportYAML writes every distinct transformation matching opts to
// outputDir/index/graph.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	return s.export(ctx, opts, "graph.yaml", yaml.Marshal)
}

// ExportJSON writes every distinct transformation matching opts to
// outputDir/index/graph.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	return s.export(ctx, opts, "graph.json", func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	})
}

func (s *Store) export(ctx context.Context, opts QueryOptions, name string, marshal func(any) ([]byte, error)) (string, error) {
	opts.MaxResults = -1
	records, err := s.Query(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	data, err := marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", name, err)
	}
	path := filepath.Join(s.outputDir, indexDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
