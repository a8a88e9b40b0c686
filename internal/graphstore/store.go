// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graphstore persists extracted transformations in SQLite so the
// item graph can be queried by producer, consumer and kind.
package graphstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/craftgraph/internal/extract"
	"github.com/pdiddy/craftgraph/pkg/types"
)

const (
	indexDir          = "index"
	dbFile            = "craftgraph.db"
	defaultMaxResults = 50
)

// Store manages the graph SQLite database.
type Store struct {
	db         *sql.DB
	outputDir  string
	maxResults int
	log        *zap.Logger
}

// DBPath returns the database location for an output directory.
func DBPath(outputDir string) string {
	return filepath.Join(outputDir, indexDir, dbFile)
}

// NewStore opens or creates outputDir/index/craftgraph.db and its schema.
// A nil logger discards log output.
func NewStore(cfg types.StoreConfig, log *zap.Logger) (*Store, error) {
	dbPath := DBPath(cfg.OutputDir)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{db: db, outputDir: cfg.OutputDir, maxResults: maxResults, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			page_id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			run_id TEXT,
			file_mod_time TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			name TEXT PRIMARY KEY,
			url TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transformations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			page_id TEXT NOT NULL REFERENCES pages(page_id) ON DELETE CASCADE,
			signature TEXT NOT NULL,
			kind TEXT NOT NULL,
			metadata TEXT NOT NULL,
			UNIQUE(page_id, signature)
		)`,
		`CREATE TABLE IF NOT EXISTS transformation_items (
			transformation_id INTEGER NOT NULL REFERENCES transformations(id) ON DELETE CASCADE,
			role TEXT NOT NULL CHECK (role IN ('input', 'output')),
			position INTEGER NOT NULL,
			item_name TEXT NOT NULL REFERENCES items(name),
			PRIMARY KEY (transformation_id, role, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transformations_kind ON transformations(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_transformations_signature ON transformations(signature)`,
		`CREATE INDEX IF NOT EXISTS idx_transformation_items_item ON transformation_items(item_name, role)`,
		// The same fact can be listed on more than one page; queries see it once.
		`CREATE VIEW IF NOT EXISTS unique_transformations AS
			SELECT * FROM transformations
			WHERE id IN (SELECT MIN(id) FROM transformations GROUP BY signature)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Removed int
	Failed  int
}

// Total returns the number of result files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest loads the per-page YAML results under outputDir/pages. Files whose
// modification time matches the last ingest are skipped; pages whose result
// file has disappeared are removed along with their transformations.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	root := filepath.Join(s.outputDir, extract.PagesDir)
	var summary IngestSummary
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		pageID := filepath.ToSlash(strings.TrimSuffix(rel, ".yaml"))
		seen[pageID] = true

		info, err := d.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", pageID, err)
			summary.Failed++
			return nil
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var stored string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM pages WHERE page_id = ?`, pageID,
		).Scan(&stored)
		if err == nil && stored == modTime {
			fmt.Fprintf(w, "skipped %s\n", pageID)
			summary.Skipped++
			return nil
		}
		isUpdate := err == nil

		result, err := extract.ReadResult(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", pageID, err)
			summary.Failed++
			return nil
		}
		if result.Error != "" {
			s.log.Debug("ingesting failed page", zap.String("page", pageID), zap.String("error", result.Error))
		}

		if err := s.ingestPage(ctx, pageID, result, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", pageID, err)
			summary.Failed++
			return nil
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d transformations)\n", pageID, len(result.Transformations))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d transformations)\n", pageID, len(result.Transformations))
			summary.Indexed++
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("reading results in %s: %w", root, err)
	}

	removed, err := s.removeMissing(ctx, seen)
	if err != nil {
		return summary, err
	}
	summary.Removed = removed
	if err := s.pruneItems(ctx); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, removed: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Removed, summary.Failed)
	s.log.Info("ingest finished",
		zap.Int("indexed", summary.Indexed),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("removed", summary.Removed),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (s *Store) ingestPage(ctx context.Context, pageID string, result types.PageResult, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transformations WHERE page_id = ?`, pageID); err != nil {
		return fmt.Errorf("deleting old transformations: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO pages (page_id, kind, run_id, file_mod_time) VALUES (?, ?, ?, ?)
		 ON CONFLICT(page_id) DO UPDATE SET
			kind=excluded.kind, run_id=excluded.run_id, file_mod_time=excluded.file_mod_time`,
		pageID, string(result.Kind), result.RunID, modTime)
	if err != nil {
		return fmt.Errorf("upserting page: %w", err)
	}

	itemStmt, err := tx.PrepareContext(ctx, `INSERT INTO items (name, url) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer itemStmt.Close()

	linkStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transformation_items (transformation_id, role, position, item_name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing link insert: %w", err)
	}
	defer linkStmt.Close()

	for _, t := range result.Transformations {
		meta, err := json.Marshal(t.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO transformations (page_id, signature, kind, metadata) VALUES (?, ?, ?, ?)`,
			pageID, t.Signature(), string(t.Kind), string(meta))
		if err != nil {
			return fmt.Errorf("inserting transformation: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading transformation id: %w", err)
		}

		for role, list := range map[string][]types.Item{"input": t.Inputs, "output": t.Outputs} {
			for pos, it := range list {
				if _, err := itemStmt.ExecContext(ctx, it.Name, it.URL); err != nil {
					return fmt.Errorf("inserting item %s: %w", it.Name, err)
				}
				if _, err := linkStmt.ExecContext(ctx, id, role, pos, it.Name); err != nil {
					return fmt.Errorf("linking item %s: %w", it.Name, err)
				}
			}
		}
	}
	return tx.Commit()
}

func (s *Store) removeMissing(ctx context.Context, seen map[string]bool) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT page_id FROM pages`)
	if err != nil {
		return 0, fmt.Errorf("listing pages: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning page: %w", err)
		}
		if !seen[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	sort.Strings(stale)
	for _, id := range stale {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE page_id = ?`, id); err != nil {
			return 0, fmt.Errorf("removing page %s: %w", id, err)
		}
		s.log.Debug("removed stale page", zap.String("page", id))
	}
	return len(stale), nil
}

// pruneItems drops items no transformation refers to any more.
func (s *Store) pruneItems(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE name NOT IN (SELECT item_name FROM transformation_items)`)
	if err != nil {
		return fmt.Errorf("pruning items: %w", err)
	}
	return nil
}
