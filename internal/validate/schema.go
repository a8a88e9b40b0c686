// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pdiddy/craftgraph/internal/export"
	"github.com/pdiddy/craftgraph/pkg/types"
)

// rowSchema describes one transformation row. Kind-specific metadata is
// required with if/then clauses.
func rowSchema() map[string]any {
	kinds := make([]any, len(types.Kinds))
	for i, k := range types.Kinds {
		kinds[i] = string(k)
	}
	names := map[string]any{
		"type":     "array",
		"minItems": 1,
		"items":    map[string]any{"type": "string", "minLength": 1},
	}
	ratio := map[string]any{"type": "number", "minimum": 0, "maximum": 1}
	requires := func(kind string, keys ...string) map[string]any {
		return map[string]any{
			"if": map[string]any{
				"properties": map[string]any{"kind": map[string]any{"const": kind}},
			},
			"then": map[string]any{
				"properties": map[string]any{
					"metadata": map[string]any{"required": keys},
				},
			},
		}
	}
	return map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []string{"kind", "input_items", "output_items", "metadata"},
		"properties": map[string]any{
			"kind":         map[string]any{"enum": kinds},
			"input_items":  names,
			"output_items": names,
			"metadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"probability":      ratio,
					"success_rate":     ratio,
					"has_alternatives": map[string]any{"type": "boolean"},
					"category":         map[string]any{"type": "string", "minLength": 1},
					"villager_type":    map[string]any{"type": "string"},
					"level":            map[string]any{"type": "string"},
				},
			},
		},
		"allOf": []any{
			requires(string(types.KindMobDrop), "probability"),
			requires(string(types.KindBartering), "probability"),
			requires(string(types.KindComposting), "success_rate"),
			requires(string(types.KindTrading), "villager_type", "level"),
		},
	}
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(rowSchema()))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compiling row schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// ValidateRow checks a row against the transformation row schema.
func ValidateRow(row export.Row) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(row))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return fmt.Errorf("schema: %s", strings.Join(errs, "; "))
}
