package doctype

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Per-type JSON Schemas for raw extractor output. Violations are reported as
// non-fatal errors; normalization then fills sentinels, so a noncompliant
// response still yields a storable record.
var schemaMaps = map[Type]map[string]any{
	Contract: {
		"type":     "object",
		"required": []any{"effective_date", "termination_date", "parties", "key_terms"},
		"properties": map[string]any{
			"effective_date":   map[string]any{"type": "string"},
			"termination_date": map[string]any{"type": "string"},
			"parties": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
			"key_terms": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	},
	Invoice: {
		"type":     "object",
		"required": []any{"vendor", "amount", "currency", "due_date", "status", "line_items"},
		"properties": map[string]any{
			"vendor":   map[string]any{"type": "string"},
			"amount":   map[string]any{"type": "number"},
			"currency": map[string]any{"type": "string"},
			"due_date": map[string]any{"type": "string"},
			"status":   map[string]any{"enum": []any{"PAID", "UNPAID", "PARTIALLY_PAID", "OVERDUE", "UNKNOWN"}},
			"line_items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"description", "quantity", "unit_price", "total_price"},
					"properties": map[string]any{
						"description": map[string]any{"type": "string"},
						"quantity":    map[string]any{"type": "number"},
						"unit_price":  map[string]any{"type": "number"},
						"total_price": map[string]any{"type": "number"},
					},
				},
			},
		},
	},
	EarningsReport: {
		"type":     "object",
		"required": []any{"company_name", "reporting_period", "key_metrics", "executive_summary"},
		"properties": map[string]any{
			"company_name":      map[string]any{"type": "string"},
			"reporting_period":  map[string]any{"type": "string"},
			"key_metrics":       map[string]any{"type": "object"},
			"executive_summary": map[string]any{"type": "string"},
		},
	},
}

var (
	schemaOnce sync.Once
	schemaErr  error
	schemas    map[Type]*jsonschema.Schema
)

func compileSchemas() {
	schemas = make(map[Type]*jsonschema.Schema, len(schemaMaps))
	for t, m := range schemaMaps {
		b, err := json.Marshal(m)
		if err != nil {
			schemaErr = fmt.Errorf("marshal %s schema: %w", t, err)
			return
		}
		compiler := jsonschema.NewCompiler()
		name := string(t) + ".json"
		if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add %s schema: %w", t, err)
			return
		}
		schema, err := compiler.Compile(name)
		if err != nil {
			schemaErr = fmt.Errorf("compile %s schema: %w", t, err)
			return
		}
		schemas[t] = schema
	}
}

// ValidateFields checks raw extractor output against the schema for t.
// A nil error means the output already matches the canonical shape.
func ValidateFields(t Type, fields map[string]any) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	schema, ok := schemas[t]
	if !ok {
		return nil
	}
	if err := schema.Validate(any(fields)); err != nil {
		return fmt.Errorf("%s metadata does not match schema: %w", t, err)
	}
	return nil
}
